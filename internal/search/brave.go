package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	braveBaseURL  = "https://api.search.brave.com/res/v1/web/search"
	bravePageSize = 20 // API maximum

	braveMaxRetries     = 3
	braveInitialBackoff = time.Second
)

// BraveProvider fetches raw results from the Brave Web Search API.
// Authentication is a single subscription token sent per request.
type BraveProvider struct {
	apiKey string
	client *http.Client
	// sleep is swapped out in tests to avoid real backoff delays.
	sleep func(time.Duration)
}

// NewBraveProvider constructs a provider with a shared HTTP client.
func NewBraveProvider(apiKey string, client *http.Client) *BraveProvider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &BraveProvider{apiKey: apiKey, client: client, sleep: time.Sleep}
}

func (b *BraveProvider) Name() string { return "brave" }

type braveResponse struct {
	Web struct {
		Results []braveResult `json:"results"`
	} `json:"web"`
}

type braveResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PageAge     string `json:"page_age"`
}

// Search runs q against the Brave API, paginating via the offset parameter
// until q.Count results are collected or no more pages exist. Duplicate
// URLs within the query are dropped.
func (b *BraveProvider) Search(ctx context.Context, q Query) ([]RawResult, error) {
	seen := make(map[string]struct{})
	var results []RawResult

	for offset := 0; len(results) < q.Count; offset += bravePageSize {
		batch, err := b.page(ctx, q, offset)
		if err != nil {
			return results, &ProviderError{Provider: b.Name(), Query: q.Text, Err: err}
		}
		if len(batch) == 0 {
			break
		}
		for _, r := range batch {
			if r.URL == "" {
				continue
			}
			if _, dup := seen[r.URL]; dup {
				continue
			}
			seen[r.URL] = struct{}{}
			results = append(results, RawResult{
				URL:     r.URL,
				Title:   r.Title,
				Snippet: r.Description,
				PageAge: r.PageAge,
			})
			if len(results) >= q.Count {
				break
			}
		}
		if len(batch) < bravePageSize {
			break // last page
		}
	}

	return results, nil
}

// page issues one API request, retrying 429 responses with exponential
// backoff.
func (b *BraveProvider) page(ctx context.Context, q Query, offset int) ([]braveResult, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("count", strconv.Itoa(bravePageSize))
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	if f := braveFreshness(q.FreshnessDays); f != "" {
		params.Set("freshness", f)
	}

	backoff := braveInitialBackoff
	for attempt := 0; ; attempt++ {
		body, status, err := b.get(ctx, braveBaseURL+"?"+params.Encode())
		if err != nil {
			return nil, err
		}
		if status == http.StatusTooManyRequests {
			if attempt >= braveMaxRetries {
				return nil, fmt.Errorf("rate limited after %d retries", braveMaxRetries)
			}
			log.Printf("[brave] 429 rate-limited, retrying in %s (attempt %d/%d)", backoff, attempt+1, braveMaxRetries)
			b.sleep(backoff)
			backoff *= 2
			continue
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("brave returned %d: %s", status, truncate(body, 200))
		}

		var resp braveResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
		return resp.Web.Results, nil
	}
}

func (b *BraveProvider) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// braveFreshness maps a day window onto the API's coarse freshness buckets.
func braveFreshness(days int) string {
	switch {
	case days <= 0:
		return ""
	case days <= 1:
		return "pd"
	case days <= 7:
		return "pw"
	case days <= 31:
		return "pm"
	default:
		return "py"
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "…"
}
