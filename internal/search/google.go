package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	googleBaseURL = "https://www.googleapis.com/customsearch/v1"

	// The API returns at most 10 items per request; the highest accepted
	// start index is 91, a hard ceiling of 100 results per query.
	googlePageSize = 10
	googleMaxStart = 91
)

// GoogleProvider fetches raw results from the Google Custom Search JSON
// API. Requires an API key and a Programmable Search Engine ID.
type GoogleProvider struct {
	apiKey string
	cseID  string
	client *http.Client
}

// NewGoogleProvider constructs a provider with a shared HTTP client.
func NewGoogleProvider(apiKey, cseID string, client *http.Client) *GoogleProvider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &GoogleProvider{apiKey: apiKey, cseID: cseID, client: client}
}

func (g *GoogleProvider) Name() string { return "google" }

type googleResponse struct {
	Items []googleItem `json:"items"`
}

type googleItem struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Pagemap struct {
		Metatags []map[string]string `json:"metatags"`
	} `json:"pagemap"`
}

// Search runs q against the API, paginating with the start parameter up to
// q.Count results. Duplicate URLs within the query are dropped.
func (g *GoogleProvider) Search(ctx context.Context, q Query) ([]RawResult, error) {
	seen := make(map[string]struct{})
	var results []RawResult

	for start := 1; start <= googleMaxStart && len(results) < q.Count; start += googlePageSize {
		items, err := g.page(ctx, q, start)
		if err != nil {
			return results, &ProviderError{Provider: g.Name(), Query: q.Text, Err: err}
		}
		if len(items) == 0 {
			break
		}
		for _, it := range items {
			if it.Link == "" {
				continue
			}
			if _, dup := seen[it.Link]; dup {
				continue
			}
			seen[it.Link] = struct{}{}
			results = append(results, RawResult{
				URL:     it.Link,
				Title:   it.Title,
				Snippet: it.Snippet,
				PageAge: metaDate(it),
			})
			if len(results) >= q.Count {
				break
			}
		}
		if len(items) < googlePageSize {
			break // last page
		}
	}

	return results, nil
}

func (g *GoogleProvider) page(ctx context.Context, q Query, start int) ([]googleItem, error) {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("cx", g.cseID)
	params.Set("q", q.Text)
	params.Set("num", strconv.Itoa(googlePageSize))
	if start > 1 {
		params.Set("start", strconv.Itoa(start))
	}
	if q.FreshnessDays > 0 {
		params.Set("dateRestrict", fmt.Sprintf("d%d", q.FreshnessDays))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var apiResp googleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return apiResp.Items, nil
}

// metaDate digs a published-date hint out of the result's metatags.
func metaDate(it googleItem) string {
	for _, tags := range it.Pagemap.Metatags {
		for _, key := range []string{"article:published_time", "og:updated_time", "date"} {
			if v := tags[key]; v != "" {
				return v
			}
		}
	}
	return ""
}
