// Package extract pulls structured job-posting data (schema.org JobPosting
// JSON-LD) out of a posting page. When a page is unreachable or carries no
// structured data the caller falls back to the raw search-result metadata.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

const (
	fetchTimeout = 10 * time.Second
	maxBodyBytes = 1 << 20

	userAgent = "Mozilla/5.0 (compatible; InternshipDiscoveryBot/0.1)"
)

// Result is the structured data extracted from one posting page. When
// Blocked is true the page was inaccessible and every other field carries
// its zero value.
type Result struct {
	Title          string
	Company        string
	Location       string
	Description    string
	DatePosted     *time.Time
	DateConfidence model.DateConfidence
	ApplyURL       string
	EmploymentType string
	Blocked        bool
}

// Extractor fetches a URL and extracts JSON-LD JobPosting fields.
type Extractor struct {
	client *http.Client
}

// New constructs an Extractor. A nil client gets a default one with a short
// timeout; pass an httptest-backed client in tests.
func New(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Extractor{client: client}
}

// FetchAndExtract GETs url and parses its HTML. Network and HTTP errors
// yield Result{Blocked: true}; they are never propagated.
func (e *Extractor) FetchAndExtract(ctx context.Context, url string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Blocked: true, DateConfidence: model.DateUnknown}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := e.client.Do(req)
	if err != nil {
		log.Printf("[extract] fetch failed for %s: %v", url, err)
		return Result{Blocked: true, DateConfidence: model.DateUnknown}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[extract] HTTP %d for %s", resp.StatusCode, url)
		return Result{Blocked: true, DateConfidence: model.DateUnknown}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{Blocked: true, DateConfidence: model.DateUnknown}
	}
	return ParseHTML(string(body), url)
}

// ParseHTML extracts job-posting fields from html without any network
// access. sourceURL is used to avoid reporting the posting URL itself as a
// separate apply URL.
func ParseHTML(html, sourceURL string) Result {
	res := Result{DateConfidence: model.DateUnknown}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return res
	}

	var schema map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true // malformed block, keep looking
		}
		if found := findJobPosting(data); found != nil {
			schema = found
			return false
		}
		return true
	})
	if schema == nil {
		return res
	}

	res.Title = text(schema["title"])
	res.Company = parseCompany(schema)
	res.Location = parseLocation(schema)
	res.Description = text(schema["description"])
	res.EmploymentType = text(schema["employmentType"])
	res.DatePosted, res.DateConfidence = parseDatePosted(schema["datePosted"])
	res.ApplyURL = parseApplyURL(schema, sourceURL)
	return res
}

// findJobPosting recursively searches data for a JobPosting object,
// including nested @graph arrays.
func findJobPosting(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if text(v["@type"]) == "JobPosting" {
			return v
		}
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				if found := findJobPosting(item); found != nil {
					return found
				}
			}
		}
	case []any:
		for _, item := range v {
			if found := findJobPosting(item); found != nil {
				return found
			}
		}
	}
	return nil
}

func text(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func parseCompany(schema map[string]any) string {
	switch org := schema["hiringOrganization"].(type) {
	case string:
		return strings.TrimSpace(org)
	case map[string]any:
		return text(org["name"])
	}
	return ""
}

func parseLocation(schema map[string]any) string {
	// The remote-work indicator takes priority over any address.
	if strings.EqualFold(text(schema["jobLocationType"]), "TELECOMMUTE") {
		return "Remote"
	}

	loc := schema["jobLocation"]
	if list, ok := loc.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		loc = list[0]
	}
	switch v := loc.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		addr := v["address"]
		if s, ok := addr.(string); ok {
			return strings.TrimSpace(s)
		}
		m, ok := addr.(map[string]any)
		if !ok {
			return ""
		}
		locality := text(m["addressLocality"])
		region := text(m["addressRegion"])
		country := text(m["addressCountry"])

		var parts []string
		if locality != "" {
			parts = append(parts, locality)
		}
		if region != "" {
			parts = append(parts, region)
		}
		// Omit the country when city+state already identify a US location.
		if country != "" && (len(parts) == 0 || (country != "US" && country != "USA" && country != "United States")) {
			parts = append(parts, country)
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func parseDatePosted(v any) (*time.Time, model.DateConfidence) {
	raw := text(v)
	if raw == "" {
		return nil, model.DateUnknown
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, model.DateExact
		}
	}
	return nil, model.DateUnknown
}

func parseApplyURL(schema map[string]any, sourceURL string) string {
	apply := text(schema["url"])
	if apply == "" || strings.TrimRight(apply, "/") == strings.TrimRight(sourceURL, "/") {
		return ""
	}
	return apply
}
