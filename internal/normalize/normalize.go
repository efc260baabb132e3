// Package normalize maps raw search hits into canonical Posting records.
// It is pure string/date heuristics; no network access happens here.
package normalize

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/diegovill05/internship-discovery-engine/internal/dedup"
	"github.com/diegovill05/internship-discovery-engine/internal/model"
	"github.com/diegovill05/internship-discovery-engine/internal/search"
	"github.com/diegovill05/internship-discovery-engine/internal/track"
)

// Title/company separators, tried in order. " at " is most reliable
// ("Software Engineer Intern at Acme"), dash and pipe variants cover the
// "Role - Company" and "Role | Company" board formats.
var separators = []string{" at ", " @ ", " - ", " – ", " — ", " | "}

// Suffixes job boards tack onto titles ("… | LinkedIn", "… - Indeed.com").
var boardSuffixes = []string{
	"linkedin", "indeed", "indeed.com", "glassdoor", "ziprecruiter",
	"lever", "greenhouse", "workday", "jobs", "careers",
}

// Normalizer converts raw hits for a given source and requested track.
type Normalizer struct {
	source model.Source
	track  model.Track
	now    func() time.Time
}

// New builds a Normalizer. src tags every produced posting; tr drives the
// TrackMatch flag (TrackAll matches everything).
func New(src model.Source, tr model.Track) *Normalizer {
	return &Normalizer{source: src, track: tr, now: time.Now}
}

// Normalize maps one raw hit into a Posting. The fingerprint is assigned
// here, before any probing, and the active status starts as NOT_CHECKED.
// An error means the hit is malformed (no usable URL) and must be skipped
// by the caller; it is never fatal to the run.
func (n *Normalizer) Normalize(raw search.RawResult) (*model.Posting, error) {
	postingURL := strings.TrimSpace(raw.URL)
	if postingURL == "" {
		return nil, fmt.Errorf("hit has no URL (title %q)", raw.Title)
	}
	if _, err := url.ParseRequestURI(postingURL); err != nil {
		return nil, fmt.Errorf("hit has unparseable URL %q: %w", postingURL, err)
	}

	title, company := SplitTitle(raw.Title)
	datePosted, confidence := ParseDate(raw.PageAge, raw.Snippet, n.now())
	if company == "" {
		// Extraction failed: fall back to the URL's second-level domain and
		// treat the date as untrustworthy too, since the hit clearly does
		// not follow the usual board formatting.
		company = domainFallback(postingURL)
		datePosted = nil
		confidence = model.DateUnknown
	}

	p := &model.Posting{
		Title:          title,
		Company:        company,
		Location:       extractLocation(raw.Snippet),
		Snippet:        strings.TrimSpace(raw.Snippet),
		PostingURL:     postingURL,
		DatePosted:     datePosted,
		DateConfidence: confidence,
		Source:         n.source,
		Track:          n.track,
		Status:         model.StatusNotChecked,
		TrackMatch:     track.Matches(n.track, raw.Title, raw.Snippet),
	}
	p.Category = track.Categorize(p.Title, p.Snippet)
	p.Fingerprint = dedup.Fingerprint(p)
	return p, nil
}

// SplitTitle separates a raw result title into role title and company using
// known separator heuristics. company is "" when extraction fails.
func SplitTitle(raw string) (title, company string) {
	title = strings.TrimSpace(raw)
	if title == "" {
		return "", ""
	}

	for _, sep := range separators {
		idx := strings.Index(title, sep)
		if idx <= 0 {
			continue
		}
		left := strings.TrimSpace(title[:idx])
		right := strings.TrimSpace(title[idx+len(sep):])
		if left == "" || right == "" {
			continue
		}
		// A trailing board name is not a company.
		if isBoardName(right) {
			title = left
			continue
		}
		// The company part may itself carry a board suffix: "Acme | LinkedIn".
		for _, s := range separators {
			if j := strings.Index(right, s); j > 0 && isBoardName(right[j+len(s):]) {
				right = strings.TrimSpace(right[:j])
			}
		}
		return left, right
	}
	return title, ""
}

func isBoardName(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, b := range boardSuffixes {
		if s == b {
			return true
		}
	}
	return false
}

// domainFallback returns the second-level domain of u, e.g.
// "https://boards.acme.com/x" → "acme". Empty on parse failure.
func domainFallback(u string) string {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	parts := strings.Split(parsed.Hostname(), ".")
	if len(parts) < 2 {
		return parts[0]
	}
	return parts[len(parts)-2]
}

// extractLocation pulls a coarse location hint out of the snippet. Only the
// "Remote" marker is reliable enough to act on; anything else stays empty
// and the sheet column is filled from the extractor when available.
func extractLocation(snippet string) string {
	if strings.Contains(strings.ToLower(snippet), "remote") {
		return "Remote"
	}
	return ""
}
