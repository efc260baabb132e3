package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

// Structured date layouts tried in order against provider metadata.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Relative phrases like "3 days ago", "posted 2 weeks ago", "an hour ago".
var relativeRe = regexp.MustCompile(`(?i)\b(\d+|an?)\s+(minute|hour|day|week|month)s?\s+ago\b`)

// ParseDate resolves a posting date from the provider's structured metadata
// first (EXACT), then from relative phrases in the snippet (APPROXIMATE).
// Returns (nil, UNKNOWN) when neither yields a date.
func ParseDate(pageAge, snippet string, now time.Time) (*time.Time, model.DateConfidence) {
	if raw := strings.TrimSpace(pageAge); raw != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				t = t.UTC()
				return &t, model.DateExact
			}
		}
	}

	lower := strings.ToLower(snippet)
	if strings.Contains(lower, "yesterday") {
		t := now.AddDate(0, 0, -1).UTC()
		return &t, model.DateApproximate
	}
	if strings.Contains(lower, "today") || strings.Contains(lower, "just posted") {
		t := now.UTC()
		return &t, model.DateApproximate
	}

	if m := relativeRe.FindStringSubmatch(snippet); m != nil {
		n := 1
		if v, err := strconv.Atoi(m[1]); err == nil {
			n = v
		}
		var t time.Time
		switch strings.ToLower(m[2]) {
		case "minute":
			t = now.Add(-time.Duration(n) * time.Minute)
		case "hour":
			t = now.Add(-time.Duration(n) * time.Hour)
		case "day":
			t = now.AddDate(0, 0, -n)
		case "week":
			t = now.AddDate(0, 0, -7*n)
		case "month":
			t = now.AddDate(0, -n, 0)
		}
		t = t.UTC()
		return &t, model.DateApproximate
	}

	return nil, model.DateUnknown
}
