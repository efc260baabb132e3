package normalize

import (
	"testing"
	"time"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
	"github.com/diegovill05/internship-discovery-engine/internal/search"
)

// ── SplitTitle ─────────────────────────────────────────────────────────────

func TestSplitTitle(t *testing.T) {
	cases := []struct {
		raw, title, company string
	}{
		{"Software Engineer Intern at Acme", "Software Engineer Intern", "Acme"},
		{"Data Analyst Intern - Beta Corp", "Data Analyst Intern", "Beta Corp"},
		{"Security Intern | CyberCo", "Security Intern", "CyberCo"},
		{"IT Intern at Acme | LinkedIn", "IT Intern", "Acme"},
		{"Software Engineer Intern", "Software Engineer Intern", ""},
		{"Backend Intern - Indeed", "Backend Intern", ""},
	}
	for _, c := range cases {
		title, company := SplitTitle(c.raw)
		if title != c.title || company != c.company {
			t.Errorf("SplitTitle(%q) = (%q, %q), want (%q, %q)", c.raw, title, company, c.title, c.company)
		}
	}
}

// ── Normalize ──────────────────────────────────────────────────────────────

func TestNormalize_AssignsFingerprintAndDefaults(t *testing.T) {
	n := New(model.SourceBrave, model.TrackSWE)
	p, err := n.Normalize(search.RawResult{
		URL:   "https://boards.acme.com/jobs/1",
		Title: "Software Engineer Intern at Acme",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Fingerprint == "" {
		t.Error("fingerprint must be assigned at normalization, before any probe")
	}
	if p.Status != model.StatusNotChecked {
		t.Errorf("Status = %s, want NOT_CHECKED", p.Status)
	}
	if p.Source != model.SourceBrave {
		t.Errorf("Source = %s, want brave", p.Source)
	}
	if !p.TrackMatch {
		t.Error("swe posting should match the swe track")
	}
}

func TestNormalize_CompanyFallbackToDomain(t *testing.T) {
	n := New(model.SourceGoogle, model.TrackAll)
	p, err := n.Normalize(search.RawResult{
		URL:     "https://careers.initech.com/jobs/42",
		Title:   "Software Engineer Intern",
		PageAge: "2026-08-20",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Company != "initech" {
		t.Errorf("Company = %q, want second-level domain fallback %q", p.Company, "initech")
	}
	if p.DateConfidence != model.DateUnknown {
		t.Errorf("DateConfidence = %s, want UNKNOWN when company extraction failed", p.DateConfidence)
	}
	if p.DatePosted != nil {
		t.Error("DatePosted must be nil when confidence is UNKNOWN")
	}
}

func TestNormalize_MalformedHit(t *testing.T) {
	n := New(model.SourceBrave, model.TrackAll)
	if _, err := n.Normalize(search.RawResult{Title: "no url"}); err == nil {
		t.Error("hit without URL must be rejected")
	}
	if _, err := n.Normalize(search.RawResult{URL: "::not-a-url"}); err == nil {
		t.Error("hit with unparseable URL must be rejected")
	}
}

func TestNormalize_RemoteLocationHint(t *testing.T) {
	n := New(model.SourceBrave, model.TrackAll)
	p, err := n.Normalize(search.RawResult{
		URL:     "https://acme.com/jobs/1",
		Title:   "Intern at Acme",
		Snippet: "Fully remote internship for students",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if p.Location != "Remote" {
		t.Errorf("Location = %q, want Remote", p.Location)
	}
	if !p.IsRemote() {
		t.Error("IsRemote should be true")
	}
}

// ── ParseDate ──────────────────────────────────────────────────────────────

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		pageAge    string
		snippet    string
		wantConf   model.DateConfidence
		wantOffset int // days before now; -1 means nil date
	}{
		{"structured ISO date", "2026-08-20T10:00:00Z", "", model.DateExact, 11},
		{"structured date only", "2026-08-28", "", model.DateExact, 3},
		{"relative days", "", "Posted 3 days ago by Acme", model.DateApproximate, 3},
		{"relative weeks", "", "2 weeks ago", model.DateApproximate, 14},
		{"yesterday", "", "Posted yesterday", model.DateApproximate, 1},
		{"no information", "", "Great internship opportunity at Acme.", model.DateUnknown, -1},
		{"garbage metadata", "soonish", "", model.DateUnknown, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, conf := ParseDate(c.pageAge, c.snippet, now)
			if conf != c.wantConf {
				t.Fatalf("confidence = %s, want %s", conf, c.wantConf)
			}
			if c.wantOffset < 0 {
				if got != nil {
					t.Fatalf("date = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("date = nil, want a value")
			}
			want := now.AddDate(0, 0, -c.wantOffset)
			if got.Year() != want.Year() || got.YearDay() != want.YearDay() {
				t.Errorf("date = %v, want around %v", got, want)
			}
		})
	}
}
