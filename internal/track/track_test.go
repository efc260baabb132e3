package track_test

import (
	"strings"
	"testing"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
	"github.com/diegovill05/internship-discovery-engine/internal/track"
)

// ── Scoring ────────────────────────────────────────────────────────────────

func TestScore_StrongTitleKeyword(t *testing.T) {
	got := track.Score(model.TrackSWE, "Software Engineer Intern", "")
	if got < track.MinScore {
		t.Errorf("Score = %d, want >= %d for a strong title keyword", got, track.MinScore)
	}
}

func TestScore_NegativeKeywordsPenalize(t *testing.T) {
	clean := track.Score(model.TrackIT, "IT Support Intern", "troubleshoot hardware")
	dirty := track.Score(model.TrackIT, "IT Support Intern", "troubleshoot hardware at our retail store")
	if dirty >= clean {
		t.Errorf("negative keywords must lower the score: clean=%d dirty=%d", clean, dirty)
	}
}

func TestScore_NeverNegative(t *testing.T) {
	got := track.Score(model.TrackCyber, "Retail Sales Associate", "store cashier customer service")
	if got < 0 {
		t.Errorf("Score = %d, must never be negative", got)
	}
}

func TestScore_TrackAllAlwaysPasses(t *testing.T) {
	if got := track.Score(model.TrackAll, "Barista", "coffee"); got != 1 {
		t.Errorf("Score(all) = %d, want unconditional 1", got)
	}
}

func TestMatches_UnrelatedPosting(t *testing.T) {
	if track.Matches(model.TrackData, "Marketing Coordinator", "social media campaigns") {
		t.Error("marketing posting must not match the data track")
	}
}

// ── Filtering ──────────────────────────────────────────────────────────────

func TestFilter_TrackAllIsNoOp(t *testing.T) {
	postings := []*model.Posting{
		{Title: "Barista"},
		{Title: "Software Engineer Intern"},
	}
	got := track.Filter(model.TrackAll, postings)
	if len(got) != 2 {
		t.Errorf("Filter(all) kept %d postings, want all %d", len(got), len(postings))
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	postings := []*model.Posting{
		{Title: "Security Analyst Intern"},
		{Title: "Retail Cashier"},
		{Title: "SOC Analyst Internship"},
	}
	got := track.Filter(model.TrackCyber, postings)
	if len(got) != 2 || got[0].Title != "Security Analyst Intern" || got[1].Title != "SOC Analyst Internship" {
		t.Errorf("Filter broke ordering or kept the wrong postings: %+v", got)
	}
}

// ── Labels and query terms ─────────────────────────────────────────────────

func TestMatchLabel_MultipleTracks(t *testing.T) {
	label := track.MatchLabel("Cybersecurity Engineer Intern", "network security python backend")
	if !strings.Contains(label, "cyber") {
		t.Errorf("MatchLabel = %q, want cyber included", label)
	}
	if label != "" && strings.Contains(label, " ") {
		t.Errorf("MatchLabel must be pipe-separated, got %q", label)
	}
}

func TestQueryTerms_AllIsEmpty(t *testing.T) {
	if got := track.QueryTerms(model.TrackAll); got != "" {
		t.Errorf("QueryTerms(all) = %q, want empty", got)
	}
}

func TestQueryTerms_EveryTrackHasTerms(t *testing.T) {
	for _, tr := range []model.Track{model.TrackSWE, model.TrackCyber, model.TrackIT, model.TrackData} {
		if track.QueryTerms(tr) == "" {
			t.Errorf("QueryTerms(%s) is empty", tr)
		}
	}
}

// ── Categorization ─────────────────────────────────────────────────────────

func TestCategorize_DataBeforeSoftware(t *testing.T) {
	// "ML Engineer" mentions "engineer" too; data must win by scan order.
	if got := track.Categorize("Machine Learning Engineer Intern", ""); got != track.CategoryData {
		t.Errorf("Categorize = %q, want %q", got, track.CategoryData)
	}
}

func TestCategorize_Fallback(t *testing.T) {
	if got := track.Categorize("Warehouse Associate", "lifting boxes"); got != track.CategoryOther {
		t.Errorf("Categorize = %q, want %q", got, track.CategoryOther)
	}
}

func TestCategorize_Software(t *testing.T) {
	if got := track.Categorize("Backend Developer Intern", ""); got != track.CategorySoftware {
		t.Errorf("Categorize = %q, want %q", got, track.CategorySoftware)
	}
}
