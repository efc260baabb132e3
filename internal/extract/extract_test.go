package extract_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diegovill05/internship-discovery-engine/internal/extract"
	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

func page(jsonLD string) string {
	return fmt.Sprintf(`<!doctype html>
<html><head>
<title>Some Job</title>
<script type="application/ld+json">%s</script>
</head><body><h1>Apply below</h1></body></html>`, jsonLD)
}

const fullPosting = `{
	"@context": "https://schema.org",
	"@type": "JobPosting",
	"title": "Security Engineering Intern",
	"hiringOrganization": {"@type": "Organization", "name": "Acme Corp"},
	"jobLocation": {"@type": "Place", "address": {
		"addressLocality": "Austin", "addressRegion": "TX", "addressCountry": "US"}},
	"datePosted": "2026-08-20",
	"employmentType": "INTERN",
	"url": "https://acme.com/careers/apply/123"
}`

// ── ParseHTML ──────────────────────────────────────────────────────────────

func TestParseHTML_FullJobPosting(t *testing.T) {
	res := extract.ParseHTML(page(fullPosting), "https://boards.example.com/job/123")

	if res.Title != "Security Engineering Intern" {
		t.Errorf("title = %q", res.Title)
	}
	if res.Company != "Acme Corp" {
		t.Errorf("company = %q", res.Company)
	}
	if res.Location != "Austin, TX" {
		t.Errorf("location = %q, want US country omitted", res.Location)
	}
	if res.DateConfidence != model.DateExact {
		t.Errorf("date confidence = %v, want exact", res.DateConfidence)
	}
	want := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	if res.DatePosted == nil || !res.DatePosted.Equal(want) {
		t.Errorf("datePosted = %v, want %v", res.DatePosted, want)
	}
	if res.ApplyURL != "https://acme.com/careers/apply/123" {
		t.Errorf("applyURL = %q", res.ApplyURL)
	}
	if res.EmploymentType != "INTERN" {
		t.Errorf("employmentType = %q", res.EmploymentType)
	}
}

func TestParseHTML_NoStructuredData(t *testing.T) {
	res := extract.ParseHTML("<html><body><p>plain page</p></body></html>", "https://x.test/1")
	if res.Title != "" || res.Company != "" {
		t.Errorf("expected empty result, got %+v", res)
	}
	if res.DateConfidence != model.DateUnknown {
		t.Errorf("date confidence = %v, want unknown", res.DateConfidence)
	}
}

func TestParseHTML_MalformedBlockThenValid(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">{not json</script>
<script type="application/ld+json">` + fullPosting + `</script>
</head></html>`

	res := extract.ParseHTML(html, "https://x.test/1")
	if res.Title != "Security Engineering Intern" {
		t.Errorf("title = %q, want valid block to win over malformed one", res.Title)
	}
}

func TestParseHTML_GraphNesting(t *testing.T) {
	graph := `{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebPage", "name": "careers"},
			{"@type": "JobPosting", "title": "Data Intern",
			 "hiringOrganization": "Beta Labs",
			 "jobLocationType": "TELECOMMUTE"}
		]
	}`
	res := extract.ParseHTML(page(graph), "https://x.test/1")
	if res.Title != "Data Intern" {
		t.Errorf("title = %q", res.Title)
	}
	if res.Company != "Beta Labs" {
		t.Errorf("company = %q, want plain-string hiringOrganization accepted", res.Company)
	}
	if res.Location != "Remote" {
		t.Errorf("location = %q, want TELECOMMUTE mapped to Remote", res.Location)
	}
}

func TestParseHTML_ArrayTopLevel(t *testing.T) {
	arr := `[{"@type": "BreadcrumbList"}, {"@type": "JobPosting", "title": "SWE Intern"}]`
	res := extract.ParseHTML(page(arr), "https://x.test/1")
	if res.Title != "SWE Intern" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestParseHTML_ApplyURLMatchingSourceSuppressed(t *testing.T) {
	posting := `{"@type": "JobPosting", "title": "Intern", "url": "https://acme.com/job/9/"}`
	res := extract.ParseHTML(page(posting), "https://acme.com/job/9")
	if res.ApplyURL != "" {
		t.Errorf("applyURL = %q, want suppressed when it matches the page URL", res.ApplyURL)
	}
}

func TestParseHTML_NonUSCountryKept(t *testing.T) {
	posting := `{"@type": "JobPosting", "title": "Intern", "jobLocation": {"address": {
		"addressLocality": "Toronto", "addressRegion": "ON", "addressCountry": "Canada"}}}`
	res := extract.ParseHTML(page(posting), "https://x.test/1")
	if res.Location != "Toronto, ON, Canada" {
		t.Errorf("location = %q", res.Location)
	}
}

func TestParseHTML_LocationList(t *testing.T) {
	posting := `{"@type": "JobPosting", "title": "Intern", "jobLocation": [
		{"address": {"addressLocality": "Denver", "addressRegion": "CO"}},
		{"address": {"addressLocality": "Boston", "addressRegion": "MA"}}]}`
	res := extract.ParseHTML(page(posting), "https://x.test/1")
	if res.Location != "Denver, CO" {
		t.Errorf("location = %q, want first entry", res.Location)
	}
}

// ── FetchAndExtract ────────────────────────────────────────────────────────

func TestFetchAndExtract_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("missing User-Agent header")
		}
		fmt.Fprint(w, page(fullPosting))
	}))
	defer srv.Close()

	ex := extract.New(srv.Client())
	res := ex.FetchAndExtract(context.Background(), srv.URL)
	if res.Blocked {
		t.Fatal("unexpected blocked result")
	}
	if res.Title != "Security Engineering Intern" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestFetchAndExtract_HTTPErrorIsBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	ex := extract.New(srv.Client())
	res := ex.FetchAndExtract(context.Background(), srv.URL)
	if !res.Blocked {
		t.Error("expected blocked result on HTTP 403")
	}
}

func TestFetchAndExtract_ConnectionFailureIsBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	ex := extract.New(nil)
	res := ex.FetchAndExtract(context.Background(), url)
	if !res.Blocked {
		t.Error("expected blocked result on connection failure")
	}
}
