// Package track scores and filters postings against target domain tracks
// (swe, cyber, it, data) and supplies per-track query expansions.
//
// Track "all" is a no-op value that passes every posting and injects no
// extra query terms.
package track

import (
	"sort"
	"strings"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

// Scoring weights: a strong keyword in the title is near-conclusive, while
// weak keywords only accumulate. Negative keywords pull the score down so
// retail/sales postings that mention "systems" do not slip through.
const (
	strongTitleScore   = 10
	strongSnippetScore = 5
	weakTitleScore     = 3
	weakSnippetScore   = 1
	negativePenalty    = 3

	// MinScore is the default threshold a posting must reach to count as a
	// track match.
	MinScore = 3
)

type keywordSet struct {
	strong []string
	weak   []string
}

var trackKeywords = map[model.Track]keywordSet{
	model.TrackCyber: {
		strong: []string{
			"cybersecurity", "cyber security", "information security", "infosec",
			"soc analyst", "soc intern", "penetration test", "pentest",
			"security analyst", "security engineer", "network security",
			"vulnerability", "threat intelligence", "malware", "forensics",
			"incident response", "security operations", "ethical hacking",
		},
		weak: []string{"security", "cyber", "firewall", "compliance", "audit"},
	},
	model.TrackIT: {
		strong: []string{
			"help desk", "helpdesk", "desktop support", "it support",
			"systems administrator", "sysadmin", "network administrator",
			"it analyst", "it technician", "it specialist", "service desk",
			"information technology intern",
		},
		weak: []string{
			"it intern", "tech support", "systems", "network", "infrastructure",
			"windows", "active directory", "hardware", "troubleshoot",
		},
	},
	model.TrackSWE: {
		strong: []string{
			"software engineer", "software developer", "swe intern",
			"backend engineer", "frontend engineer", "full stack", "fullstack",
			"web developer", "application developer", "mobile developer",
			"ios developer", "android developer", "devops", "site reliability",
			"platform engineer",
		},
		weak: []string{
			"developer", "programmer", "coding", "python", "java", "javascript",
			"react", "node", "backend", "frontend", "api", "kubernetes", "docker",
		},
	},
	model.TrackData: {
		strong: []string{
			"data analyst", "data scientist", "data engineer",
			"business intelligence", "bi analyst", "machine learning",
			"ml engineer", "analytics engineer", "data analytics", "data science",
			"quantitative analyst",
		},
		weak: []string{
			"data", "analytics", "sql", "etl", "tableau", "power bi", "pandas",
			"numpy", "statistics", "reporting", "dashboard",
		},
	},
}

// Keywords that suggest a non-technical role; each hit applies a penalty.
var negativeKeywords = []string{
	"sales", "marketing", "real estate", "insurance", "retail", "cashier",
	"barista", "social media manager", "customer service", "store",
	"restaurant", "hospitality",
}

// Per-track query expansion injected by the query builder when the caller
// gave no explicit keyword. These are fixed, provider-tuned strings.
var queryTerms = map[model.Track]string{
	model.TrackCyber: `("intern" OR "internship") (cybersecurity OR "information security" OR SOC OR "security analyst" OR "network security" OR "penetration test")`,
	model.TrackIT:    `("intern" OR "internship") ("IT" OR "help desk" OR "systems" OR "desktop support" OR "network")`,
	model.TrackSWE:   `("intern" OR "internship") ("software engineer" OR SWE OR backend OR frontend OR "full stack" OR developer)`,
	model.TrackData:  `("intern" OR "internship") (data OR analytics OR "data analyst" OR "business intelligence" OR SQL OR "machine learning")`,
}

// QueryTerms returns the fixed expansion string for t, or "" for TrackAll
// and unrecognized values.
func QueryTerms(t model.Track) string {
	return queryTerms[t]
}

// Score rates how strongly title+snippet matches t. Higher is better and
// the result is never negative. TrackAll always scores 1.
func Score(t model.Track, title, snippet string) int {
	if t == model.TrackAll || t == "" {
		return 1
	}
	kws, ok := trackKeywords[t]
	if !ok {
		return 0
	}

	titleLower := strings.ToLower(title)
	snippetLower := strings.ToLower(snippet)
	full := titleLower + " " + snippetLower

	score := 0
	for _, kw := range kws.strong {
		switch {
		case strings.Contains(titleLower, kw):
			score += strongTitleScore
		case strings.Contains(snippetLower, kw):
			score += strongSnippetScore
		}
	}
	for _, kw := range kws.weak {
		switch {
		case strings.Contains(titleLower, kw):
			score += weakTitleScore
		case strings.Contains(snippetLower, kw):
			score += weakSnippetScore
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(full, kw) {
			score -= negativePenalty
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

// Matches reports whether the posting text reaches MinScore for t.
// TrackAll matches everything.
func Matches(t model.Track, title, snippet string) bool {
	return Score(t, title, snippet) >= minScoreFor(t)
}

func minScoreFor(t model.Track) int {
	if t == model.TrackAll || t == "" {
		return 1
	}
	return MinScore
}

// MatchLabel returns a pipe-separated list of every track the posting text
// matches, e.g. "cyber|it". Empty when nothing matches. Track order is
// stable across calls.
func MatchLabel(title, snippet string) string {
	var matched []string
	for t := range trackKeywords {
		if Score(t, title, snippet) >= MinScore {
			matched = append(matched, string(t))
		}
	}
	sort.Strings(matched)
	return strings.Join(matched, "|")
}

// Filter returns the postings whose text matches t, preserving order.
// TrackAll returns the input unchanged.
func Filter(t model.Track, postings []*model.Posting) []*model.Posting {
	if t == model.TrackAll || t == "" {
		return postings
	}
	kept := make([]*model.Posting, 0, len(postings))
	for _, p := range postings {
		if Matches(t, p.Title, p.Snippet) {
			kept = append(kept, p)
		}
	}
	return kept
}
