package search

import (
	"fmt"
	"strings"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
	"github.com/diegovill05/internship-discovery-engine/internal/track"
)

// Terms appended to every query so results stay internship-focused.
var defaultTerms = []string{"internship", "intern"}

// Query is one search request: the query text plus the provider-level
// parameters derived from the criteria.
type Query struct {
	Text string
	// Count is the maximum number of results wanted for this query.
	Count int
	// FreshnessDays asks the provider to restrict results to the last N
	// days when it supports that; 0 means no restriction. Recency is
	// enforced again by the pipeline for postings with a known date.
	FreshnessDays int
}

// BuildQueries turns criteria into a non-empty ordered list of queries, one
// per location (or a single un-scoped query when no location is given).
//
// The explicit keyword is used verbatim when present. Otherwise a
// recognized track injects its fixed expansion terms; track "all" injects
// nothing beyond the default internship terms. When remote postings are
// excluded a negated "remote" qualifier is appended.
func BuildQueries(c model.Criteria) ([]Query, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var tokens []string
	switch {
	case c.Keyword != "":
		tokens = append(tokens, c.Keyword, strings.Join(defaultTerms, " "))
	case c.Track != model.TrackAll && c.Track != "":
		tokens = append(tokens, track.QueryTerms(c.Track))
	default:
		tokens = append(tokens, strings.Join(defaultTerms, " "))
	}
	if !c.IncludeRemote {
		tokens = append(tokens, "-remote")
	}
	base := strings.Join(tokens, " ")

	mk := func(text string) Query {
		return Query{Text: text, Count: c.MaxResults, FreshnessDays: c.PostedWithinDays}
	}

	if len(c.Locations) == 0 {
		return []Query{mk(base)}, nil
	}
	queries := make([]Query, 0, len(c.Locations))
	for _, loc := range c.Locations {
		queries = append(queries, mk(fmt.Sprintf("%s %s", base, loc)))
	}
	return queries, nil
}
