// Package search implements query construction and the Brave / Google
// Custom Search provider clients.
package search

import (
	"context"
	"fmt"
)

// RawResult is a single hit as returned by a search provider, before any
// normalization.
type RawResult struct {
	URL     string
	Title   string
	Snippet string
	// PageAge is the provider's structured age/date string when available
	// (Brave page_age). Empty otherwise.
	PageAge string
}

// Provider fetches raw results for one query. Implementations must cap
// output at q.Count and must report failures via ProviderError so the
// pipeline can skip the query instead of aborting the run.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]RawResult, error)
}

// ProviderError wraps a per-query provider failure (rate limit, auth,
// network). The pipeline treats it as "no results for this query".
type ProviderError struct {
	Provider string
	Query    string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s search failed for query %q: %v", e.Provider, e.Query, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
