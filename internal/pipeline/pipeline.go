// Package pipeline sequences one discovery run: query building, provider
// search, normalization, filtering, deduplication, the optional active
// check, and the status post-filter.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/diegovill05/internship-discovery-engine/internal/active"
	"github.com/diegovill05/internship-discovery-engine/internal/dedup"
	"github.com/diegovill05/internship-discovery-engine/internal/extract"
	"github.com/diegovill05/internship-discovery-engine/internal/model"
	"github.com/diegovill05/internship-discovery-engine/internal/normalize"
	"github.com/diegovill05/internship-discovery-engine/internal/search"
	"github.com/diegovill05/internship-discovery-engine/internal/track"
)

// Options wires the pipeline's collaborators. Provider is required.
// Checker and Extractor are optional: a nil Checker skips the active phase
// entirely (all postings stay NOT_CHECKED), a nil Extractor skips page
// enrichment.
type Options struct {
	Provider  search.Provider
	Checker   *active.Checker
	Extractor *extract.Extractor
	// Seen is the set of fingerprints already persisted by prior runs.
	Seen map[string]struct{}
	// Now is swapped out in tests; defaults to time.Now.
	Now func() time.Time
}

// Stats records what happened to every hit during a run.
type Stats struct {
	Queries         int
	QueriesFailed   int
	Hits            int
	Malformed       int
	DroppedRecency  int
	DroppedLocation int
	DroppedTrack    int
	Duplicates      int
	DroppedStatus   int
	Check           active.Stats
}

// Result is the output of one run: the final ordered batch plus stats.
// The batch is handed to export sinks as read-only.
type Result struct {
	Postings []*model.Posting
	Stats    Stats
}

// Pipeline owns the postings for the duration of a run. It keeps no state
// across runs beyond the externally supplied seen-set.
type Pipeline struct {
	opts Options
}

// New builds a Pipeline from opts.
func New(opts Options) (*Pipeline, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("pipeline: provider is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{opts: opts}, nil
}

// Run executes one discovery run for c. The only run-fatal errors are
// invalid criteria and total provider exhaustion; every per-item failure
// degrades to a skipped hit or an UNKNOWN classification.
func (pl *Pipeline) Run(ctx context.Context, c model.Criteria) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	queries, err := search.BuildQueries(c)
	if err != nil {
		return nil, err
	}

	stats := Stats{Queries: len(queries)}
	hits := pl.fetch(ctx, queries, c.MaxResults, &stats)
	if stats.QueriesFailed == len(queries) && len(hits) == 0 {
		return nil, model.ErrProviderExhausted
	}
	stats.Hits = len(hits)

	postings := pl.normalizeAll(ctx, hits, c, &stats)
	postings = pl.filterRecency(postings, c, &stats)
	postings = pl.filterLocation(postings, c, &stats)

	before := len(postings)
	postings = track.Filter(c.Track, postings)
	stats.DroppedTrack = before - len(postings)

	df := dedup.NewFilter(pl.opts.Seen)
	before = len(postings)
	postings = df.FilterNew(postings)
	stats.Duplicates = before - len(postings)

	if pl.opts.Checker != nil {
		stats.Check = pl.opts.Checker.CheckBatch(ctx, postings)
	}

	before = len(postings)
	postings = filterByStatus(postings, c.OnlyActive, c.DropUnknownActive)
	stats.DroppedStatus = before - len(postings)

	log.Printf("[pipeline] run done: queries=%d/%d hits=%d kept=%d dup=%d malformed=%d",
		stats.Queries-stats.QueriesFailed, stats.Queries, stats.Hits, len(postings), stats.Duplicates, stats.Malformed)
	return &Result{Postings: postings, Stats: stats}, nil
}

// fetch runs every query against the provider, skipping failed queries and
// deduplicating URLs across queries. Output is capped at maxResults.
func (pl *Pipeline) fetch(ctx context.Context, queries []search.Query, maxResults int, stats *Stats) []search.RawResult {
	seenURLs := make(map[string]struct{})
	var hits []search.RawResult

	for _, q := range queries {
		if len(hits) >= maxResults {
			break
		}
		batch, err := pl.opts.Provider.Search(ctx, q)
		if err != nil {
			stats.QueriesFailed++
			log.Printf("[pipeline] query failed, skipping: %v", err)
			// A partial batch before the failure is still usable.
		}
		for _, r := range batch {
			if _, dup := seenURLs[r.URL]; dup {
				continue
			}
			seenURLs[r.URL] = struct{}{}
			hits = append(hits, r)
			if len(hits) >= maxResults {
				break
			}
		}
	}
	return hits
}

func (pl *Pipeline) normalizeAll(ctx context.Context, hits []search.RawResult, c model.Criteria, stats *Stats) []*model.Posting {
	n := normalize.New(model.Source(pl.opts.Provider.Name()), c.Track)
	postings := make([]*model.Posting, 0, len(hits))
	for _, hit := range hits {
		p, err := n.Normalize(hit)
		if err != nil {
			stats.Malformed++
			log.Printf("[pipeline] skipping malformed hit: %v", err)
			continue
		}
		if pl.opts.Extractor != nil {
			enrich(ctx, pl.opts.Extractor, p)
		}
		postings = append(postings, p)
	}
	return postings
}

// enrich overlays structured page data onto p when the page is reachable
// and carries a JobPosting schema. The fingerprint is re-derived afterward;
// this still happens before any active probe.
func enrich(ctx context.Context, ex *extract.Extractor, p *model.Posting) {
	res := ex.FetchAndExtract(ctx, p.PostingURL)
	if res.Blocked {
		return
	}
	if res.Title != "" {
		p.Title = res.Title
	}
	if res.Company != "" {
		p.Company = res.Company
	}
	if res.Location != "" {
		p.Location = res.Location
	}
	if res.DatePosted != nil {
		p.DatePosted = res.DatePosted
		p.DateConfidence = res.DateConfidence
	}
	if res.ApplyURL != "" {
		p.ApplyURL = res.ApplyURL
	}
	p.Category = track.Categorize(p.Title, p.Snippet)
	p.Fingerprint = dedup.Fingerprint(p)
}

// filterRecency drops postings that are confidently older than the window.
// Postings with an UNKNOWN date confidence are conservatively kept.
func (pl *Pipeline) filterRecency(postings []*model.Posting, c model.Criteria, stats *Stats) []*model.Posting {
	if c.PostedWithinDays <= 0 {
		return postings
	}
	cutoff := pl.opts.Now().AddDate(0, 0, -c.PostedWithinDays)
	kept := postings[:0]
	for _, p := range postings {
		if p.DatePosted != nil && p.DateConfidence != model.DateUnknown && p.DatePosted.Before(cutoff) {
			stats.DroppedRecency++
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
