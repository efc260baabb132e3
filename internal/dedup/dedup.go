// Package dedup assigns stable content fingerprints to postings and filters
// out duplicates, both within a batch and against hashes persisted by
// earlier runs.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

// Field separator unlikely to appear in normal field values.
const sep = "\x00"

// Fingerprint returns a 64-character SHA-256 hex digest derived from the
// posting's title, company and URL. Each field is lower-cased and
// whitespace-normalized first, so the digest is stable across providers and
// across minor formatting differences. Description and dates are
// intentionally excluded: editorial edits to a posting must not produce a
// new identity.
func Fingerprint(p *model.Posting) string {
	canonical := canon(p.Title) + sep + canon(p.Company) + sep + canon(p.PostingURL)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// canon lower-cases s and collapses every whitespace run to a single space.
func canon(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Filter is a stateful duplicate filter keyed by fingerprint. It can be
// seeded with hashes persisted by a previous export so postings are never
// re-added across runs.
type Filter struct {
	seen map[string]struct{}
}

// NewFilter builds a Filter pre-populated with seenHashes (may be nil).
func NewFilter(seenHashes map[string]struct{}) *Filter {
	seen := make(map[string]struct{}, len(seenHashes))
	for h := range seenHashes {
		seen[h] = struct{}{}
	}
	return &Filter{seen: seen}
}

// SeenCount returns the number of unique fingerprints recorded so far.
func (f *Filter) SeenCount() int { return len(f.seen) }

// IsNew records p's fingerprint and returns true when it has not been seen
// before. Postings whose fingerprint is already recorded return false
// without being re-recorded.
func (f *Filter) IsNew(p *model.Posting) bool {
	h := p.Fingerprint
	if h == "" {
		h = Fingerprint(p)
	}
	if _, ok := f.seen[h]; ok {
		return false
	}
	f.seen[h] = struct{}{}
	return true
}

// FilterNew returns the sub-sequence of postings not yet seen, recording
// each one. Relative order is preserved and the first occurrence of a
// fingerprint wins; running the same batch twice against the same seed
// yields the identical result.
func (f *Filter) FilterNew(postings []*model.Posting) []*model.Posting {
	kept := make([]*model.Posting, 0, len(postings))
	for _, p := range postings {
		if f.IsNew(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

// Hashes returns a snapshot of every fingerprint recorded so far, for
// persisting between runs.
func (f *Filter) Hashes() map[string]struct{} {
	out := make(map[string]struct{}, len(f.seen))
	for h := range f.seen {
		out[h] = struct{}{}
	}
	return out
}
