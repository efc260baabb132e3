package pipeline

import (
	"strings"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

// filterLocation applies the location policy:
//  1. Remote postings pass iff remote postings are included.
//  2. With no allowed locations every remaining posting passes.
//  3. Otherwise the posting's location must contain one of the allowed
//     locations (case-insensitive substring).
//
// Postings with an empty location string are kept: the provider-level
// location qualifier already scoped the query, and dropping them here would
// discard hits whose location simply was not extractable.
func (pl *Pipeline) filterLocation(postings []*model.Posting, c model.Criteria, stats *Stats) []*model.Posting {
	kept := postings[:0]
	for _, p := range postings {
		if !locationOK(p, c) {
			stats.DroppedLocation++
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func locationOK(p *model.Posting, c model.Criteria) bool {
	if p.IsRemote() {
		return c.IncludeRemote
	}
	if len(c.Locations) == 0 || p.Location == "" {
		return true
	}
	loc := strings.ToLower(p.Location)
	for _, allowed := range c.Locations {
		if strings.Contains(loc, strings.ToLower(allowed)) {
			return true
		}
	}
	return false
}

// filterByStatus applies the post-check policy:
//
//	onlyActive=false                  keep everything
//	onlyActive, !dropUnknown          drop INACTIVE
//	onlyActive, dropUnknown           drop INACTIVE and UNKNOWN
//
// NOT_CHECKED postings are always kept: being beyond the probe cap is not
// evidence the posting closed.
func filterByStatus(postings []*model.Posting, onlyActive, dropUnknown bool) []*model.Posting {
	if !onlyActive {
		return postings
	}
	kept := postings[:0]
	for _, p := range postings {
		switch p.Status {
		case model.StatusInactive:
			continue
		case model.StatusUnknown:
			if dropUnknown {
				continue
			}
		}
		kept = append(kept, p)
	}
	return kept
}
