// Package model defines the shared data structures of the discovery engine.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Source identifies the search provider a posting came from.
type Source string

const (
	SourceBrave  Source = "brave"
	SourceGoogle Source = "google"
)

// DateConfidence describes how trustworthy Posting.DatePosted is.
//
// EXACT means the date came from structured metadata. APPROXIMATE means it
// was inferred from snippet text such as "3 days ago". UNKNOWN means no
// date information was available and DatePosted is nil.
type DateConfidence string

const (
	DateExact       DateConfidence = "EXACT"
	DateApproximate DateConfidence = "APPROXIMATE"
	DateUnknown     DateConfidence = "UNKNOWN"
)

// ActiveStatus classifies whether a posting page still indicates an open
// position.
type ActiveStatus string

const (
	StatusActive     ActiveStatus = "ACTIVE"
	StatusInactive   ActiveStatus = "INACTIVE"
	StatusUnknown    ActiveStatus = "UNKNOWN"
	StatusNotChecked ActiveStatus = "NOT_CHECKED"
)

// Posting is the canonical record for one internship/job listing.
//
// Fingerprint is assigned immediately after normalization, before any
// network probe. Status starts as NOT_CHECKED and is mutated in place only
// by the active checker.
type Posting struct {
	Title          string         `json:"title"`
	Company        string         `json:"company"`
	Location       string         `json:"location"`
	Snippet        string         `json:"snippet,omitempty"`
	ApplyURL       string         `json:"applyUrl,omitempty"`
	PostingURL     string         `json:"postingUrl"`
	DatePosted     *time.Time     `json:"datePosted,omitempty"`
	DateConfidence DateConfidence `json:"dateConfidence"`
	Source         Source         `json:"source"`
	Track          Track          `json:"track,omitempty"`
	Category       string         `json:"category,omitempty"`
	Fingerprint    string         `json:"fingerprint"`
	Status         ActiveStatus   `json:"status"`
	StatusReason   string         `json:"statusReason,omitempty"`
	TrackMatch     bool           `json:"trackMatch"`
}

// IsRemote reports whether the posting is fully remote, inferred from the
// location string.
func (p *Posting) IsRemote() bool {
	return strings.Contains(strings.ToLower(p.Location), "remote")
}

// Track is a target domain used to bias queries and tag postings.
type Track string

const (
	TrackSWE   Track = "swe"
	TrackCyber Track = "cyber"
	TrackIT    Track = "it"
	TrackData  Track = "data"
	TrackAll   Track = "all"
)

// ParseTrack validates a track name. The empty string parses to TrackAll.
func ParseTrack(s string) (Track, error) {
	switch Track(s) {
	case TrackSWE, TrackCyber, TrackIT, TrackData, TrackAll:
		return Track(s), nil
	case "":
		return TrackAll, nil
	}
	return "", fmt.Errorf("unrecognized track %q (want swe|cyber|it|data|all)", s)
}

// Criteria is the immutable input of one discovery run.
type Criteria struct {
	Track             Track
	Locations         []string
	Keyword           string
	MaxResults        int
	PostedWithinDays  int // 0 disables the recency filter
	IncludeRemote     bool
	OnlyActive        bool
	DropUnknownActive bool
	ActiveCheckMax    int // total probe cap per run
}

// Validate checks the criteria before any network call is made.
// Failures wrap ErrInvalidCriteria.
func (c Criteria) Validate() error {
	if c.MaxResults <= 0 {
		return fmt.Errorf("%w: max-results must be positive, got %d", ErrInvalidCriteria, c.MaxResults)
	}
	if _, err := ParseTrack(string(c.Track)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	if c.ActiveCheckMax <= 0 {
		return fmt.Errorf("%w: active-check-max must be positive, got %d", ErrInvalidCriteria, c.ActiveCheckMax)
	}
	if c.PostedWithinDays < 0 {
		return fmt.Errorf("%w: posted-within-days must not be negative, got %d", ErrInvalidCriteria, c.PostedWithinDays)
	}
	return nil
}

// ProbeResult is the ephemeral outcome of a single active-status probe.
type ProbeResult struct {
	URL        string
	Status     ActiveStatus
	Reason     string
	HTTPStatus int
	Attempts   int
}
