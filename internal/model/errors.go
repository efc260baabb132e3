package model

import "errors"

// Run-fatal errors. Everything else in the pipeline degrades to a skipped
// item or an UNKNOWN classification.
var (
	// ErrInvalidCriteria means the run configuration is unusable. Reported
	// before any network call.
	ErrInvalidCriteria = errors.New("invalid criteria")

	// ErrProviderExhausted means every search query failed, so the run has
	// nothing to work with.
	ErrProviderExhausted = errors.New("all search queries failed")
)
