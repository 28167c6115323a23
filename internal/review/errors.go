package review

import "errors"

// Sentinel errors for the review package.
// Use errors.Is to check: errors.Is(err, review.ErrNotActive)
var (
	ErrInvalidConfig  = errors.New("review: invalid scheduler config")
	ErrInvalidOutcome = errors.New("review: invalid outcome")
	ErrNotActive      = errors.New("review: entry has no active review pipeline")
	ErrGraduated      = errors.New("review: entry already graduated")
	ErrNotDue         = errors.New("review: entry is not due yet")
)
