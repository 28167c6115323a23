package review

import (
	"fmt"
	"time"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/model"
)

// DefaultGraduationThreshold is the number of successful reviews that
// retires an entry from the queue.
const DefaultGraduationThreshold = 4

// DefaultIntervals is the day schedule indexed by successful review count.
// Activation uses index 0; the k-th "got it" schedules Intervals[k].
var DefaultIntervals = []int{1, 7, 16, 35}

// Config configures a Scheduler.
// Zero values produce the defaults; see field comments.
type Config struct {
	GraduationThreshold int   `yaml:"graduation_threshold" json:"graduation_threshold"` // zero → 4
	Intervals           []int `yaml:"intervals" json:"intervals"`                       // nil → DefaultIntervals
}

// Scheduler applies review outcomes to entries.
type Scheduler struct {
	threshold int
	intervals []int
}

// NewScheduler creates a Scheduler from the given config.
// Zero-value fields are filled with defaults; invalid values return
// ErrInvalidConfig.
func NewScheduler(cfg Config) (*Scheduler, error) {
	threshold := cfg.GraduationThreshold
	if threshold == 0 {
		threshold = DefaultGraduationThreshold
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: graduation threshold %d must be positive", ErrInvalidConfig, threshold)
	}

	intervals := cfg.Intervals
	if intervals == nil {
		intervals = DefaultIntervals
	}
	if len(intervals) == 0 {
		return nil, fmt.Errorf("%w: interval table is empty", ErrInvalidConfig)
	}
	for i, d := range intervals {
		if d <= 0 {
			return nil, fmt.Errorf("%w: interval[%d] = %d must be positive", ErrInvalidConfig, i, d)
		}
	}

	return &Scheduler{
		threshold: threshold,
		intervals: append([]int(nil), intervals...),
	}, nil
}

// MustNewScheduler is like NewScheduler but panics on an invalid config.
func MustNewScheduler(cfg Config) *Scheduler {
	s, err := NewScheduler(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// GraduationThreshold returns the configured threshold.
func (s *Scheduler) GraduationThreshold() int { return s.threshold }

// Intervals returns a copy of the configured day schedule.
func (s *Scheduler) Intervals() []int { return append([]int(nil), s.intervals...) }

// intervalFor returns the interval after count successful reviews.
// Counts past the end of the table reuse the last interval.
func (s *Scheduler) intervalFor(count int) int {
	if count < 0 {
		count = 0
	}
	if count >= len(s.intervals) {
		return s.intervals[len(s.intervals)-1]
	}
	return s.intervals[count]
}

// Activate starts the review pipeline for an entry whose first reflection
// was just attached. It resets any prior progress, so callers must only
// invoke it on first activation.
func (s *Scheduler) Activate(e model.Entry, now time.Time) model.Entry {
	out := e.Clone()
	interval := s.intervalFor(0)
	next := clock.DaysFrom(now, interval)
	out.HasReflection = true
	out.ReviewInterval = interval
	out.NextReviewDate = &next
	out.ReviewCount = 0
	out.IsGraduated = false
	return out
}

// RecordReview applies an outcome to an active, non-graduated entry and
// returns the updated entry. The input is not mutated.
//
// Graduated entries are rejected with ErrGraduated; use ReviewGraduated for
// on-demand re-reviews. Entries that were never activated are rejected with
// ErrNotActive, and entries whose next review date is still ahead of now
// with ErrNotDue.
func (s *Scheduler) RecordReview(e model.Entry, outcome model.ReviewOutcome, now time.Time) (model.Entry, error) {
	if !model.ValidOutcomes[outcome] {
		return e, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}
	if e.IsGraduated {
		return e, ErrGraduated
	}
	if !e.HasReflection || e.NextReviewDate == nil {
		return e, ErrNotActive
	}
	if !IsDue(e, now) {
		return e, fmt.Errorf("%w: next review %s", ErrNotDue, clock.DayKey(*e.NextReviewDate))
	}

	out := e.Clone()
	switch outcome {
	case model.GotIt:
		out.ReviewCount++
		if out.ReviewCount >= s.threshold {
			out.IsGraduated = true
			out.NextReviewDate = nil
			return out, nil
		}
		out.ReviewInterval = s.intervalFor(out.ReviewCount)
	case model.ReviewAgain:
		out.ReviewInterval = s.intervalFor(0)
	}
	next := clock.DaysFrom(now, out.ReviewInterval)
	out.NextReviewDate = &next
	return out, nil
}

// ReviewGraduated handles a re-review of a graduated entry. Such reviews are
// presentation-only: the entry is returned unchanged and nothing needs to
// be persisted.
func (s *Scheduler) ReviewGraduated(e model.Entry, outcome model.ReviewOutcome) (model.Entry, error) {
	if !model.ValidOutcomes[outcome] {
		return e, fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}
	if !e.IsGraduated {
		return e, fmt.Errorf("review graduated: entry %s is not graduated", e.ID)
	}
	return e, nil
}

// IsDue reports whether the entry should appear in the review queue at now.
// Entries without a reflection are never due, whatever their stored date.
func IsDue(e model.Entry, now time.Time) bool {
	if !e.HasReflection || e.IsGraduated || e.NextReviewDate == nil {
		return false
	}
	return !e.NextReviewDate.After(now)
}
