package review

import (
	"sort"
	"time"

	"github.com/rcliao/recall/internal/model"
)

// QueueFilter narrows the set of entries a review session presents.
type QueueFilter struct {
	IncludeGraduated bool
	CategoryID       string // empty means all categories
	FavoritesOnly    bool
}

// DueEntries returns the entries due at now, in input order.
func DueEntries(entries []model.Entry, now time.Time) []model.Entry {
	var due []model.Entry
	for _, e := range entries {
		if IsDue(e, now) {
			due = append(due, e)
		}
	}
	return due
}

// ReviewableEntries returns the due entries, plus graduated ones when
// f.IncludeGraduated is set, restricted by the category and favourite
// filters. Input order is preserved and no entry appears twice.
func ReviewableEntries(entries []model.Entry, now time.Time, f QueueFilter) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if !IsDue(e, now) && !(f.IncludeGraduated && e.IsGraduated) {
			continue
		}
		if f.CategoryID != "" && !e.HasCategory(f.CategoryID) {
			continue
		}
		if f.FavoritesOnly && !e.IsFavorite {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortForSession orders a queue oldest-due first, then by capture date.
// Graduated entries, which have no due date, go last.
func SortForSession(entries []model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.NextReviewDate == nil && b.NextReviewDate == nil:
			return a.CaptureDate.Before(b.CaptureDate)
		case a.NextReviewDate == nil:
			return false
		case b.NextReviewDate == nil:
			return true
		case !a.NextReviewDate.Equal(*b.NextReviewDate):
			return a.NextReviewDate.Before(*b.NextReviewDate)
		}
		return a.CaptureDate.Before(b.CaptureDate)
	})
}

// Session walks a queue one entry at a time, front to back.
type Session struct {
	queue []model.Entry
	pos   int
}

// NewSession starts a session over the given queue.
func NewSession(queue []model.Entry) *Session {
	return &Session{queue: queue}
}

// Current returns the entry under review, or false when the session is done.
func (s *Session) Current() (model.Entry, bool) {
	if s.pos >= len(s.queue) {
		return model.Entry{}, false
	}
	return s.queue[s.pos], true
}

// Advance moves to the next entry.
func (s *Session) Advance() {
	if s.pos < len(s.queue) {
		s.pos++
	}
}

// Remaining returns how many entries are left, including the current one.
func (s *Session) Remaining() int { return len(s.queue) - s.pos }

// Done reports whether every entry has been presented.
func (s *Session) Done() bool { return s.pos >= len(s.queue) }
