package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/recall/internal/model"
)

func ids(entries []model.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func reflected(id string, next time.Time, cats ...string) model.Entry {
	n := next
	return model.Entry{ID: id, HasReflection: true, NextReviewDate: &n, ReviewInterval: 1, Categories: cats}
}

func graduated(id string, cats ...string) model.Entry {
	return model.Entry{ID: id, HasReflection: true, IsGraduated: true, ReviewCount: 4, Categories: cats}
}

func fixture() []model.Entry {
	now := day0
	return []model.Entry{
		reflected("past", now.Add(-48*time.Hour), "work"),
		reflected("exact", now, "health"),
		reflected("future", now.Add(time.Second), "work"),
		graduated("grad-work", "work"),
		graduated("grad-health", "health"),
		{ID: "unreflected", CaptureDate: midnight(-5)},
	}
}

func TestDueEntries(t *testing.T) {
	got := DueEntries(fixture(), day0)
	assert.Equal(t, []string{"past", "exact"}, ids(got))
}

func TestDueEntriesEmpty(t *testing.T) {
	assert.Empty(t, DueEntries(nil, day0))
}

func TestReviewableEntriesWithoutGraduated(t *testing.T) {
	got := ReviewableEntries(fixture(), day0, QueueFilter{})
	assert.Equal(t, []string{"past", "exact"}, ids(got))
}

func TestReviewableEntriesIncludeGraduated(t *testing.T) {
	got := ReviewableEntries(fixture(), day0, QueueFilter{IncludeGraduated: true})
	assert.Equal(t, []string{"past", "exact", "grad-work", "grad-health"}, ids(got))
}

func TestReviewableEntriesCategoryIntersection(t *testing.T) {
	got := ReviewableEntries(fixture(), day0, QueueFilter{IncludeGraduated: true, CategoryID: "work"})
	assert.Equal(t, []string{"past", "grad-work"}, ids(got))

	for _, e := range got {
		assert.True(t, e.HasCategory("work"))
		assert.True(t, IsDue(e, day0) || e.IsGraduated)
	}
}

func TestReviewableEntriesFavorites(t *testing.T) {
	entries := fixture()
	entries[1].IsFavorite = true
	got := ReviewableEntries(entries, day0, QueueFilter{FavoritesOnly: true})
	assert.Equal(t, []string{"exact"}, ids(got))
}

func TestSortForSession(t *testing.T) {
	entries := fixture()
	SortForSession(entries)
	require.Len(t, entries, 6)
	assert.Equal(t, []string{"past", "exact", "future"}, ids(entries[:3]))
	for _, e := range entries[3:] {
		assert.Nil(t, e.NextReviewDate)
	}
}

func TestSessionWalksForward(t *testing.T) {
	s := NewSession(DueEntries(fixture(), day0))
	assert.Equal(t, 2, s.Remaining())

	e, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "past", e.ID)

	s.Advance()
	e, ok = s.Current()
	require.True(t, ok)
	assert.Equal(t, "exact", e.ID)

	s.Advance()
	s.Advance()
	_, ok = s.Current()
	assert.False(t, ok)
	assert.True(t, s.Done())
	assert.Equal(t, 0, s.Remaining())
}
