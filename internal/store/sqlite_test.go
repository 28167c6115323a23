package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/model"
	"github.com/rcliao/recall/internal/review"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.SetClock(clock.Fixed(t0))
	s.SetLocation(time.UTC)
	t.Cleanup(func() { s.Close() })
	return s
}

func capture(t *testing.T, s *SQLiteStore, content string, day time.Time, cats ...string) *model.Entry {
	t.Helper()
	e, err := s.Capture(context.Background(), CaptureParams{Content: content, CaptureDate: day, Categories: cats})
	if err != nil {
		t.Fatalf("capture %q: %v", content, err)
	}
	return e
}

func TestCaptureAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e, err := s.Capture(ctx, CaptureParams{Content: "  small batches ship faster  ", Categories: []string{"work"}})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if e.ID == "" {
		t.Error("expected non-empty ID")
	}
	if e.Content != "small batches ship faster" {
		t.Errorf("expected trimmed content, got %q", e.Content)
	}
	if !e.CaptureDate.Equal(clock.StartOfDay(t0)) {
		t.Errorf("expected capture date %v, got %v", clock.StartOfDay(t0), e.CaptureDate)
	}
	if e.HasReflection || e.NextReviewDate != nil {
		t.Error("new entry must have no review state")
	}

	got, err := s.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Content != e.Content {
		t.Errorf("expected %q, got %q", e.Content, got.Content)
	}
	if len(got.Categories) != 1 || got.Categories[0] != "work" {
		t.Errorf("expected [work], got %v", got.Categories)
	}
	if got.Version != 1 {
		t.Errorf("expected version 1, got %d", got.Version)
	}
}

func TestCaptureRejectsEmptyContent(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Capture(context.Background(), CaptureParams{Content: "   "}); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestCaptureRejectsUnknownCategory(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Capture(context.Background(), CaptureParams{Content: "x", Categories: []string{"nope"}})
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	all, _ := s.All(context.Background())
	if len(all) != 0 {
		t.Errorf("failed capture must not persist, got %d entries", len(all))
	}
}

func TestCaptureCategoryByName(t *testing.T) {
	s := newTestStore(t)
	e := capture(t, s, "walk after lunch", t0, "Health")
	if len(e.Categories) != 1 || e.Categories[0] != "health" {
		t.Errorf("expected [health], got %v", e.Categories)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	capture(t, s, "alpha", clock.DaysFrom(t0, -2), "work")
	capture(t, s, "beta", clock.DaysFrom(t0, -1), "health")
	capture(t, s, "gamma", t0, "work")

	all, _ := s.List(ctx, ListParams{})
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if all[0].Content != "gamma" || all[2].Content != "alpha" {
		t.Errorf("expected newest capture first, got %s..%s", all[0].Content, all[2].Content)
	}

	work, _ := s.List(ctx, ListParams{CategoryID: "work"})
	if len(work) != 2 {
		t.Errorf("expected 2 in work, got %d", len(work))
	}

	day := clock.DaysFrom(t0, -1)
	on, _ := s.List(ctx, ListParams{On: &day})
	if len(on) != 1 || on[0].Content != "beta" {
		t.Errorf("expected only beta on %s, got %v", clock.DayKey(day), on)
	}

	limited, _ := s.List(ctx, ListParams{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected limit 1, got %d", len(limited))
	}
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := capture(t, s, "a", t0)
	capture(t, s, "b", t0)

	if err := s.SetFavorite(ctx, a.ID, true); err != nil {
		t.Fatalf("fav: %v", err)
	}
	favs, _ := s.List(ctx, ListParams{Favorites: true})
	if len(favs) != 1 || favs[0].ID != a.ID {
		t.Errorf("expected only %s, got %v", a.ID, favs)
	}
	if err := s.SetFavorite(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReflectActivatesOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sched := review.MustNewScheduler(review.Config{})

	e := capture(t, s, "learning", t0)
	activations := 0
	activate := func(e model.Entry) model.Entry {
		activations++
		return sched.Activate(e, t0)
	}

	got, err := s.Reflect(ctx, ReflectParams{ID: e.ID, Note: "why it matters", Activate: activate})
	if err != nil {
		t.Fatalf("reflect: %v", err)
	}
	if !got.HasReflection || got.Reflection != "why it matters" {
		t.Errorf("reflection not applied: %+v", got)
	}
	if got.NextReviewDate == nil || !got.NextReviewDate.Equal(clock.DaysFrom(t0, 1)) {
		t.Errorf("expected next review %v, got %v", clock.DaysFrom(t0, 1), got.NextReviewDate)
	}

	// Progress, then reflect again: the pipeline must not restart.
	reviewed, err := sched.RecordReview(*got, model.GotIt, clock.AddDays(t0, 1))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := s.SaveReview(ctx, reviewed); err != nil {
		t.Fatalf("save review: %v", err)
	}
	again, err := s.Reflect(ctx, ReflectParams{ID: e.ID, Note: "second thought", Activate: activate})
	if err != nil {
		t.Fatalf("reflect again: %v", err)
	}
	if activations != 1 {
		t.Errorf("expected 1 activation, got %d", activations)
	}
	if again.ReviewCount != 1 || again.ReviewInterval != 7 {
		t.Errorf("second reflection reset progress: count=%d interval=%d", again.ReviewCount, again.ReviewInterval)
	}

	stored, _ := s.Get(ctx, e.ID)
	if stored.Reflection != "second thought" || stored.ReviewCount != 1 {
		t.Errorf("unexpected stored entry: %+v", stored)
	}
}

func TestSaveReviewRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sched := review.MustNewScheduler(review.Config{})

	e := capture(t, s, "x", t0)
	active, err := s.Reflect(ctx, ReflectParams{ID: e.ID, Note: "n", Activate: func(e model.Entry) model.Entry {
		return sched.Activate(e, t0)
	}})
	if err != nil {
		t.Fatalf("reflect: %v", err)
	}

	cur := *active
	for i := 0; i < 4; i++ {
		next, err := sched.RecordReview(cur, model.GotIt, *cur.NextReviewDate)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		saved, err := s.SaveReview(ctx, next)
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		cur = *saved
	}

	if !cur.IsGraduated || cur.ReviewCount != 4 || cur.NextReviewDate != nil {
		t.Errorf("expected graduated entry, got %+v", cur)
	}
}

func TestSaveReviewConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sched := review.MustNewScheduler(review.Config{})

	e := capture(t, s, "x", t0)
	active, _ := s.Reflect(ctx, ReflectParams{ID: e.ID, Note: "n", Activate: func(e model.Entry) model.Entry {
		return sched.Activate(e, t0)
	}})

	a, _ := sched.RecordReview(*active, model.GotIt, clock.AddDays(t0, 1))
	b, _ := sched.RecordReview(*active, model.ReviewAgain, clock.AddDays(t0, 1))

	if _, err := s.SaveReview(ctx, a); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := s.SaveReview(ctx, b); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for stale version, got %v", err)
	}

	b.ID = "missing"
	if _, err := s.SaveReview(ctx, b); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e := capture(t, s, "data", t0)
	if err := s.Rm(ctx, RmParams{ID: e.ID}); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := s.Get(ctx, e.ID); err == nil {
		t.Error("expected error after soft delete")
	}
	if err := s.Rm(ctx, RmParams{ID: e.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestHardDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	e := capture(t, s, "data", t0, "work")
	if err := s.Rm(ctx, RmParams{ID: e.ID, Hard: true}); err != nil {
		t.Fatalf("rm hard: %v", err)
	}
	if _, err := s.Get(ctx, e.ID); err == nil {
		t.Error("expected error after hard delete")
	}
	st, _ := s.Stats(ctx, StatsParams{Now: t0})
	if st.TotalEntries != 0 {
		t.Errorf("expected row gone, got %d", st.TotalEntries)
	}
}

func TestCaptureDates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	capture(t, s, "a", t0)
	capture(t, s, "b", t0.Add(3*time.Hour))
	capture(t, s, "c", clock.DaysFrom(t0, -1))
	gone := capture(t, s, "d", clock.DaysFrom(t0, -5))
	s.Rm(ctx, RmParams{ID: gone.ID})

	dates, err := s.CaptureDates(ctx)
	if err != nil {
		t.Fatalf("capture dates: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 distinct days, got %v", dates)
	}
	if !dates[0].Equal(clock.DaysFrom(t0, -1)) || !dates[1].Equal(clock.StartOfDay(t0)) {
		t.Errorf("unexpected dates %v", dates)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.SetLocation(time.UTC)
	e, _ := s.Capture(context.Background(), CaptureParams{Content: "persist me", CaptureDate: t0})
	s.Close()

	s2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	s2.SetLocation(time.UTC)
	got, err := s2.Get(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Content != "persist me" {
		t.Errorf("expected 'persist me', got %q", got.Content)
	}
	cats, _ := s2.Categories(context.Background())
	if len(cats) != len(model.PresetCategories) {
		t.Errorf("presets seeded twice? got %d categories", len(cats))
	}
}
