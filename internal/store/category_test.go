package store

import (
	"context"
	"testing"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/model"
	"github.com/rcliao/recall/internal/review"
)

func TestPresetCategoriesSeeded(t *testing.T) {
	s := newTestStore(t)
	cats, err := s.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != len(model.PresetCategories) {
		t.Fatalf("expected %d presets, got %d", len(model.PresetCategories), len(cats))
	}
	for _, c := range cats {
		if !c.IsPreset {
			t.Errorf("expected %s to be preset", c.ID)
		}
	}
}

func TestAddAndRemoveCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c, err := s.AddCategory(ctx, CategoryParams{Name: "Cooking", Icon: "pan"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.SortOrder != len(model.PresetCategories) {
		t.Errorf("expected sort order %d, got %d", len(model.PresetCategories), c.SortOrder)
	}

	e := capture(t, s, "salt early", t0, c.ID)
	if len(e.Categories) != 1 {
		t.Fatalf("expected entry filed under new category, got %v", e.Categories)
	}

	if _, err := s.AddCategory(ctx, CategoryParams{Name: "Cooking"}); err == nil {
		t.Error("expected duplicate name to fail")
	}

	if err := s.RemoveCategory(ctx, c.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, _ := s.Get(ctx, e.ID)
	if len(got.Categories) != 0 {
		t.Errorf("expected category unlinked, got %v", got.Categories)
	}

	if err := s.RemoveCategory(ctx, "work"); err == nil {
		t.Error("expected preset removal to fail")
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok, err := s.GetSetting(ctx, "k"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.SetSetting(ctx, "k", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetSetting(ctx, "k", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.GetSetting(ctx, "k")
	if err != nil || !ok || v != "2" {
		t.Errorf("expected 2, got %q ok=%v err=%v", v, ok, err)
	}

	all, _ := s.Settings(ctx)
	if len(all) != 1 || all["k"] != "2" {
		t.Errorf("unexpected settings %v", all)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	sched := review.MustNewScheduler(review.Config{})

	a := capture(t, src, "reviewed one", clock.DaysFrom(t0, -3), "work")
	capture(t, src, "plain one", t0, "health")
	if _, err := src.Reflect(ctx, ReflectParams{ID: a.ID, Note: "n", Activate: func(e model.Entry) model.Entry {
		return sched.Activate(e, t0)
	}}); err != nil {
		t.Fatalf("reflect: %v", err)
	}

	exported, err := src.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(exported) != 2 {
		t.Fatalf("expected 2 exported, got %d", len(exported))
	}
	work, _ := src.ExportAll(ctx, "work")
	if len(work) != 1 {
		t.Errorf("expected 1 work entry, got %d", len(work))
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}

	got, err := dst.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get imported: %v", err)
	}
	if !got.HasReflection || got.NextReviewDate == nil || !got.NextReviewDate.Equal(clock.DaysFrom(t0, 1)) {
		t.Errorf("review state lost on import: %+v", got)
	}
	if len(got.Categories) != 1 || got.Categories[0] != "work" {
		t.Errorf("categories lost on import: %v", got.Categories)
	}

	// Importing again skips existing IDs.
	n, _ = dst.Import(ctx, exported)
	if n != 0 {
		t.Errorf("expected duplicates skipped, imported %d", n)
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sched := review.MustNewScheduler(review.Config{})
	activate := func(e model.Entry) model.Entry { return sched.Activate(e, clock.DaysFrom(t0, -2)) }

	due := capture(t, s, "due", clock.DaysFrom(t0, -2), "work")
	s.Reflect(ctx, ReflectParams{ID: due.ID, Note: "n", Activate: activate})
	capture(t, s, "plain", t0, "work")
	fav := capture(t, s, "fav", clock.DaysFrom(t0, -40))
	s.SetFavorite(ctx, fav.ID, true)

	now := t0
	st, err := s.Stats(ctx, StatsParams{
		Now:        now,
		WeekStart:  clock.StartOfWeek(now),
		MonthStart: clock.StartOfMonth(now),
	})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.ActiveEntries != 3 || st.Reflected != 1 || st.InReview != 1 || st.Due != 1 || st.Favorites != 1 {
		t.Errorf("unexpected counts: %+v", st)
	}
	if st.CaptureDays != 3 {
		t.Errorf("expected 3 capture days, got %d", st.CaptureDays)
	}
	// 2025-06-15 is a Sunday: the week started on the 9th.
	if st.ThisWeek != 2 || st.ThisMonth != 2 {
		t.Errorf("expected week=2 month=2, got week=%d month=%d", st.ThisWeek, st.ThisMonth)
	}
	var workCount int
	for _, c := range st.Categories {
		if c.ID == "work" {
			workCount = c.Count
		}
	}
	if workCount != 2 {
		t.Errorf("expected 2 work entries, got %d", workCount)
	}
}

func TestImportSchedulesReflectedEntryWithoutDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.Import(ctx, []model.Entry{{
		ID:            "01J0000000000000000000ORPH",
		Content:       "orphaned",
		Reflection:    "note",
		HasReflection: true,
		CaptureDate:   clock.DaysFrom(t0, -5),
	}})
	if err != nil || n != 1 {
		t.Fatalf("import: n=%d err=%v", n, err)
	}

	got, err := s.Get(ctx, "01J0000000000000000000ORPH")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.NextReviewDate == nil || !got.NextReviewDate.Equal(clock.DaysFrom(t0, 1)) {
		t.Fatalf("expected next review %v, got %v", clock.DaysFrom(t0, 1), got.NextReviewDate)
	}
	if got.ReviewInterval != 1 {
		t.Errorf("expected interval 1, got %d", got.ReviewInterval)
	}

	sched := review.MustNewScheduler(review.Config{})
	reviewed, err := sched.RecordReview(*got, model.GotIt, clock.AddDays(t0, 1))
	if err != nil {
		t.Fatalf("imported entry not reviewable: %v", err)
	}
	if reviewed.ReviewCount != 1 {
		t.Errorf("expected count 1, got %d", reviewed.ReviewCount)
	}
}
