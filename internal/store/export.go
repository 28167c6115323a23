package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/model"
)

// ExportAll returns all non-deleted entries, optionally filtered by category.
func (s *SQLiteStore) ExportAll(ctx context.Context, categoryID string) ([]model.Entry, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if categoryID == "" {
		return all, nil
	}
	var out []model.Entry
	for _, e := range all {
		if e.HasCategory(categoryID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Import stores entries from an export, review state included.
// Entries whose ID already exists are skipped. Returns the number imported.
func (s *SQLiteStore) Import(ctx context.Context, entries []model.Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, e := range entries {
		if e.ID == "" {
			e.ID = s.newID()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.now().UTC()
		}
		if e.CaptureDate.IsZero() {
			e.CaptureDate = e.CreatedAt.In(s.loc)
		}

		var reflection *string
		if e.Reflection != "" {
			reflection = &e.Reflection
		}
		// A reflected entry with no schedule would never come due again.
		if e.HasReflection && !e.IsGraduated && e.NextReviewDate == nil {
			due := clock.DaysFrom(s.now(), 1)
			e.NextReviewDate = &due
			if e.ReviewInterval <= 0 {
				e.ReviewInterval = 1
			}
		}
		var next *string
		if e.NextReviewDate != nil && !e.IsGraduated {
			v := e.NextReviewDate.Format(time.RFC3339)
			next = &v
		}

		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO entries (id, content, reflection, capture_date, created_at, has_reflection,
			   next_review_date, review_interval, review_count, is_graduated, is_favorite, version)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			e.ID, e.Content, reflection, clock.DayKey(e.CaptureDate.In(s.loc)),
			e.CreatedAt.UTC().Format(time.RFC3339Nano), e.HasReflection,
			next, e.ReviewInterval, e.ReviewCount, e.IsGraduated, e.IsFavorite)
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", e.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		for _, c := range e.Categories {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO entry_categories (entry_id, category_id)
				 SELECT ?, id FROM categories WHERE id = ?`, e.ID, c); err != nil {
				return imported, fmt.Errorf("import %s category %s: %w", e.ID, c, err)
			}
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
