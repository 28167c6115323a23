package store

import (
	"context"
	"os"
	"time"

	"github.com/rcliao/recall/internal/review"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string          `json:"db_path"`
	DBSizeBytes   int64           `json:"db_size_bytes"`
	TotalEntries  int             `json:"total_entries"`
	ActiveEntries int             `json:"active_entries"`
	Reflected     int             `json:"reflected"`
	InReview      int             `json:"in_review"`
	Due           int             `json:"due"`
	Graduated     int             `json:"graduated"`
	Favorites     int             `json:"favorites"`
	CaptureDays   int             `json:"capture_days"`
	ThisWeek      int             `json:"this_week"`
	ThisMonth     int             `json:"this_month"`
	Categories    []CategoryStats `json:"categories"`
}

// CategoryStats holds per-category counts.
type CategoryStats struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatsParams holds the reference points for time-relative counts.
type StatsParams struct {
	DBPath     string
	Now        time.Time
	WeekStart  time.Time
	MonthStart time.Time
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, p StatsParams) (*Stats, error) {
	st := &Stats{DBPath: p.DBPath}

	// DB file size
	if info, err := os.Stat(p.DBPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		dst   *int
		query string
		args  []interface{}
	}{
		{&st.TotalEntries, `SELECT COUNT(*) FROM entries`, nil},
		{&st.ActiveEntries, `SELECT COUNT(*) FROM entries WHERE deleted_at IS NULL`, nil},
		{&st.Reflected, `SELECT COUNT(*) FROM entries WHERE deleted_at IS NULL AND has_reflection = 1`, nil},
		{&st.InReview, `SELECT COUNT(*) FROM entries WHERE deleted_at IS NULL AND has_reflection = 1 AND is_graduated = 0`, nil},
		{&st.Graduated, `SELECT COUNT(*) FROM entries WHERE deleted_at IS NULL AND is_graduated = 1`, nil},
		{&st.Favorites, `SELECT COUNT(*) FROM entries WHERE deleted_at IS NULL AND is_favorite = 1`, nil},
		{&st.CaptureDays, `SELECT COUNT(DISTINCT capture_date) FROM entries WHERE deleted_at IS NULL`, nil},
		{&st.ThisWeek, `SELECT COUNT(*) FROM entries WHERE deleted_at IS NULL AND capture_date >= ?`,
			[]interface{}{p.WeekStart.Format(time.DateOnly)}},
		{&st.ThisMonth, `SELECT COUNT(*) FROM entries WHERE deleted_at IS NULL AND capture_date >= ?`,
			[]interface{}{p.MonthStart.Format(time.DateOnly)}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return st, err
		}
	}

	// next_review_date strings carry zone offsets, so compare parsed values.
	all, err := s.All(ctx)
	if err != nil {
		return st, err
	}
	st.Due = len(review.DueEntries(all, p.Now))

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(e.id) AS cnt
		FROM categories c
		LEFT JOIN entry_categories ec ON ec.category_id = c.id
		LEFT JOIN entries e ON e.id = ec.entry_id AND e.deleted_at IS NULL
		GROUP BY c.id, c.name ORDER BY cnt DESC, c.sort_order`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var cs CategoryStats
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Count); err != nil {
			return st, err
		}
		st.Categories = append(st.Categories, cs)
	}

	return st, rows.Err()
}
