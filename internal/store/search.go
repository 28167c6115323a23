package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/recall/internal/model"
)

// SearchParams holds parameters for searching entries.
type SearchParams struct {
	Query      string
	CategoryID string
	Limit      int
}

// Search finds entries whose content or reflection contains the query substring.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Entry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + strings.TrimSpace(p.Query) + "%"
	where := []string{"e.deleted_at IS NULL", "(e.content LIKE ? OR e.reflection LIKE ?)"}
	args := []interface{}{query, query}

	if p.CategoryID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM entry_categories ec WHERE ec.entry_id = e.id AND ec.category_id = ?)")
		args = append(args, p.CategoryID)
	}

	sql := fmt.Sprintf(`SELECT %s FROM entries e WHERE %s
		ORDER BY e.capture_date DESC, e.created_at DESC
		LIMIT ?`, entryColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.query(ctx, sql, args...)
}
