package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/recall/internal/model"
)

// CategoryParams holds parameters for adding a category.
type CategoryParams struct {
	Name string
	Icon string
}

// Categories lists all categories in display order.
func (s *SQLiteStore) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, icon, sort_order, is_preset FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.SortOrder, &c.IsPreset); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// AddCategory creates a user category after the existing ones.
func (s *SQLiteStore) AddCategory(ctx context.Context, p CategoryParams) (*model.Category, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	var order int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM categories`).Scan(&order); err != nil {
		return nil, err
	}

	c := &model.Category{
		ID:        strings.ToLower(s.newID()),
		Name:      name,
		Icon:      p.Icon,
		SortOrder: order,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, icon, sort_order, is_preset) VALUES (?, ?, ?, ?, 0)`,
		c.ID, c.Name, c.Icon, c.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// RemoveCategory deletes a user category. Preset categories cannot be removed.
func (s *SQLiteStore) RemoveCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND is_preset = 0`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %q not found or is a preset", id)
	}
	return nil
}
