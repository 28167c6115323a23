package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/model"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
	clock   clock.Clock
	loc     *time.Location
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:   clock.System{},
		loc:     time.Local,
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// SetClock replaces the time source used for created/deleted timestamps.
func (s *SQLiteStore) SetClock(c clock.Clock) { s.clock = c }

// SetLocation sets the zone in which capture days are interpreted.
func (s *SQLiteStore) SetLocation(loc *time.Location) { s.loc = loc }

func (s *SQLiteStore) now() time.Time { return s.clock.Now().In(s.loc) }

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id               TEXT PRIMARY KEY,
		content          TEXT NOT NULL,
		reflection       TEXT,
		capture_date     TEXT NOT NULL,
		created_at       TEXT NOT NULL,
		has_reflection   INTEGER NOT NULL DEFAULT 0,
		next_review_date TEXT,
		review_interval  INTEGER NOT NULL DEFAULT 0,
		review_count     INTEGER NOT NULL DEFAULT 0,
		is_graduated     INTEGER NOT NULL DEFAULT 0,
		is_favorite      INTEGER NOT NULL DEFAULT 0,
		version          INTEGER NOT NULL DEFAULT 1,
		deleted_at       TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_entries_capture ON entries(capture_date DESC);
	CREATE INDEX IF NOT EXISTS idx_entries_next_review ON entries(next_review_date);
	CREATE INDEX IF NOT EXISTS idx_entries_deleted ON entries(deleted_at);

	CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		icon       TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_preset  INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS entry_categories (
		entry_id    TEXT NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
		category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (entry_id, category_id)
	);
	CREATE INDEX IF NOT EXISTS idx_entry_categories_cat ON entry_categories(category_id);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	for _, c := range model.PresetCategories {
		if _, err := s.db.Exec(
			`INSERT OR IGNORE INTO categories (id, name, icon, sort_order, is_preset) VALUES (?, ?, ?, ?, 1)`,
			c.ID, c.Name, c.Icon, c.SortOrder); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const entryColumns = `e.id, e.content, e.reflection, e.capture_date, e.created_at, e.has_reflection,
	e.next_review_date, e.review_interval, e.review_count, e.is_graduated, e.is_favorite,
	e.version, e.deleted_at`

func (s *SQLiteStore) Capture(ctx context.Context, p CaptureParams) (*model.Entry, error) {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}

	now := s.now()
	day := p.CaptureDate
	if day.IsZero() {
		day = now
	}
	day = clock.StartOfDay(day.In(s.loc))

	e := &model.Entry{
		ID:          s.newID(),
		Content:     content,
		CaptureDate: day,
		CreatedAt:   now.UTC(),
		IsFavorite:  p.Favorite,
		Version:     1,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entries (id, content, capture_date, created_at, is_favorite, version)
		 VALUES (?, ?, ?, ?, ?, 1)`,
		e.ID, e.Content, clock.DayKey(day), e.CreatedAt.Format(time.RFC3339Nano), p.Favorite)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	cats, err := linkCategories(ctx, tx, e.ID, p.Categories)
	if err != nil {
		return nil, err
	}
	e.Categories = cats

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

// linkCategories files an entry under the given categories, which must exist.
func linkCategories(ctx context.Context, q querier, entryID string, ids []string) ([]string, error) {
	var linked []string
	seen := map[string]bool{}
	for _, c := range ids {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		res, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO entry_categories (entry_id, category_id)
			 SELECT ?, id FROM categories WHERE id = ? OR name = ? COLLATE NOCASE LIMIT 1`,
			entryID, c, c)
		if err != nil {
			return nil, fmt.Errorf("link category %s: %w", c, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, fmt.Errorf("unknown category %q", c)
		}
	}
	rows, err := q.QueryContext(ctx,
		`SELECT category_id FROM entry_categories WHERE entry_id = ? ORDER BY category_id`, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		linked = append(linked, id)
	}
	return linked, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Entry, error) {
	return s.get(ctx, s.db, id)
}

func (s *SQLiteStore) get(ctx context.Context, q querier, id string) (*model.Entry, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries e WHERE e.id = ? AND e.deleted_at IS NULL`, id)
	e, err := s.scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	entries := []model.Entry{e}
	if err := s.loadCategories(ctx, q, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Entry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"e.deleted_at IS NULL"}
	args := []interface{}{}

	if p.CategoryID != "" {
		where = append(where, "EXISTS (SELECT 1 FROM entry_categories ec WHERE ec.entry_id = e.id AND ec.category_id = ?)")
		args = append(args, p.CategoryID)
	}
	if p.Favorites {
		where = append(where, "e.is_favorite = 1")
	}
	if p.On != nil {
		where = append(where, "e.capture_date = ?")
		args = append(args, clock.DayKey(p.On.In(s.loc)))
	}

	query := fmt.Sprintf(`SELECT %s FROM entries e WHERE %s
		ORDER BY e.capture_date DESC, e.created_at DESC, e.id DESC
		LIMIT ?`, entryColumns, strings.Join(where, " AND "))
	args = append(args, limit)

	return s.query(ctx, query, args...)
}

func (s *SQLiteStore) All(ctx context.Context) ([]model.Entry, error) {
	return s.query(ctx, `SELECT `+entryColumns+` FROM entries e WHERE e.deleted_at IS NULL
		ORDER BY e.capture_date, e.created_at, e.id`)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]model.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		e, err := s.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.loadCategories(ctx, s.db, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *SQLiteStore) Reflect(ctx context.Context, p ReflectParams) (*model.Entry, error) {
	note := strings.TrimSpace(p.Note)
	if note == "" {
		return nil, fmt.Errorf("reflection is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	e, err := s.get(ctx, tx, p.ID)
	if err != nil {
		return nil, err
	}

	updated := *e
	if !e.HasReflection && p.Activate != nil {
		updated = p.Activate(*e)
	}
	updated.HasReflection = true
	updated.Reflection = note

	if _, err := tx.ExecContext(ctx,
		`UPDATE entries SET reflection = ?, version = version + 1 WHERE id = ?`,
		note, e.ID); err != nil {
		return nil, fmt.Errorf("update reflection: %w", err)
	}
	if err := writeReview(ctx, tx, updated, false); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	updated.Version = e.Version + 1
	return &updated, nil
}

func (s *SQLiteStore) SaveReview(ctx context.Context, e model.Entry) (*model.Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := writeReview(ctx, tx, e, true); err != nil {
		if errors.Is(err, ErrConflict) {
			if _, gerr := s.get(ctx, tx, e.ID); gerr != nil {
				return nil, gerr
			}
		}
		return nil, err
	}
	saved, err := s.get(ctx, tx, e.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

// writeReview stores the review-pipeline fields. With checkVersion set the
// update only applies if the row still carries e.Version, and bumps it.
func writeReview(ctx context.Context, q querier, e model.Entry, checkVersion bool) error {
	var next *string
	if e.NextReviewDate != nil {
		v := e.NextReviewDate.Format(time.RFC3339)
		next = &v
	}

	query := `UPDATE entries SET has_reflection = ?, next_review_date = ?, review_interval = ?,
		review_count = ?, is_graduated = ? WHERE id = ? AND deleted_at IS NULL`
	args := []interface{}{e.HasReflection, next, e.ReviewInterval, e.ReviewCount, e.IsGraduated, e.ID}
	if checkVersion {
		query = `UPDATE entries SET has_reflection = ?, next_review_date = ?, review_interval = ?,
			review_count = ?, is_graduated = ?, version = version + 1
			WHERE id = ? AND deleted_at IS NULL AND version = ?`
		args = append(args, e.Version)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *SQLiteStore) SetFavorite(ctx context.Context, id string, fav bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET is_favorite = ?, version = version + 1 WHERE id = ? AND deleted_at IS NULL`, fav, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Rm(ctx context.Context, p RmParams) error {
	var res sql.Result
	var err error
	if p.Hard {
		res, err = s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, p.ID)
	} else {
		now := s.now().UTC().Format(time.RFC3339)
		res, err = s.db.ExecContext(ctx,
			`UPDATE entries SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, now, p.ID)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	return nil
}

func (s *SQLiteStore) CaptureDates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT capture_date FROM entries WHERE deleted_at IS NULL ORDER BY capture_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		d, err := clock.ParseDay(day, s.loc)
		if err != nil {
			return nil, fmt.Errorf("parse capture date %q: %w", day, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanEntry(row scanner) (model.Entry, error) {
	var e model.Entry
	var reflection, nextReview, deletedAt sql.NullString
	var captureDate, createdAt string

	err := row.Scan(
		&e.ID, &e.Content, &reflection, &captureDate, &createdAt, &e.HasReflection,
		&nextReview, &e.ReviewInterval, &e.ReviewCount, &e.IsGraduated, &e.IsFavorite,
		&e.Version, &deletedAt,
	)
	if err != nil {
		return e, err
	}

	e.CaptureDate, _ = clock.ParseDay(captureDate, s.loc)
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if reflection.Valid {
		e.Reflection = reflection.String
	}
	if nextReview.Valid {
		t, _ := time.Parse(time.RFC3339, nextReview.String)
		t = t.In(s.loc)
		e.NextReviewDate = &t
	}
	if deletedAt.Valid {
		t, _ := time.Parse(time.RFC3339, deletedAt.String)
		e.DeletedAt = &t
	}
	return e, nil
}

// loadCategories fills Categories for each entry in place.
func (s *SQLiteStore) loadCategories(ctx context.Context, q querier, entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	idx := make(map[string]int, len(entries))
	placeholders := make([]string, 0, len(entries))
	args := make([]interface{}, 0, len(entries))
	for i, e := range entries {
		idx[e.ID] = i
		placeholders = append(placeholders, "?")
		args = append(args, e.ID)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT entry_id, category_id FROM entry_categories
		 WHERE entry_id IN (`+strings.Join(placeholders, ",")+`)
		 ORDER BY entry_id, category_id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var entryID, catID string
		if err := rows.Scan(&entryID, &catID); err != nil {
			return err
		}
		i := idx[entryID]
		entries[i].Categories = append(entries[i].Categories, catID)
	}
	return rows.Err()
}
