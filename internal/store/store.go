// Package store provides the journal storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/recall/internal/model"
)

var (
	ErrNotFound = errors.New("entry not found")
	// ErrConflict is returned when an entry changed between read and write.
	ErrConflict = errors.New("entry was modified concurrently")
)

// CaptureParams holds parameters for capturing an entry.
type CaptureParams struct {
	Content     string
	CaptureDate time.Time // zero means today
	Categories  []string
	Favorite    bool
}

// ReflectParams holds parameters for attaching a reflection.
type ReflectParams struct {
	ID   string
	Note string
	// Activate is applied, inside the same transaction, only when the entry
	// had no reflection before.
	Activate func(model.Entry) model.Entry
}

// ListParams holds parameters for listing entries.
type ListParams struct {
	CategoryID string
	Favorites  bool
	On         *time.Time // only entries captured on this day
	Limit      int
}

// RmParams holds parameters for deleting an entry.
type RmParams struct {
	ID   string
	Hard bool
}

// Store defines the entry repository.
type Store interface {
	// Capture stores a new entry with no review state.
	Capture(ctx context.Context, p CaptureParams) (*model.Entry, error)

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*model.Entry, error)

	// List lists entries matching the given filters, newest capture first.
	List(ctx context.Context, p ListParams) ([]model.Entry, error)

	// All returns every live entry, oldest capture first.
	All(ctx context.Context) ([]model.Entry, error)

	// Reflect attaches a reflection and activates review on first use.
	Reflect(ctx context.Context, p ReflectParams) (*model.Entry, error)

	// SaveReview writes the review-pipeline fields of e.
	// It fails with ErrConflict if e.Version is stale.
	SaveReview(ctx context.Context, e model.Entry) (*model.Entry, error)

	// SetFavorite flips the favourite flag.
	SetFavorite(ctx context.Context, id string, fav bool) error

	// Rm soft-deletes (or hard-deletes) an entry.
	Rm(ctx context.Context, p RmParams) error

	// CaptureDates returns the distinct capture days of live entries.
	CaptureDates(ctx context.Context) ([]time.Time, error)

	// Close closes the store.
	Close() error
}
