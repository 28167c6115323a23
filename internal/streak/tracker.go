package streak

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/model"
)

// Setting keys used to persist streak bookkeeping.
const (
	KeyLongest       = "streak.longest"
	KeyMilestone     = "streak.milestone"
	KeyMilestoneDate = "streak.milestone_date"
)

// Settings is a string key/value store.
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Stats is the streak summary shown to the user.
type Stats struct {
	Current       int  `json:"current"`
	Longest       int  `json:"longest"`
	NextMilestone int  `json:"next_milestone,omitempty"`
	NewMilestone  int  `json:"new_milestone,omitempty"`
	CapturedToday bool `json:"captured_today"`
}

// Tracker loads and saves StreakState through a Settings collaborator and
// combines it with the pure streak functions.
type Tracker struct {
	settings Settings
	logger   *slog.Logger
}

// NewTracker creates a Tracker. A nil logger discards log output.
func NewTracker(s Settings, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Tracker{settings: s, logger: logger}
}

// Load reads the persisted streak state. Missing keys read as zero.
func (t *Tracker) Load(ctx context.Context) (model.StreakState, error) {
	var st model.StreakState

	longest, err := t.getInt(ctx, KeyLongest)
	if err != nil {
		return st, err
	}
	milestone, err := t.getInt(ctx, KeyMilestone)
	if err != nil {
		return st, err
	}
	st.LongestStreak = longest
	st.LastMilestone = milestone

	v, ok, err := t.settings.GetSetting(ctx, KeyMilestoneDate)
	if err != nil {
		return st, fmt.Errorf("get %s: %w", KeyMilestoneDate, err)
	}
	if ok && v != "" {
		d, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return st, fmt.Errorf("parse %s: %w", KeyMilestoneDate, err)
		}
		st.LastMilestoneDate = &d
	}
	return st, nil
}

// Save writes the streak state.
func (t *Tracker) Save(ctx context.Context, st model.StreakState) error {
	if err := t.settings.SetSetting(ctx, KeyLongest, strconv.Itoa(st.LongestStreak)); err != nil {
		return fmt.Errorf("set %s: %w", KeyLongest, err)
	}
	if err := t.settings.SetSetting(ctx, KeyMilestone, strconv.Itoa(st.LastMilestone)); err != nil {
		return fmt.Errorf("set %s: %w", KeyMilestone, err)
	}
	date := ""
	if st.LastMilestoneDate != nil {
		date = st.LastMilestoneDate.Format(time.RFC3339)
	}
	if err := t.settings.SetSetting(ctx, KeyMilestoneDate, date); err != nil {
		return fmt.Errorf("set %s: %w", KeyMilestoneDate, err)
	}
	return nil
}

// Refresh recomputes the streak from capture dates, raises the persisted
// longest-streak high-water mark and reports a newly crossed milestone.
// The milestone is not marked as celebrated; call Celebrate for that.
func (t *Tracker) Refresh(ctx context.Context, captureDates []time.Time, today time.Time) (Stats, error) {
	st, err := t.Load(ctx)
	if err != nil {
		return Stats{}, err
	}

	current := Current(captureDates, today)
	longest := Longest(captureDates, today.Location())
	if current > longest {
		longest = current
	}
	if longest > st.LongestStreak {
		t.logger.Debug("longest streak raised", "from", st.LongestStreak, "to", longest)
		st.LongestStreak = longest
		if err := t.settings.SetSetting(ctx, KeyLongest, strconv.Itoa(longest)); err != nil {
			return Stats{}, fmt.Errorf("set %s: %w", KeyLongest, err)
		}
	}

	stats := Stats{
		Current:       current,
		Longest:       st.LongestStreak,
		NextMilestone: Next(current),
	}
	for _, d := range captureDates {
		if clock.SameDay(today, d) {
			stats.CapturedToday = true
			break
		}
	}
	if m, ok := CheckForNewMilestone(current, st, today); ok {
		stats.NewMilestone = m
	}
	return stats, nil
}

// Celebrate persists milestone as celebrated on today.
func (t *Tracker) Celebrate(ctx context.Context, milestone int, today time.Time) error {
	st, err := t.Load(ctx)
	if err != nil {
		return err
	}
	t.logger.Info("milestone celebrated", "milestone", milestone)
	return t.Save(ctx, MarkMilestoneCelebrated(st, milestone, today))
}

func (t *Tracker) getInt(ctx context.Context, key string) (int, error) {
	v, ok, err := t.settings.GetSetting(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
