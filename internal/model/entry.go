// Package model defines the core journal data types.
package model

import "time"

// Entry is a captured learning together with its review-pipeline state.
type Entry struct {
	ID             string     `json:"id"`
	Content        string     `json:"content"`
	Reflection     string     `json:"reflection,omitempty"`
	CaptureDate    time.Time  `json:"capture_date"` // day granularity
	CreatedAt      time.Time  `json:"created_at"`
	HasReflection  bool       `json:"has_reflection"`
	NextReviewDate *time.Time `json:"next_review_date,omitempty"`
	ReviewInterval int        `json:"review_interval"`
	ReviewCount    int        `json:"review_count"`
	IsGraduated    bool       `json:"is_graduated"`
	IsFavorite     bool       `json:"is_favorite"`
	Categories     []string   `json:"categories,omitempty"` // category IDs
	Version        int        `json:"version"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// HasCategory reports whether the entry is filed under the category ID.
func (e Entry) HasCategory(id string) bool {
	for _, c := range e.Categories {
		if c == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no pointers or slices with e.
func (e Entry) Clone() Entry {
	out := e
	if e.NextReviewDate != nil {
		v := *e.NextReviewDate
		out.NextReviewDate = &v
	}
	if e.DeletedAt != nil {
		v := *e.DeletedAt
		out.DeletedAt = &v
	}
	if e.Categories != nil {
		out.Categories = append([]string(nil), e.Categories...)
	}
	return out
}

// Category is reference data used to file and filter entries.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sort_order"`
	IsPreset  bool   `json:"is_preset"`
}

// PresetCategories are seeded into a fresh database.
var PresetCategories = []Category{
	{ID: "work", Name: "Work", Icon: "briefcase", SortOrder: 0, IsPreset: true},
	{ID: "health", Name: "Health", Icon: "heart", SortOrder: 1, IsPreset: true},
	{ID: "relationships", Name: "Relationships", Icon: "people", SortOrder: 2, IsPreset: true},
	{ID: "money", Name: "Money", Icon: "dollar", SortOrder: 3, IsPreset: true},
	{ID: "growth", Name: "Growth", Icon: "leaf", SortOrder: 4, IsPreset: true},
	{ID: "creativity", Name: "Creativity", Icon: "paintbrush", SortOrder: 5, IsPreset: true},
}

// ReviewOutcome is the user's answer for one reviewed entry.
type ReviewOutcome string

const (
	GotIt       ReviewOutcome = "got_it"
	ReviewAgain ReviewOutcome = "review_again"
)

// ValidOutcomes are the accepted review outcomes.
var ValidOutcomes = map[ReviewOutcome]bool{
	GotIt:       true,
	ReviewAgain: true,
}

// StreakState is the persisted part of streak bookkeeping.
// The current streak itself is always derived from capture dates.
type StreakState struct {
	LongestStreak     int        `json:"longest_streak"`
	LastMilestone     int        `json:"last_milestone"`
	LastMilestoneDate *time.Time `json:"last_milestone_date,omitempty"`
}
