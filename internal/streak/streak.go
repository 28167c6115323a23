// Package streak derives capture streaks and milestone crossings from the
// set of days on which entries were captured.
package streak

import (
	"sort"
	"time"

	"github.com/rcliao/recall/internal/clock"
	"github.com/rcliao/recall/internal/model"
)

// Milestones are the streak lengths worth celebrating, ascending.
var Milestones = []int{3, 7, 14, 30, 60, 90, 180, 365}

func daySet(dates []time.Time, loc *time.Location) map[string]bool {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[clock.DayKey(d.In(loc))] = true
	}
	return set
}

// Current returns the number of consecutive days, ending today, that have at
// least one capture. If nothing was captured today yet but yesterday has a
// capture, the run ending yesterday still counts.
func Current(captureDates []time.Time, today time.Time) int {
	set := daySet(captureDates, today.Location())
	day := clock.StartOfDay(today)
	if !set[clock.DayKey(day)] {
		day = clock.DaysFrom(day, -1)
		if !set[clock.DayKey(day)] {
			return 0
		}
	}

	n := 0
	for set[clock.DayKey(day)] {
		n++
		day = clock.DaysFrom(day, -1)
	}
	return n
}

// Longest returns the longest run of consecutive capture days in history.
func Longest(captureDates []time.Time, loc *time.Location) int {
	if len(captureDates) == 0 {
		return 0
	}
	set := daySet(captureDates, loc)
	days := make([]time.Time, 0, len(set))
	for k := range set {
		d, err := clock.ParseDay(k, loc)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if clock.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// Reached returns the highest milestone at or below streak, or 0.
func Reached(streak int) int {
	reached := 0
	for _, m := range Milestones {
		if m > streak {
			break
		}
		reached = m
	}
	return reached
}

// Next returns the first milestone above streak, or 0 past the last one.
func Next(streak int) int {
	for _, m := range Milestones {
		if m > streak {
			return m
		}
	}
	return 0
}

// CheckForNewMilestone returns the milestone the current streak has newly
// crossed, if any.
//
// When the last celebration is older than yesterday and the streak has
// fallen below the celebrated milestone, the streak broke and is being
// rebuilt, so the celebrated marker is treated as reset.
func CheckForNewMilestone(current int, st model.StreakState, today time.Time) (int, bool) {
	last := st.LastMilestone
	if last > 0 && current < last && !recent(st.LastMilestoneDate, today) {
		last = 0
	}

	reached := Reached(current)
	if reached > last {
		return reached, true
	}
	return 0, false
}

func recent(d *time.Time, today time.Time) bool {
	if d == nil {
		return false
	}
	diff := clock.DaysBetween(*d, today)
	return diff == 0 || diff == 1
}

// MarkMilestoneCelebrated records milestone as celebrated on today.
// Marking the same milestone twice on one day yields the same state.
func MarkMilestoneCelebrated(st model.StreakState, milestone int, today time.Time) model.StreakState {
	d := clock.StartOfDay(today)
	st.LastMilestone = milestone
	st.LastMilestoneDate = &d
	return st
}
