package events

import (
	"time"
)

// OccurrencesBetween expands the event's schedule into concrete windows
// within [from, until). For a single-mode event the result is its one
// window when it starts inside the range. For a recurring event each
// scheduled weekday inside the range (clamped to the active date
// bounds) yields one window; an end time at or before the start time
// wraps past midnight into the next day.
func (e *Event) OccurrencesBetween(from, until time.Time) []Window {
	if !e.Recurring {
		if e.StartsAt == nil || e.StartsAt.Before(from) || !e.StartsAt.Before(until) {
			return nil
		}
		return []Window{{StartsAt: e.StartsAt, EndsAt: e.EndsAt}}
	}

	start, err := ParseTimeOfDay(e.RecurStart)
	if err != nil {
		return nil
	}
	end, err := ParseTimeOfDay(e.RecurEnd)
	if err != nil {
		return nil
	}

	days := make(map[time.Weekday]bool, len(e.RecurDays))
	for _, d := range e.RecurDays {
		days[d] = true
	}

	lower := from
	if e.ActiveFrom != nil && e.ActiveFrom.After(lower) {
		lower = *e.ActiveFrom
	}
	upper := until
	if e.ActiveUntil != nil {
		// ActiveUntil is an inclusive date bound.
		boundEnd := e.ActiveUntil.AddDate(0, 0, 1)
		if boundEnd.Before(upper) {
			upper = boundEnd
		}
	}

	var windows []Window
	day := time.Date(lower.Year(), lower.Month(), lower.Day(), 0, 0, 0, 0, lower.Location())
	for ; day.Before(upper); day = day.AddDate(0, 0, 1) {
		if !days[day.Weekday()] {
			continue
		}
		startsAt := start.On(day)
		if startsAt.Before(from) || !startsAt.Before(until) {
			continue
		}
		endsAt := end.On(day)
		if end.Minutes() <= start.Minutes() {
			endsAt = endsAt.AddDate(0, 0, 1)
		}
		windows = append(windows, Window{StartsAt: &startsAt, EndsAt: &endsAt})
	}
	return windows
}
