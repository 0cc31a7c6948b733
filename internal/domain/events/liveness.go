package events

import (
	"time"
)

// Window is an occurrence's scheduled window. Either bound may be
// absent; a missing bound relaxes that side of the comparison, so a
// window with neither bound is always live.
type Window struct {
	StartsAt *time.Time
	EndsAt   *time.Time
}

// IsLiveAt reports whether now falls within the window. Both bounds are
// inclusive: now == StartsAt and now == EndsAt are live. The result is
// a pure function of the arguments and must be recomputed on every
// evaluation; liveness is never cached or persisted.
func (w Window) IsLiveAt(now time.Time) bool {
	if w.StartsAt != nil && now.Before(*w.StartsAt) {
		return false
	}
	if w.EndsAt != nil && now.After(*w.EndsAt) {
		return false
	}
	return true
}

// IsUpcomingAt reports whether the window starts strictly after now.
func (w Window) IsUpcomingAt(now time.Time) bool {
	return w.StartsAt != nil && now.Before(*w.StartsAt)
}

// IsPastAt reports whether the window ended strictly before now.
func (w Window) IsPastAt(now time.Time) bool {
	return w.EndsAt != nil && now.After(*w.EndsAt)
}

// ParseBound parses an RFC 3339 timestamp bound. An empty or malformed
// value yields a nil bound (an unbounded side) together with the parse
// error so callers can surface the data-quality concern; it is never
// fatal to evaluation.
func ParseBound(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TimeOfDay is a clock time within a day, used by weekly recurrence.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return TimeOfDay{}, err
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On anchors the time of day to the given date in its location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// Minutes returns the minute offset from midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}
