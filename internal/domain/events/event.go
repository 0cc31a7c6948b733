package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event is the aggregate root for a venue event. It carries either a
// single absolute schedule (StartsAt/EndsAt) or a weekly recurring one
// (RecurDays + time-of-day bounds), never both.
type Event struct {
	shared.BaseAggregateRoot
	Title       string
	Venue       string
	Description string
	ImageURL    string
	CreatedBy   uuid.UUID

	Recurring bool

	// Single mode
	StartsAt *time.Time
	EndsAt   *time.Time

	// Recurring mode
	RecurDays   []time.Weekday // 0=Sunday .. 6=Saturday
	RecurStart  string         // "HH:MM" local time of day
	RecurEnd    string         // "HH:MM", may wrap past midnight
	ActiveFrom  *time.Time     // optional date bound (inclusive)
	ActiveUntil *time.Time     // optional date bound (inclusive)
}

// NewSingleEvent creates an event scheduled for one absolute window.
func NewSingleEvent(createdBy uuid.UUID, title, venue string, startsAt time.Time, endsAt *time.Time) (*Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("TITLE_REQUIRED", "Event title cannot be empty")
	}
	if endsAt != nil && endsAt.Before(startsAt) {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Event cannot end before it starts")
	}

	ev := &Event{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Venue:             strings.TrimSpace(venue),
		CreatedBy:         createdBy,
		Recurring:         false,
		StartsAt:          &startsAt,
		EndsAt:            endsAt,
	}
	ev.AddDomainEvent(NewEventCreatedEvent(ev))
	return ev, nil
}

// NewRecurringEvent creates an event repeating weekly on the given days.
func NewRecurringEvent(createdBy uuid.UUID, title, venue string, days []time.Weekday, recurStart, recurEnd string, activeFrom, activeUntil *time.Time) (*Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("TITLE_REQUIRED", "Event title cannot be empty")
	}
	if err := validateRecurrence(days, recurStart, recurEnd); err != nil {
		return nil, err
	}
	if activeFrom != nil && activeUntil != nil && activeUntil.Before(*activeFrom) {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Active-until date is before active-from")
	}

	ev := &Event{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Venue:             strings.TrimSpace(venue),
		CreatedBy:         createdBy,
		Recurring:         true,
		RecurDays:         normalizeDays(days),
		RecurStart:        recurStart,
		RecurEnd:          recurEnd,
		ActiveFrom:        activeFrom,
		ActiveUntil:       activeUntil,
	}
	ev.AddDomainEvent(NewEventCreatedEvent(ev))
	return ev, nil
}

// UpdateDetails changes the descriptive fields.
func (e *Event) UpdateDetails(title, venue, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("TITLE_REQUIRED", "Event title cannot be empty")
	}
	e.Title = title
	e.Venue = strings.TrimSpace(venue)
	e.Description = strings.TrimSpace(description)
	e.Touch()
	e.AddDomainEvent(NewEventUpdatedEvent(e))
	return nil
}

// UseSingleSchedule switches the event to a single absolute window and
// clears all recurrence fields.
func (e *Event) UseSingleSchedule(startsAt time.Time, endsAt *time.Time) error {
	if endsAt != nil && endsAt.Before(startsAt) {
		return shared.NewDomainError("INVALID_SCHEDULE", "Event cannot end before it starts")
	}
	e.Recurring = false
	e.StartsAt = &startsAt
	e.EndsAt = endsAt
	e.RecurDays = nil
	e.RecurStart = ""
	e.RecurEnd = ""
	e.ActiveFrom = nil
	e.ActiveUntil = nil
	e.Touch()
	e.AddDomainEvent(NewEventScheduleChangedEvent(e))
	return nil
}

// UseWeeklySchedule switches the event to a weekly recurrence and clears
// the single-mode timestamps.
func (e *Event) UseWeeklySchedule(days []time.Weekday, recurStart, recurEnd string, activeFrom, activeUntil *time.Time) error {
	if err := validateRecurrence(days, recurStart, recurEnd); err != nil {
		return err
	}
	if activeFrom != nil && activeUntil != nil && activeUntil.Before(*activeFrom) {
		return shared.NewDomainError("INVALID_SCHEDULE", "Active-until date is before active-from")
	}
	e.Recurring = true
	e.StartsAt = nil
	e.EndsAt = nil
	e.RecurDays = normalizeDays(days)
	e.RecurStart = recurStart
	e.RecurEnd = recurEnd
	e.ActiveFrom = activeFrom
	e.ActiveUntil = activeUntil
	e.Touch()
	e.AddDomainEvent(NewEventScheduleChangedEvent(e))
	return nil
}

// SetCoverImage records the public URL of the uploaded cover image.
func (e *Event) SetCoverImage(url string) {
	e.ImageURL = url
	e.Touch()
	e.AddDomainEvent(NewEventUpdatedEvent(e))
}

// CanBeManagedBy reports whether the given user may edit or delete this
// event. Only the creator and admins may; the same rule is enforced
// again by the persistence layer's ownership checks.
func (e *Event) CanBeManagedBy(userID uuid.UUID, isAdmin bool) bool {
	return isAdmin || e.CreatedBy == userID
}

func validateRecurrence(days []time.Weekday, recurStart, recurEnd string) error {
	if len(days) == 0 {
		return shared.NewDomainError("RECUR_DAYS_REQUIRED", "Select at least one weekday")
	}
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return shared.NewDomainError("INVALID_WEEKDAY", fmt.Sprintf("Invalid weekday index %d", d))
		}
	}
	if _, err := ParseTimeOfDay(recurStart); err != nil {
		return shared.NewDomainError("INVALID_TIME", "Recurrence start time must be HH:MM")
	}
	if _, err := ParseTimeOfDay(recurEnd); err != nil {
		return shared.NewDomainError("INVALID_TIME", "Recurrence end time must be HH:MM")
	}
	return nil
}

// normalizeDays sorts and deduplicates weekday indices.
func normalizeDays(days []time.Weekday) []time.Weekday {
	seen := make(map[time.Weekday]bool, len(days))
	out := make([]time.Weekday, 0, len(days))
	for d := time.Sunday; d <= time.Saturday; d++ {
		for _, given := range days {
			if given == d && !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}
