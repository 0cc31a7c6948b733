package events

import (
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/google/uuid"
)

// ScheduleInput describes either a single absolute window or a weekly
// recurrence. Recurring selects which set of fields applies.
type ScheduleInput struct {
	Recurring bool

	// Single mode
	StartsAt *time.Time
	EndsAt   *time.Time

	// Recurring mode
	RecurDays   []time.Weekday
	RecurStart  string // "HH:MM"
	RecurEnd    string // "HH:MM"
	ActiveFrom  *time.Time
	ActiveUntil *time.Time
}

// CreateEventInput contains the input for event creation
type CreateEventInput struct {
	CreatedBy   uuid.UUID
	Title       string
	Venue       string
	Description string
	Schedule    ScheduleInput
}

// UpdateEventInput contains the input for an event update. Schedule is
// optional; when nil the existing schedule is kept.
type UpdateEventInput struct {
	ActorID      uuid.UUID
	ActorIsAdmin bool
	Title        string
	Venue        string
	Description  string
	Schedule     *ScheduleInput
}

// DeleteEventInput identifies the event and the acting user
type DeleteEventInput struct {
	EventID      uuid.UUID
	ActorID      uuid.UUID
	ActorIsAdmin bool
}

// UploadCoverInput carries an uploaded cover image
type UploadCoverInput struct {
	EventID      uuid.UUID
	ActorID      uuid.UUID
	ActorIsAdmin bool
	ContentType  string
	Data         []byte
}

// EventResult is the application-level view of an event
type EventResult struct {
	ID          uuid.UUID
	Title       string
	Venue       string
	Description string
	ImageURL    string
	CreatedBy   uuid.UUID
	Recurring   bool
	StartsAt    *time.Time
	EndsAt      *time.Time
	RecurDays   []time.Weekday
	RecurStart  string
	RecurEnd    string
	ActiveFrom  *time.Time
	ActiveUntil *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ToEventResult maps an event aggregate to its result view
func ToEventResult(e *events.Event) EventResult {
	return EventResult{
		ID:          e.ID,
		Title:       e.Title,
		Venue:       e.Venue,
		Description: e.Description,
		ImageURL:    e.ImageURL,
		CreatedBy:   e.CreatedBy,
		Recurring:   e.Recurring,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		RecurDays:   e.RecurDays,
		RecurStart:  e.RecurStart,
		RecurEnd:    e.RecurEnd,
		ActiveFrom:  e.ActiveFrom,
		ActiveUntil: e.ActiveUntil,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EventStatsResult aggregates the owner-dashboard numbers for one
// event across all of its occurrences
type EventStatsResult struct {
	EventID  uuid.UUID
	Votes    feedback.VoteTally
	Averages feedback.RatingAverages
}

// RecentRatingResult is one entry of the recent-ratings feed
type RecentRatingResult struct {
	EventID      uuid.UUID
	OccurrenceID uuid.UUID
	Key          feedback.RatingKey
	Score        int
	CreatedAt    time.Time
}

// ListingResult is one row of a discovery listing, with liveness
// evaluated at query time
type ListingResult struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	Title       string
	Venue       string
	Description string
	ImageURL    string
	CreatedBy   uuid.UUID
	StartsAt    *time.Time
	EndsAt      *time.Time
	Live        bool
}

// ToListingResult maps a listing projection, deriving the live flag
// from the given instant
func ToListingResult(l events.OccurrenceListing, now time.Time) ListingResult {
	return ListingResult{
		ID:          l.ID,
		EventID:     l.EventID,
		Title:       l.Title,
		Venue:       l.Venue,
		Description: l.Description,
		ImageURL:    l.ImageURL,
		CreatedBy:   l.CreatedBy,
		StartsAt:    l.StartsAt,
		EndsAt:      l.EndsAt,
		Live:        l.Window().IsLiveAt(now),
	}
}
