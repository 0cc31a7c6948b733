package events

import (
	"time"

	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Occurrence is one concrete scheduled instance of an Event, the unit
// against which votes and ratings are recorded.
type Occurrence struct {
	shared.BaseAggregateRoot
	EventID  uuid.UUID
	StartsAt *time.Time
	EndsAt   *time.Time
}

// NewOccurrence creates an occurrence for the given event and window.
func NewOccurrence(eventID uuid.UUID, startsAt, endsAt *time.Time) *Occurrence {
	return &Occurrence{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EventID:           eventID,
		StartsAt:          startsAt,
		EndsAt:            endsAt,
	}
}

// Window returns the occurrence's scheduled window.
func (o *Occurrence) Window() Window {
	return Window{StartsAt: o.StartsAt, EndsAt: o.EndsAt}
}

// IsLiveAt reports whether the occurrence is live at the given instant.
func (o *Occurrence) IsLiveAt(now time.Time) bool {
	return o.Window().IsLiveAt(now)
}

// OccurrenceListing is the read projection of an occurrence joined with
// its event, as served by the live/upcoming/past discovery views.
type OccurrenceListing struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	StartsAt    *time.Time
	EndsAt      *time.Time
	Title       string
	Venue       string
	Description string
	ImageURL    string
	CreatedBy   uuid.UUID
}

// Window returns the listing's scheduled window.
func (l *OccurrenceListing) Window() Window {
	return Window{StartsAt: l.StartsAt, EndsAt: l.EndsAt}
}
