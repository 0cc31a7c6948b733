package events

import (
	"context"
	"time"

	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OccurrenceView names the read-optimized discovery projections.
type OccurrenceView string

const (
	ViewLive     OccurrenceView = "live"
	ViewUpcoming OccurrenceView = "upcoming"
	ViewPast     OccurrenceView = "past"
)

// ParseOccurrenceView validates a view name from a request.
func ParseOccurrenceView(s string) (OccurrenceView, error) {
	switch OccurrenceView(s) {
	case ViewLive, ViewUpcoming, ViewPast:
		return OccurrenceView(s), nil
	}
	return "", shared.NewDomainError("INVALID_VIEW", "View must be one of live, upcoming, past")
}

// EventRepository persists Event aggregates.
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindByCreator(ctx context.Context, createdBy uuid.UUID, filter shared.Filter) ([]Event, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Event, error)
	FindRecurring(ctx context.Context) ([]Event, error)
	Save(ctx context.Context, event *Event) error
	// Delete removes the event; dependent occurrences, votes, ratings
	// and favorites go with it via database cascades.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OccurrenceRepository persists occurrences and serves the discovery
// projections.
type OccurrenceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Occurrence, error)
	FindListing(ctx context.Context, id uuid.UUID) (*OccurrenceListing, error)
	// ListView serves the live/upcoming/past projections, evaluated
	// against now, with substring search over title and venue.
	ListView(ctx context.Context, view OccurrenceView, now time.Time, filter shared.Filter) ([]OccurrenceListing, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID, filter shared.Filter) ([]OccurrenceListing, error)
	// FindNearest returns the event's occurrence whose start is closest
	// to the reference instant; used when a detail link's occurrence id
	// no longer resolves.
	FindNearest(ctx context.Context, eventID uuid.UUID, ref time.Time) (*OccurrenceListing, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Occurrence, error)
	Save(ctx context.Context, occurrence *Occurrence) error
	// SaveAll inserts the given occurrences, skipping rows whose
	// (event_id, starts_at) pair already exists.
	SaveAll(ctx context.Context, occurrences []*Occurrence) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteFutureByEvent removes materialized occurrences starting
	// after the given instant, ahead of re-materialization.
	DeleteFutureByEvent(ctx context.Context, eventID uuid.UUID, after time.Time) error
}
