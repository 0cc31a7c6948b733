package events

import (
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventCreatedEventType         = "events.event.created"
	EventUpdatedEventType         = "events.event.updated"
	EventDeletedEventType         = "events.event.deleted"
	EventScheduleChangedEventType = "events.event.schedule_changed"
	OccurrenceDeletedEventType    = "events.occurrence.deleted"
)

const aggregateTypeEvent = "Event"

// EventCreatedEvent is raised when a new event is created
type EventCreatedEvent struct {
	shared.BaseDomainEvent
	Title     string    `json:"title"`
	CreatedBy uuid.UUID `json:"created_by"`
	Recurring bool      `json:"recurring"`
}

// NewEventCreatedEvent creates a new EventCreatedEvent
func NewEventCreatedEvent(e *Event) *EventCreatedEvent {
	return &EventCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCreatedEventType, aggregateTypeEvent, e.ID),
		Title:           e.Title,
		CreatedBy:       e.CreatedBy,
		Recurring:       e.Recurring,
	}
}

// EventUpdatedEvent is raised when an event's descriptive fields change
type EventUpdatedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewEventUpdatedEvent creates a new EventUpdatedEvent
func NewEventUpdatedEvent(e *Event) *EventUpdatedEvent {
	return &EventUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUpdatedEventType, aggregateTypeEvent, e.ID),
		Title:           e.Title,
	}
}

// EventScheduleChangedEvent is raised when an event's schedule changes.
// The occurrence materializer listens for it to rebuild future rows.
type EventScheduleChangedEvent struct {
	shared.BaseDomainEvent
	Recurring bool `json:"recurring"`
}

// NewEventScheduleChangedEvent creates a new EventScheduleChangedEvent
func NewEventScheduleChangedEvent(e *Event) *EventScheduleChangedEvent {
	return &EventScheduleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventScheduleChangedEventType, aggregateTypeEvent, e.ID),
		Recurring:       e.Recurring,
	}
}

// EventDeletedEvent is raised when an event is deleted
type EventDeletedEvent struct {
	shared.BaseDomainEvent
}

// NewEventDeletedEvent creates a new EventDeletedEvent
func NewEventDeletedEvent(eventID uuid.UUID) *EventDeletedEvent {
	return &EventDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDeletedEventType, aggregateTypeEvent, eventID),
	}
}

// OccurrenceDeletedEvent is raised when a single occurrence is removed
type OccurrenceDeletedEvent struct {
	shared.BaseDomainEvent
	ParentEventID uuid.UUID `json:"event_id"`
}

// NewOccurrenceDeletedEvent creates a new OccurrenceDeletedEvent
func NewOccurrenceDeletedEvent(o *Occurrence) *OccurrenceDeletedEvent {
	return &OccurrenceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(OccurrenceDeletedEventType, "Occurrence", o.ID),
		ParentEventID:   o.EventID,
	}
}
