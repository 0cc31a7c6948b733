package realtime

import (
	"context"

	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/domain/shared"
)

// EventBridge translates feedback domain events into hub change cues.
// Register it on the event bus for the feedback event types.
type EventBridge struct {
	hub *Hub
}

// NewEventBridge creates a new EventBridge
func NewEventBridge(hub *Hub) *EventBridge {
	return &EventBridge{hub: hub}
}

// EventTypes returns the event types the bridge listens for
func (b *EventBridge) EventTypes() []string {
	return []string{
		feedback.VoteCastEventType,
		feedback.RatingSubmittedEventType,
	}
}

// Handle pushes a change cue for the occurrence the event touched
func (b *EventBridge) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *feedback.VoteCastEvent:
		b.hub.Broadcast(ChangeCue{
			Table:        "votes",
			Action:       "upsert",
			OccurrenceID: e.OccurrenceID,
		})
	case *feedback.RatingSubmittedEvent:
		b.hub.Broadcast(ChangeCue{
			Table:        "ratings",
			Action:       "upsert",
			OccurrenceID: e.OccurrenceID,
		})
	}
	return nil
}

var _ shared.EventHandler = (*EventBridge)(nil)
