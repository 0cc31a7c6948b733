package scheduler

import (
	"context"
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ScheduleListener refreshes an event's occurrences as soon as its
// schedule is created or changed, instead of waiting for the next
// materializer tick.
type ScheduleListener struct {
	materializer *Materializer
	logger       *zap.Logger
}

// NewScheduleListener creates a new ScheduleListener
func NewScheduleListener(materializer *Materializer, logger *zap.Logger) *ScheduleListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleListener{materializer: materializer, logger: logger}
}

// EventTypes returns the event types the listener reacts to
func (l *ScheduleListener) EventTypes() []string {
	return []string{
		events.EventCreatedEventType,
		events.EventScheduleChangedEventType,
	}
}

// Handle re-materializes the changed event's occurrences
func (l *ScheduleListener) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch event.EventType() {
	case events.EventCreatedEventType, events.EventScheduleChangedEventType:
		if err := l.materializer.RefreshEvent(ctx, event.AggregateID(), time.Now()); err != nil {
			l.logger.Error("Failed to refresh occurrences after schedule change",
				zap.String("event_id", event.AggregateID().String()),
				zap.Error(err))
			return err
		}
	}
	return nil
}

var _ shared.EventHandler = (*ScheduleListener)(nil)
