package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
}

func (h *captureHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
	return h.err
}

func (h *captureHandler) EventTypes() []string { return h.types }

func (h *captureHandler) captured() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.events...)
}

func newVoteCastEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	vote := feedback.NewVote(uuid.New(), uuid.New(), true)
	evts := vote.GetDomainEvents()
	require.Len(t, evts, 1)
	return evts[0]
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to subscribed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &captureHandler{types: []string{feedback.VoteCastEventType}}
		bus.Subscribe(handler)

		evt := newVoteCastEvent(t)
		require.NoError(t, bus.Publish(ctx, evt))

		captured := handler.captured()
		require.Len(t, captured, 1)
		assert.Equal(t, feedback.VoteCastEventType, captured[0].EventType())
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		wildcard := &captureHandler{}
		bus.Subscribe(wildcard)

		require.NoError(t, bus.Publish(ctx, newVoteCastEvent(t)))
		require.NoError(t, bus.Publish(ctx, events.NewEventDeletedEvent(uuid.New())))

		assert.Len(t, wildcard.captured(), 2)
	})

	t.Run("unrelated types are not delivered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &captureHandler{types: []string{events.EventDeletedEventType}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newVoteCastEvent(t)))
		assert.Empty(t, handler.captured())
	})

	t.Run("failing handler does not block others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &captureHandler{types: []string{feedback.VoteCastEventType}, err: errors.New("boom")}
		healthy := &captureHandler{types: []string{feedback.VoteCastEventType}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newVoteCastEvent(t)))
		assert.Len(t, healthy.captured(), 1)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &captureHandler{types: []string{feedback.VoteCastEventType}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(ctx, newVoteCastEvent(t)))
		assert.Empty(t, handler.captured())
	})
}
