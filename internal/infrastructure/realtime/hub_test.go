package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func dialTestHub(t *testing.T, hub *Hub, occurrenceID uuid.UUID) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, occurrenceID, func(*http.Request) bool { return true })
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(config.RealtimeConfig{}, zaptest.NewLogger(t))
	occurrenceID := uuid.New()

	conn := dialTestHub(t, hub, occurrenceID)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(occurrenceID) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(ChangeCue{Table: "votes", Action: "upsert", OccurrenceID: occurrenceID})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var cue ChangeCue
	require.NoError(t, json.Unmarshal(payload, &cue))
	assert.Equal(t, "votes", cue.Table)
	assert.Equal(t, occurrenceID, cue.OccurrenceID)
}

func TestHubBroadcastReachesOnlySubscribedOccurrence(t *testing.T) {
	hub := NewHub(config.RealtimeConfig{}, zaptest.NewLogger(t))
	subscribed := uuid.New()

	conn := dialTestHub(t, hub, subscribed)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(subscribed) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(ChangeCue{Table: "ratings", Action: "upsert", OccurrenceID: uuid.New()})
	hub.Broadcast(ChangeCue{Table: "ratings", Action: "upsert", OccurrenceID: subscribed})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var cue ChangeCue
	require.NoError(t, json.Unmarshal(payload, &cue))
	assert.Equal(t, subscribed, cue.OccurrenceID)
}

func TestHubUnsubscribesOnDisconnect(t *testing.T) {
	hub := NewHub(config.RealtimeConfig{}, zaptest.NewLogger(t))
	occurrenceID := uuid.New()

	conn := dialTestHub(t, hub, occurrenceID)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(occurrenceID) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.SubscriberCount(occurrenceID) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestEventBridge(t *testing.T) {
	hub := NewHub(config.RealtimeConfig{}, zaptest.NewLogger(t))
	bridge := NewEventBridge(hub)

	assert.ElementsMatch(t, []string{
		feedback.VoteCastEventType,
		feedback.RatingSubmittedEventType,
	}, bridge.EventTypes())

	occurrenceID := uuid.New()
	conn := dialTestHub(t, hub, occurrenceID)
	require.Eventually(t, func() bool {
		return hub.SubscriberCount(occurrenceID) == 1
	}, time.Second, 10*time.Millisecond)

	vote := feedback.NewVote(occurrenceID, uuid.New(), true)
	require.NoError(t, bridge.Handle(context.Background(), feedback.NewVoteCastEvent(vote)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var cue ChangeCue
	require.NoError(t, json.Unmarshal(payload, &cue))
	assert.Equal(t, "votes", cue.Table)
	assert.Equal(t, occurrenceID, cue.OccurrenceID)

	rating, err := feedback.NewRating(occurrenceID, uuid.New(), feedback.KeyDJ, 5)
	require.NoError(t, err)
	require.NoError(t, bridge.Handle(context.Background(), feedback.NewRatingSubmittedEvent(rating)))

	_, payload, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &cue))
	assert.Equal(t, "ratings", cue.Table)
}
