// Package realtime pushes feedback change cues to websocket subscribers.
// Clients receive which table changed for an occurrence, never the row
// itself, and refetch the aggregates over HTTP.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangeCue tells a subscriber that feedback changed for an occurrence.
type ChangeCue struct {
	Table        string    `json:"table"`  // "votes" or "ratings"
	Action       string    `json:"action"` // "upsert" or "delete"
	OccurrenceID uuid.UUID `json:"occurrence_id"`
}

// Hub fans change cues out to the clients subscribed to each occurrence.
type Hub struct {
	cfg    config.RealtimeConfig
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

// NewHub creates a new Hub
func NewHub(cfg config.RealtimeConfig, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[uuid.UUID]map[*Client]struct{}),
	}
}

func (h *Hub) register(occurrenceID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[occurrenceID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[occurrenceID] = set
	}
	set[client] = struct{}{}
}

func (h *Hub) unregister(occurrenceID uuid.UUID, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[occurrenceID]
	if !ok {
		return
	}
	if _, subscribed := set[client]; !subscribed {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, occurrenceID)
	}
	close(client.send)
}

// Broadcast sends the cue to every client subscribed to its occurrence.
// Clients whose send buffer is full are dropped rather than blocked on.
func (h *Hub) Broadcast(cue ChangeCue) {
	payload, err := json.Marshal(cue)
	if err != nil {
		h.logger.Error("Failed to encode change cue", zap.Error(err))
		return
	}

	h.mu.RLock()
	var stale []*Client
	for client := range h.clients[cue.OccurrenceID] {
		select {
		case client.send <- payload:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.logger.Warn("Dropping slow realtime subscriber",
			zap.String("occurrence_id", cue.OccurrenceID.String()))
		h.unregister(cue.OccurrenceID, client)
	}
}

// SubscriberCount returns how many clients follow the occurrence.
func (h *Hub) SubscriberCount(occurrenceID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[occurrenceID])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for occurrenceID, set := range h.clients {
		for client := range set {
			close(client.send)
		}
		delete(h.clients, occurrenceID)
	}
}
