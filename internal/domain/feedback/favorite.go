package feedback

import (
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Favorite bookmarks an event for a user, independent of any specific
// occurrence. One row per (user, event) pair; adding is idempotent and
// removing an absent favorite is a no-op, so a double toggle restores
// the original state.
type Favorite struct {
	shared.BaseAggregateRoot
	UserID  uuid.UUID
	EventID uuid.UUID
}

// NewFavorite creates a favorite for the given user and event.
func NewFavorite(userID, eventID uuid.UUID) *Favorite {
	return &Favorite{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		EventID:           eventID,
	}
}
