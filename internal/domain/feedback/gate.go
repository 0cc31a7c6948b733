package feedback

import (
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Gate decides whether a vote or rating submission may proceed: the
// caller must be signed in and the occurrence must be live at the
// instant of the check. It runs before any persistence call, so gated
// submissions never reach the database, whose own constraints still
// independently reject writes that race past the live boundary.
func Gate(userID uuid.UUID, window events.Window, now time.Time) error {
	if userID == uuid.Nil {
		return shared.ErrSignInRequired
	}
	if !window.IsLiveAt(now) {
		return shared.ErrNotLive
	}
	return nil
}
