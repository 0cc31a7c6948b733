package feedback

import (
	"time"

	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Vote is one user's up/down verdict on an occurrence. At most one row
// exists per (occurrence, user) pair; submitting again replaces the
// previous value via an upsert on that pair's unique index.
type Vote struct {
	shared.BaseAggregateRoot
	OccurrenceID uuid.UUID
	UserID       uuid.UUID
	Upvote       bool
}

// NewVote creates a vote for the given occurrence and user.
func NewVote(occurrenceID, userID uuid.UUID, upvote bool) *Vote {
	v := &Vote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OccurrenceID:      occurrenceID,
		UserID:            userID,
		Upvote:            upvote,
	}
	v.AddDomainEvent(NewVoteCastEvent(v))
	return v
}

// VoteTally is the aggregate vote count for an occurrence, always
// recomputed from the stored rows rather than maintained incrementally.
type VoteTally struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}

// Total returns the combined number of votes.
func (t VoteTally) Total() int64 {
	return t.Up + t.Down
}

// RecentRating is the owner-dashboard projection of a freshly submitted
// rating with its event context.
type RecentRating struct {
	EventID      uuid.UUID
	OccurrenceID uuid.UUID
	Key          RatingKey
	Score        int
	CreatedAt    time.Time
}
