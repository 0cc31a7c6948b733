package feedback

import (
	"time"

	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/google/uuid"
)

// CastVoteInput contains the input for a vote submission
type CastVoteInput struct {
	OccurrenceID uuid.UUID
	UserID       uuid.UUID
	Upvote       bool
}

// VoteResult echoes the accepted vote so the client can update its
// local state optimistically while aggregates are refreshed by query
type VoteResult struct {
	OccurrenceID uuid.UUID
	Upvote       bool
}

// SubmitRatingInput contains the input for a rating submission
type SubmitRatingInput struct {
	OccurrenceID uuid.UUID
	UserID       uuid.UUID
	Key          string
	Score        int
}

// RatingResult echoes the accepted rating
type RatingResult struct {
	OccurrenceID uuid.UUID
	Key          feedback.RatingKey
	Score        int
}

// OccurrenceFeedbackResult is the reconciler payload: liveness,
// aggregates from the backend's current truth, and, when the caller
// is signed in, that user's prior selections so controls pre-select.
type OccurrenceFeedbackResult struct {
	OccurrenceID uuid.UUID
	Live         bool
	StartsAt     *time.Time
	EndsAt       *time.Time
	Votes        feedback.VoteTally
	Averages     feedback.RatingAverages

	// Caller's prior selections; nil / empty for anonymous callers
	UserVote    *bool
	UserRatings map[feedback.RatingKey]int
}

// FavoriteEventResult is one favorited event in the caller's list
type FavoriteEventResult struct {
	EventID  uuid.UUID
	Title    string
	Venue    string
	ImageURL string
}
