package feedback

import (
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants. The realtime feed subscribes to these and
// pushes refetch cues to occurrence watchers.
const (
	VoteCastEventType        = "feedback.vote.cast"
	RatingSubmittedEventType = "feedback.rating.submitted"
	FavoriteToggledEventType = "feedback.favorite.toggled"
)

// VoteCastEvent is raised whenever a vote is inserted or replaced
type VoteCastEvent struct {
	shared.BaseDomainEvent
	OccurrenceID uuid.UUID `json:"occurrence_id"`
	UserID       uuid.UUID `json:"user_id"`
	Upvote       bool      `json:"upvote"`
}

// NewVoteCastEvent creates a new VoteCastEvent
func NewVoteCastEvent(v *Vote) *VoteCastEvent {
	return &VoteCastEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(VoteCastEventType, "Vote", v.ID),
		OccurrenceID:    v.OccurrenceID,
		UserID:          v.UserID,
		Upvote:          v.Upvote,
	}
}

// RatingSubmittedEvent is raised whenever a rating is inserted or replaced
type RatingSubmittedEvent struct {
	shared.BaseDomainEvent
	OccurrenceID uuid.UUID `json:"occurrence_id"`
	UserID       uuid.UUID `json:"user_id"`
	Key          RatingKey `json:"key"`
	Score        int       `json:"score"`
}

// NewRatingSubmittedEvent creates a new RatingSubmittedEvent
func NewRatingSubmittedEvent(r *Rating) *RatingSubmittedEvent {
	return &RatingSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(RatingSubmittedEventType, "Rating", r.ID),
		OccurrenceID:    r.OccurrenceID,
		UserID:          r.UserID,
		Key:             r.Key,
		Score:           r.Score,
	}
}

// FavoriteToggledEvent is raised when a favorite is added or removed
type FavoriteToggledEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID `json:"user_id"`
	ParentEventID uuid.UUID `json:"event_id"`
	Favorited     bool      `json:"favorited"`
}

// NewFavoriteToggledEvent creates a new FavoriteToggledEvent
func NewFavoriteToggledEvent(userID, eventID uuid.UUID, favorited bool) *FavoriteToggledEvent {
	return &FavoriteToggledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(FavoriteToggledEventType, "Favorite", eventID),
		UserID:          userID,
		ParentEventID:   eventID,
		Favorited:       favorited,
	}
}
