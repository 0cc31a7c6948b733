package feedback

import (
	"context"

	"github.com/google/uuid"
)

// VoteRepository persists votes. Upsert keys on the unique
// (occurrence_id, user_id) pair: the last write wins.
type VoteRepository interface {
	Upsert(ctx context.Context, vote *Vote) error
	FindByOccurrenceAndUser(ctx context.Context, occurrenceID, userID uuid.UUID) (*Vote, error)
	TallyByOccurrence(ctx context.Context, occurrenceID uuid.UUID) (VoteTally, error)
	TallyByEvent(ctx context.Context, eventID uuid.UUID) (VoteTally, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// RatingRepository persists ratings. Upsert keys on the unique
// (occurrence_id, user_id, key) triple.
type RatingRepository interface {
	Upsert(ctx context.Context, rating *Rating) error
	FindByOccurrenceAndUser(ctx context.Context, occurrenceID, userID uuid.UUID) ([]Rating, error)
	AveragesByOccurrence(ctx context.Context, occurrenceID uuid.UUID) (RatingAverages, error)
	AveragesByEvent(ctx context.Context, eventID uuid.UUID) (RatingAverages, error)
	RecentByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]RecentRating, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// FavoriteRepository persists favorites.
type FavoriteRepository interface {
	// Add inserts the favorite, ignoring a duplicate (user, event) pair.
	Add(ctx context.Context, favorite *Favorite) error
	// Remove deletes the pair; removing an absent favorite is a no-op.
	Remove(ctx context.Context, userID, eventID uuid.UUID) error
	Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	ListEventIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
