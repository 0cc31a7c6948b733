package persistence

import (
	"context"
	"errors"

	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVoteRepository implements feedback.VoteRepository using GORM
type GormVoteRepository struct {
	db *gorm.DB
}

// NewGormVoteRepository creates a new GormVoteRepository
func NewGormVoteRepository(db *gorm.DB) *GormVoteRepository {
	return &GormVoteRepository{db: db}
}

// Upsert inserts the vote or replaces the direction of the user's
// existing vote on the same occurrence
func (r *GormVoteRepository) Upsert(ctx context.Context, vote *feedback.Vote) error {
	model := models.VoteModelFromDomain(vote)
	return r.db.WithContext(ctx).
		Omit("Occurrence").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "occurrence_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"upvote", "updated_at"}),
		}).
		Create(model).Error
}

// FindByOccurrenceAndUser finds the user's vote on an occurrence
func (r *GormVoteRepository) FindByOccurrenceAndUser(ctx context.Context, occurrenceID, userID uuid.UUID) (*feedback.Vote, error) {
	var model models.VoteModel
	err := r.db.WithContext(ctx).
		Where("occurrence_id = ? AND user_id = ?", occurrenceID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// TallyByOccurrence counts up- and downvotes for an occurrence
func (r *GormVoteRepository) TallyByOccurrence(ctx context.Context, occurrenceID uuid.UUID) (feedback.VoteTally, error) {
	return r.tally(r.db.WithContext(ctx).
		Model(&models.VoteModel{}).
		Where("occurrence_id = ?", occurrenceID))
}

// TallyByEvent counts votes across every occurrence of an event
func (r *GormVoteRepository) TallyByEvent(ctx context.Context, eventID uuid.UUID) (feedback.VoteTally, error) {
	return r.tally(r.db.WithContext(ctx).
		Model(&models.VoteModel{}).
		Joins("JOIN occurrences ON occurrences.id = votes.occurrence_id").
		Where("occurrences.event_id = ?", eventID))
}

// DeleteByUser removes all of the user's votes, used on account deletion
func (r *GormVoteRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.VoteModel{}).Error
}

func (r *GormVoteRepository) tally(query *gorm.DB) (feedback.VoteTally, error) {
	var tally feedback.VoteTally
	err := query.
		Select("COALESCE(SUM(CASE WHEN upvote THEN 1 ELSE 0 END), 0) AS up, " +
			"COALESCE(SUM(CASE WHEN upvote THEN 0 ELSE 1 END), 0) AS down").
		Scan(&tally).Error
	return tally, err
}

var _ feedback.VoteRepository = (*GormVoteRepository)(nil)
