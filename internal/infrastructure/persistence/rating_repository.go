package persistence

import (
	"context"

	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRatingRepository implements feedback.RatingRepository using GORM
type GormRatingRepository struct {
	db *gorm.DB
}

// NewGormRatingRepository creates a new GormRatingRepository
func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

// Upsert inserts the rating or replaces the score of the user's
// existing rating for the same occurrence and category
func (r *GormRatingRepository) Upsert(ctx context.Context, rating *feedback.Rating) error {
	model := models.RatingModelFromDomain(rating)
	return r.db.WithContext(ctx).
		Omit("Occurrence").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "occurrence_id"}, {Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).
		Create(model).Error
}

// FindByOccurrenceAndUser lists the user's ratings on an occurrence,
// at most one per category
func (r *GormRatingRepository) FindByOccurrenceAndUser(ctx context.Context, occurrenceID, userID uuid.UUID) ([]feedback.Rating, error) {
	var ratingModels []models.RatingModel
	err := r.db.WithContext(ctx).
		Where("occurrence_id = ? AND user_id = ?", occurrenceID, userID).
		Order("key ASC").
		Find(&ratingModels).Error
	if err != nil {
		return nil, err
	}

	ratings := make([]feedback.Rating, len(ratingModels))
	for i, model := range ratingModels {
		ratings[i] = *model.ToDomain()
	}
	return ratings, nil
}

// AveragesByOccurrence computes the mean score per category for an occurrence
func (r *GormRatingRepository) AveragesByOccurrence(ctx context.Context, occurrenceID uuid.UUID) (feedback.RatingAverages, error) {
	return r.averages(r.db.WithContext(ctx).
		Model(&models.RatingModel{}).
		Where("occurrence_id = ?", occurrenceID))
}

// AveragesByEvent computes the mean score per category across every
// occurrence of an event
func (r *GormRatingRepository) AveragesByEvent(ctx context.Context, eventID uuid.UUID) (feedback.RatingAverages, error) {
	return r.averages(r.db.WithContext(ctx).
		Model(&models.RatingModel{}).
		Joins("JOIN occurrences ON occurrences.id = ratings.occurrence_id").
		Where("occurrences.event_id = ?", eventID))
}

// RecentByEvent lists the newest ratings across an event's occurrences
// for the owner dashboard
func (r *GormRatingRepository) RecentByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]feedback.RecentRating, error) {
	if limit <= 0 {
		limit = 20
	}

	var recents []feedback.RecentRating
	err := r.db.WithContext(ctx).
		Model(&models.RatingModel{}).
		Select("occurrences.event_id, ratings.occurrence_id, ratings.key, ratings.score, ratings.created_at").
		Joins("JOIN occurrences ON occurrences.id = ratings.occurrence_id").
		Where("occurrences.event_id = ?", eventID).
		Order("ratings.created_at DESC").
		Limit(limit).
		Scan(&recents).Error
	return recents, err
}

// DeleteByUser removes all of the user's ratings, used on account deletion
func (r *GormRatingRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.RatingModel{}).Error
}

func (r *GormRatingRepository) averages(query *gorm.DB) (feedback.RatingAverages, error) {
	var rows []struct {
		Key string
		Avg float64
	}
	err := query.
		Select("key, AVG(score) AS avg").
		Group("key").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	averages := feedback.EmptyAverages()
	for _, row := range rows {
		averages[feedback.RatingKey(row.Key)] = row.Avg
	}
	return averages, nil
}

var _ feedback.RatingRepository = (*GormRatingRepository)(nil)
