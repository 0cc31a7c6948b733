package persistence

import (
	"context"

	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFavoriteRepository implements feedback.FavoriteRepository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GormFavoriteRepository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add inserts the favorite, ignoring a duplicate (user, event) pair
func (r *GormFavoriteRepository) Add(ctx context.Context, favorite *feedback.Favorite) error {
	model := models.FavoriteModelFromDomain(favorite)
	return r.db.WithContext(ctx).
		Omit("Event").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		Create(model).Error
}

// Remove deletes the pair; removing an absent favorite is a no-op
func (r *GormFavoriteRepository) Remove(ctx context.Context, userID, eventID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&models.FavoriteModel{}).Error
}

// Exists reports whether the user has favorited the event
func (r *GormFavoriteRepository) Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FavoriteModel{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}

// ListEventIDsByUser lists the IDs of the user's favorited events,
// newest first
func (r *GormFavoriteRepository) ListEventIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.FavoriteModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("event_id", &ids).Error
	return ids, err
}

// DeleteByUser removes all of the user's favorites, used on account deletion
func (r *GormFavoriteRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.FavoriteModel{}).Error
}

var _ feedback.FavoriteRepository = (*GormFavoriteRepository)(nil)
