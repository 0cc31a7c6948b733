package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPasswordResetRepository implements identity.PasswordResetRepository using GORM
type GormPasswordResetRepository struct {
	db *gorm.DB
}

// NewGormPasswordResetRepository creates a new GormPasswordResetRepository
func NewGormPasswordResetRepository(db *gorm.DB) *GormPasswordResetRepository {
	return &GormPasswordResetRepository{db: db}
}

// FindByTokenHash finds a reset token by the hash of its plaintext
func (r *GormPasswordResetRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*identity.PasswordResetToken, error) {
	var model models.PasswordResetModel
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists a reset token
func (r *GormPasswordResetRepository) Save(ctx context.Context, token *identity.PasswordResetToken) error {
	model := models.PasswordResetModelFromDomain(token)
	return r.db.WithContext(ctx).Omit("User").Save(model).Error
}

// DeleteByUser removes every reset token issued to the user, so a
// completed reset invalidates older emails
func (r *GormPasswordResetRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.PasswordResetModel{}).Error
}

// DeleteExpired removes tokens past their expiry, returning the count
// for the cleanup job's log line
func (r *GormPasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.PasswordResetModel{})
	return result.RowsAffected, result.Error
}

var _ identity.PasswordResetRepository = (*GormPasswordResetRepository)(nil)
