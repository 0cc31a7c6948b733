package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProfileRepository implements identity.ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a profile by its email, matched case-insensitively
func (r *GormProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	var model models.ProfileModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns profiles with pagination, for the admin console
func (r *GormProfileRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[identity.Profile], error) {
	query := r.db.WithContext(ctx).Model(&models.ProfileModel{})
	if filter.Search != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("email LIKE ? OR LOWER(display_name) LIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	filter = normalizePage(filter)
	query = applyPagination(query, filter)
	query = query.Order(sortClause(filter, ProfileSortFields, "created_at"))

	var profileModels []models.ProfileModel
	if err := query.Find(&profileModels).Error; err != nil {
		return nil, err
	}

	profiles := make([]identity.Profile, len(profileModels))
	for i, model := range profileModels {
		profiles[i] = *model.ToDomain()
	}

	result := shared.NewPaginated(profiles, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save persists a profile, mapping the unique email index to
// shared.ErrAlreadyExists
func (r *GormProfileRepository) Save(ctx context.Context, profile *identity.Profile) error {
	model := models.ProfileModelFromDomain(profile)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a profile. Owned rows follow via ON DELETE CASCADE.
func (r *GormProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProfileModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// isUniqueViolation recognizes unique index violations from both the
// postgres and sqlite drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func normalizePage(filter shared.Filter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	return filter
}

var _ identity.ProfileRepository = (*GormProfileRepository)(nil)
