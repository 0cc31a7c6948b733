package persistence

import (
	"context"
	"errors"

	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOwnerRequestRepository implements identity.OwnerRequestRepository using GORM
type GormOwnerRequestRepository struct {
	db *gorm.DB
}

// NewGormOwnerRequestRepository creates a new GormOwnerRequestRepository
func NewGormOwnerRequestRepository(db *gorm.DB) *GormOwnerRequestRepository {
	return &GormOwnerRequestRepository{db: db}
}

// FindByID finds an owner request by its ID
func (r *GormOwnerRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.OwnerRequest, error) {
	var model models.OwnerRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingByUser finds the user's pending request, if any
func (r *GormOwnerRequestRepository) FindPendingByUser(ctx context.Context, userID uuid.UUID) (*identity.OwnerRequest, error) {
	var model models.OwnerRequestModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(identity.OwnerRequestPending)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByStatus returns requests in the given status with pagination,
// oldest first so the review queue is fair
func (r *GormOwnerRequestRepository) ListByStatus(ctx context.Context, status identity.OwnerRequestStatus, filter shared.Filter) (*shared.Paginated[identity.OwnerRequest], error) {
	query := r.db.WithContext(ctx).
		Model(&models.OwnerRequestModel{}).
		Where("status = ?", string(status))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	filter = normalizePage(filter)
	query = applyPagination(query, filter)
	query = query.Order("created_at ASC")

	var requestModels []models.OwnerRequestModel
	if err := query.Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]identity.OwnerRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = *model.ToDomain()
	}

	result := shared.NewPaginated(requests, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByUser lists all of the user's requests, newest first
func (r *GormOwnerRequestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*identity.OwnerRequest, error) {
	var requestModels []models.OwnerRequestModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requestModels).Error
	if err != nil {
		return nil, err
	}

	requests := make([]*identity.OwnerRequest, len(requestModels))
	for i := range requestModels {
		requests[i] = requestModels[i].ToDomain()
	}
	return requests, nil
}

// Save persists an owner request. The partial unique index on pending
// requests maps to shared.ErrAlreadyExists.
func (r *GormOwnerRequestRepository) Save(ctx context.Context, request *identity.OwnerRequest) error {
	model := models.OwnerRequestModelFromDomain(request)
	if err := r.db.WithContext(ctx).Omit("User").Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

var _ identity.OwnerRequestRepository = (*GormOwnerRequestRepository)(nil)
