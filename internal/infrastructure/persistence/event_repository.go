package persistence

import (
	"context"
	"errors"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEventRepository implements events.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by its ID
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	var model models.EventModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCreator finds events created by the given user
func (r *GormEventRepository) FindByCreator(ctx context.Context, createdBy uuid.UUID, filter shared.Filter) ([]events.Event, error) {
	var eventModels []models.EventModel
	query := r.db.WithContext(ctx).Model(&models.EventModel{}).Where("created_by = ?", createdBy)
	query = applySearch(query, filter.Search)
	query = applyPagination(query, filter)
	query = query.Order(sortClause(filter, EventSortFields, "created_at"))

	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}

	result := make([]events.Event, len(eventModels))
	for i, model := range eventModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// FindByIDs finds multiple events by their IDs
func (r *GormEventRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]events.Event, error) {
	if len(ids) == 0 {
		return []events.Event{}, nil
	}

	var eventModels []models.EventModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&eventModels).Error; err != nil {
		return nil, err
	}

	result := make([]events.Event, len(eventModels))
	for i, model := range eventModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// FindRecurring finds all events with a weekly schedule
func (r *GormEventRepository) FindRecurring(ctx context.Context) ([]events.Event, error) {
	var eventModels []models.EventModel
	if err := r.db.WithContext(ctx).Where("recurring = ?", true).Find(&eventModels).Error; err != nil {
		return nil, err
	}

	result := make([]events.Event, len(eventModels))
	for i, model := range eventModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Save persists an event
func (r *GormEventRepository) Save(ctx context.Context, event *events.Event) error {
	model := models.EventModelFromDomain(event)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an event. Occurrences, votes, ratings and favorites
// follow via ON DELETE CASCADE.
func (r *GormEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EventModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ events.EventRepository = (*GormEventRepository)(nil)
