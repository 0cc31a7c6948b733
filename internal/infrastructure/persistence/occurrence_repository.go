package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOccurrenceRepository implements events.OccurrenceRepository using GORM
type GormOccurrenceRepository struct {
	db *gorm.DB
}

// NewGormOccurrenceRepository creates a new GormOccurrenceRepository
func NewGormOccurrenceRepository(db *gorm.DB) *GormOccurrenceRepository {
	return &GormOccurrenceRepository{db: db}
}

const listingSelect = "occurrences.id, occurrences.event_id, occurrences.starts_at, occurrences.ends_at, " +
	"events.title, events.venue, events.description, events.image_url, events.created_by"

func (r *GormOccurrenceRepository) listingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.OccurrenceModel{}).
		Select(listingSelect).
		Joins("JOIN events ON events.id = occurrences.event_id")
}

// FindByID finds an occurrence by its ID
func (r *GormOccurrenceRepository) FindByID(ctx context.Context, id uuid.UUID) (*events.Occurrence, error) {
	var model models.OccurrenceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindListing finds an occurrence joined with its event
func (r *GormOccurrenceRepository) FindListing(ctx context.Context, id uuid.UUID) (*events.OccurrenceListing, error) {
	var row models.OccurrenceListingRow
	err := r.listingQuery(ctx).Where("occurrences.id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	listing := row.ToDomain()
	return &listing, nil
}

// ListView serves the live/upcoming/past discovery projections.
// Liveness is evaluated against the caller's now on every query, with
// a missing bound relaxing its side of the window.
func (r *GormOccurrenceRepository) ListView(ctx context.Context, view events.OccurrenceView, now time.Time, filter shared.Filter) ([]events.OccurrenceListing, error) {
	query := r.listingQuery(ctx)

	switch view {
	case events.ViewLive:
		query = query.
			Where("occurrences.starts_at IS NULL OR occurrences.starts_at <= ?", now).
			Where("occurrences.ends_at IS NULL OR occurrences.ends_at >= ?", now)
	case events.ViewUpcoming:
		query = query.Where("occurrences.starts_at > ?", now)
	case events.ViewPast:
		query = query.Where("occurrences.ends_at IS NOT NULL AND occurrences.ends_at < ?", now)
	default:
		return nil, shared.NewDomainError("INVALID_VIEW", "View must be one of live, upcoming, past")
	}

	if filter.Search != "" {
		query = query.Where("events.search_text LIKE ?", "%"+models.FoldText(filter.Search)+"%")
	}
	query = applyPagination(query, filter)

	// Upcoming reads soonest-first, the others most-recent-first
	if filter.OrderBy == "" {
		if view == events.ViewUpcoming {
			query = query.Order("occurrences.starts_at ASC")
		} else {
			query = query.Order("occurrences.starts_at DESC")
		}
	} else {
		query = query.Order("occurrences." + sortClause(filter, OccurrenceSortFields, "starts_at"))
	}

	return r.scanListings(query)
}

// ListByCreator lists occurrences of events created by the given user
func (r *GormOccurrenceRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID, filter shared.Filter) ([]events.OccurrenceListing, error) {
	query := r.listingQuery(ctx).Where("events.created_by = ?", createdBy)
	query = applyPagination(query, filter)
	query = query.Order("occurrences." + sortClause(filter, OccurrenceSortFields, "starts_at"))
	return r.scanListings(query)
}

// FindNearest returns the event's occurrence whose start is closest to
// the reference instant. Falls back to any occurrence when none carry
// a start time.
func (r *GormOccurrenceRepository) FindNearest(ctx context.Context, eventID uuid.UUID, ref time.Time) (*events.OccurrenceListing, error) {
	var before, after models.OccurrenceListingRow

	errBefore := r.listingQuery(ctx).
		Where("occurrences.event_id = ? AND occurrences.starts_at IS NOT NULL AND occurrences.starts_at <= ?", eventID, ref).
		Order("occurrences.starts_at DESC").
		Take(&before).Error
	errAfter := r.listingQuery(ctx).
		Where("occurrences.event_id = ? AND occurrences.starts_at > ?", eventID, ref).
		Order("occurrences.starts_at ASC").
		Take(&after).Error

	switch {
	case errBefore == nil && errAfter == nil:
		distBefore := ref.Sub(*before.StartsAt)
		distAfter := after.StartsAt.Sub(ref)
		if distAfter < distBefore {
			listing := after.ToDomain()
			return &listing, nil
		}
		listing := before.ToDomain()
		return &listing, nil
	case errBefore == nil:
		listing := before.ToDomain()
		return &listing, nil
	case errAfter == nil:
		listing := after.ToDomain()
		return &listing, nil
	}

	if !errors.Is(errBefore, gorm.ErrRecordNotFound) {
		return nil, errBefore
	}
	if !errors.Is(errAfter, gorm.ErrRecordNotFound) {
		return nil, errAfter
	}

	// Only unscheduled occurrences remain, if any
	var any models.OccurrenceListingRow
	err := r.listingQuery(ctx).
		Where("occurrences.event_id = ?", eventID).
		Order("occurrences.created_at DESC").
		Take(&any).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	listing := any.ToDomain()
	return &listing, nil
}

// ListByEvent lists all occurrences for an event, soonest first
func (r *GormOccurrenceRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]events.Occurrence, error) {
	var occModels []models.OccurrenceModel
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("starts_at ASC").
		Find(&occModels).Error; err != nil {
		return nil, err
	}

	result := make([]events.Occurrence, len(occModels))
	for i, model := range occModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Save persists an occurrence
func (r *GormOccurrenceRepository) Save(ctx context.Context, occurrence *events.Occurrence) error {
	model := models.OccurrenceModelFromDomain(occurrence)
	return r.db.WithContext(ctx).Omit("Event").Save(model).Error
}

// SaveAll inserts occurrences, skipping rows whose (event_id, starts_at)
// already exists so re-materialization never duplicates
func (r *GormOccurrenceRepository) SaveAll(ctx context.Context, occurrences []*events.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}

	occModels := make([]*models.OccurrenceModel, len(occurrences))
	for i, o := range occurrences {
		occModels[i] = models.OccurrenceModelFromDomain(o)
	}

	return r.db.WithContext(ctx).
		Omit("Event").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "starts_at"}},
			DoNothing: true,
		}).
		Create(occModels).Error
}

// Delete removes an occurrence
func (r *GormOccurrenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OccurrenceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteFutureByEvent removes materialized occurrences starting after
// the given instant, ahead of re-materialization
func (r *GormOccurrenceRepository) DeleteFutureByEvent(ctx context.Context, eventID uuid.UUID, after time.Time) error {
	return r.db.WithContext(ctx).
		Where("event_id = ? AND starts_at > ?", eventID, after).
		Delete(&models.OccurrenceModel{}).Error
}

func (r *GormOccurrenceRepository) scanListings(query *gorm.DB) ([]events.OccurrenceListing, error) {
	var rows []models.OccurrenceListingRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	listings := make([]events.OccurrenceListing, len(rows))
	for i, row := range rows {
		listings[i] = row.ToDomain()
	}
	return listings, nil
}

var _ events.OccurrenceRepository = (*GormOccurrenceRepository)(nil)
