package events

import (
	"context"
	"errors"
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OccurrenceService serves the public discovery views and occurrence
// management
type OccurrenceService struct {
	eventRepo      events.EventRepository
	occurrenceRepo events.OccurrenceRepository
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewOccurrenceService creates a new occurrence service
func NewOccurrenceService(
	eventRepo events.EventRepository,
	occurrenceRepo events.OccurrenceRepository,
	logger *zap.Logger,
) *OccurrenceService {
	return &OccurrenceService{
		eventRepo:      eventRepo,
		occurrenceRepo: occurrenceRepo,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *OccurrenceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List serves one of the live/upcoming/past projections, with liveness
// of each row evaluated against the same instant used by the query
func (s *OccurrenceService) List(ctx context.Context, view string, filter shared.Filter) ([]ListingResult, error) {
	parsed, err := events.ParseOccurrenceView(view)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	listings, err := s.occurrenceRepo.ListView(ctx, parsed, now, filter)
	if err != nil {
		return nil, err
	}

	results := make([]ListingResult, 0, len(listings))
	for _, l := range listings {
		results = append(results, ToListingResult(l, now))
	}
	return results, nil
}

// GetInput identifies an occurrence for detail load, with an optional
// fallback hint used when the id no longer resolves: the event whose
// occurrence nearest to the hinted instant should be served instead.
type GetInput struct {
	OccurrenceID    uuid.UUID
	FallbackEventID *uuid.UUID
	FallbackAt      *time.Time
}

// Get loads one occurrence detail. A stale id with a fallback hint is
// resolved to the event's occurrence closest to the hinted time, so
// old deep links keep working after re-materialization.
func (s *OccurrenceService) Get(ctx context.Context, input GetInput) (*ListingResult, error) {
	now := time.Now()

	listing, err := s.occurrenceRepo.FindListing(ctx, input.OccurrenceID)
	if err == nil {
		result := ToListingResult(*listing, now)
		return &result, nil
	}
	if !errors.Is(err, shared.ErrNotFound) || input.FallbackEventID == nil {
		return nil, err
	}

	ref := now
	if input.FallbackAt != nil {
		ref = *input.FallbackAt
	}
	nearest, err := s.occurrenceRepo.FindNearest(ctx, *input.FallbackEventID, ref)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Resolved stale occurrence link to nearest",
		zap.String("requested", input.OccurrenceID.String()),
		zap.String("resolved", nearest.ID.String()))

	result := ToListingResult(*nearest, now)
	return &result, nil
}

// ListMine lists occurrences of the given owner's events
func (s *OccurrenceService) ListMine(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]ListingResult, error) {
	now := time.Now()
	listings, err := s.occurrenceRepo.ListByCreator(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	results := make([]ListingResult, 0, len(listings))
	for _, l := range listings {
		results = append(results, ToListingResult(l, now))
	}
	return results, nil
}

// Delete removes one occurrence. Only the event's creator and admins
// may delete; votes and ratings on the occurrence go with it through
// database cascades.
func (s *OccurrenceService) Delete(ctx context.Context, occurrenceID, actorID uuid.UUID, actorIsAdmin bool) error {
	occ, err := s.occurrenceRepo.FindByID(ctx, occurrenceID)
	if err != nil {
		return err
	}
	ev, err := s.eventRepo.FindByID(ctx, occ.EventID)
	if err != nil {
		return err
	}
	if !ev.CanBeManagedBy(actorID, actorIsAdmin) {
		return shared.ErrForbidden
	}

	if err := s.occurrenceRepo.Delete(ctx, occ.ID); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewOccurrenceDeletedEvent(occ)); err != nil {
			s.logger.Warn("Failed to publish occurrence deletion", zap.Error(err))
		}
	}
	return nil
}
