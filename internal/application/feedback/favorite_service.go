package feedback

import (
	"context"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FavoriteService handles event bookmarks. Unlike votes and ratings,
// favoriting is not gated on liveness: any signed-in user may bookmark
// any event at any time.
type FavoriteService struct {
	favoriteRepo   feedback.FavoriteRepository
	eventRepo      events.EventRepository
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(
	favoriteRepo feedback.FavoriteRepository,
	eventRepo events.EventRepository,
	logger *zap.Logger,
) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		eventRepo:    eventRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *FavoriteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Add bookmarks an event for the user. Adding twice is a no-op, so a
// double toggle restores the original state.
func (s *FavoriteService) Add(ctx context.Context, userID, eventID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.ErrSignInRequired
	}
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return err
	}

	if err := s.favoriteRepo.Add(ctx, feedback.NewFavorite(userID, eventID)); err != nil {
		return err
	}

	s.publishToggle(ctx, userID, eventID, true)
	return nil
}

// Remove drops the bookmark. Removing an absent favorite is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, userID, eventID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.ErrSignInRequired
	}

	if err := s.favoriteRepo.Remove(ctx, userID, eventID); err != nil {
		return err
	}

	s.publishToggle(ctx, userID, eventID, false)
	return nil
}

// List returns the user's favorited events, newest bookmark first
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]FavoriteEventResult, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrSignInRequired
	}

	eventIDs, err := s.favoriteRepo.ListEventIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(eventIDs) == 0 {
		return []FavoriteEventResult{}, nil
	}

	list, err := s.eventRepo.FindByIDs(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*events.Event, len(list))
	for i := range list {
		byID[list[i].ID] = &list[i]
	}

	// Preserve bookmark order; skip ids whose event has since vanished
	results := make([]FavoriteEventResult, 0, len(eventIDs))
	for _, id := range eventIDs {
		ev, ok := byID[id]
		if !ok {
			continue
		}
		results = append(results, FavoriteEventResult{
			EventID:  ev.ID,
			Title:    ev.Title,
			Venue:    ev.Venue,
			ImageURL: ev.ImageURL,
		})
	}
	return results, nil
}

func (s *FavoriteService) publishToggle(ctx context.Context, userID, eventID uuid.UUID, favorited bool) {
	if s.eventPublisher == nil {
		return
	}
	event := feedback.NewFavoriteToggledEvent(userID, eventID, favorited)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish favorite toggle", zap.Error(err))
	}
}
