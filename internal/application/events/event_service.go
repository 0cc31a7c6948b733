package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/avaliaai/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventService handles event lifecycle operations for owners and admins
type EventService struct {
	eventRepo      events.EventRepository
	occurrenceRepo events.OccurrenceRepository
	voteRepo       feedback.VoteRepository
	ratingRepo     feedback.RatingRepository
	objectStorage  storage.ObjectStorage
	storageCfg     config.StorageConfig
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo events.EventRepository,
	occurrenceRepo events.OccurrenceRepository,
	voteRepo feedback.VoteRepository,
	ratingRepo feedback.RatingRepository,
	objectStorage storage.ObjectStorage,
	storageCfg config.StorageConfig,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		occurrenceRepo: occurrenceRepo,
		voteRepo:       voteRepo,
		ratingRepo:     ratingRepo,
		objectStorage:  objectStorage,
		storageCfg:     storageCfg,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *EventService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates an event with either a single or a weekly schedule.
// A single event gets its one occurrence row immediately; recurring
// events are materialized by the scheduler reacting to the created
// event.
func (s *EventService) Create(ctx context.Context, input CreateEventInput) (*EventResult, error) {
	var (
		ev  *events.Event
		err error
	)
	if input.Schedule.Recurring {
		ev, err = events.NewRecurringEvent(
			input.CreatedBy, input.Title, input.Venue,
			input.Schedule.RecurDays, input.Schedule.RecurStart, input.Schedule.RecurEnd,
			input.Schedule.ActiveFrom, input.Schedule.ActiveUntil,
		)
	} else {
		if input.Schedule.StartsAt == nil {
			return nil, shared.NewDomainError("INVALID_SCHEDULE", "A single event needs a start time")
		}
		ev, err = events.NewSingleEvent(
			input.CreatedBy, input.Title, input.Venue,
			*input.Schedule.StartsAt, input.Schedule.EndsAt,
		)
	}
	if err != nil {
		return nil, err
	}
	if input.Description != "" {
		ev.Description = strings.TrimSpace(input.Description)
	}

	if err := s.eventRepo.Save(ctx, ev); err != nil {
		return nil, err
	}

	if !ev.Recurring {
		if err := s.ensureSingleOccurrence(ctx, ev); err != nil {
			return nil, err
		}
	}

	s.publishEvents(ctx, ev)

	s.logger.Info("Event created",
		zap.String("event_id", ev.ID.String()),
		zap.String("title", ev.Title),
		zap.Bool("recurring", ev.Recurring))

	result := ToEventResult(ev)
	return &result, nil
}

// Get returns one event by id
func (s *EventService) Get(ctx context.Context, eventID uuid.UUID) (*EventResult, error) {
	ev, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	result := ToEventResult(ev)
	return &result, nil
}

// Update changes an event's details and, when a schedule is supplied,
// replaces its schedule. Only the creator and admins may update.
func (s *EventService) Update(ctx context.Context, eventID uuid.UUID, input UpdateEventInput) (*EventResult, error) {
	ev, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ev.CanBeManagedBy(input.ActorID, input.ActorIsAdmin) {
		return nil, shared.ErrForbidden
	}

	if err := ev.UpdateDetails(input.Title, input.Venue, input.Description); err != nil {
		return nil, err
	}

	scheduleChanged := false
	if input.Schedule != nil {
		if input.Schedule.Recurring {
			err = ev.UseWeeklySchedule(
				input.Schedule.RecurDays, input.Schedule.RecurStart, input.Schedule.RecurEnd,
				input.Schedule.ActiveFrom, input.Schedule.ActiveUntil,
			)
		} else {
			if input.Schedule.StartsAt == nil {
				return nil, shared.NewDomainError("INVALID_SCHEDULE", "A single event needs a start time")
			}
			err = ev.UseSingleSchedule(*input.Schedule.StartsAt, input.Schedule.EndsAt)
		}
		if err != nil {
			return nil, err
		}
		scheduleChanged = true
	}

	if err := s.eventRepo.Save(ctx, ev); err != nil {
		return nil, err
	}

	// A switch to a single schedule leaves stale future rows behind;
	// clear them and insert the new window. Recurring schedules are
	// re-materialized by the scheduler listening on the published
	// schedule-changed event.
	if scheduleChanged && !ev.Recurring {
		if err := s.occurrenceRepo.DeleteFutureByEvent(ctx, ev.ID, time.Now()); err != nil {
			return nil, err
		}
		if err := s.ensureSingleOccurrence(ctx, ev); err != nil {
			return nil, err
		}
	}

	s.publishEvents(ctx, ev)

	result := ToEventResult(ev)
	return &result, nil
}

// Delete removes an event. Occurrences, votes, ratings and favorites
// go with it through database cascades.
func (s *EventService) Delete(ctx context.Context, input DeleteEventInput) error {
	ev, err := s.eventRepo.FindByID(ctx, input.EventID)
	if err != nil {
		return err
	}
	if !ev.CanBeManagedBy(input.ActorID, input.ActorIsAdmin) {
		return shared.ErrForbidden
	}

	if err := s.eventRepo.Delete(ctx, ev.ID); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewEventDeletedEvent(ev.ID)); err != nil {
			s.logger.Warn("Failed to publish event deletion", zap.Error(err))
		}
	}

	s.logger.Info("Event deleted", zap.String("event_id", ev.ID.String()))
	return nil
}

// maximum cover size used when configuration leaves it unset
const defaultMaxCoverSize = 3 << 20

// UploadCover stores a cover image and writes its public URL back onto
// the event. Only images up to the configured size are accepted.
func (s *EventService) UploadCover(ctx context.Context, input UploadCoverInput) (*EventResult, error) {
	ev, err := s.eventRepo.FindByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if !ev.CanBeManagedBy(input.ActorID, input.ActorIsAdmin) {
		return nil, shared.ErrForbidden
	}

	maxSize := s.storageCfg.MaxCoverSize
	if maxSize <= 0 {
		maxSize = defaultMaxCoverSize
	}
	if int64(len(input.Data)) > maxSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("Cover image cannot exceed %d bytes", maxSize))
	}
	ext, ok := imageExtension(input.ContentType)
	if !ok {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Cover must be an image")
	}

	key := fmt.Sprintf("events/%s/cover/%s%s", ev.ID, uuid.New(), ext)
	url, err := s.objectStorage.Upload(ctx, key, input.Data, input.ContentType)
	if err != nil {
		s.logger.Error("Cover upload failed",
			zap.String("event_id", ev.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store cover image")
	}

	ev.SetCoverImage(url)
	if err := s.eventRepo.Save(ctx, ev); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, ev)

	result := ToEventResult(ev)
	return &result, nil
}

// Mine lists the events created by the given owner
func (s *EventService) Mine(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]EventResult, error) {
	list, err := s.eventRepo.FindByCreator(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	results := make([]EventResult, 0, len(list))
	for i := range list {
		results = append(results, ToEventResult(&list[i]))
	}
	return results, nil
}

// Stats returns the aggregate vote tally and per-category rating means
// across all occurrences of an event, recomputed from the stored rows.
func (s *EventService) Stats(ctx context.Context, eventID uuid.UUID) (*EventStatsResult, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}

	tally, err := s.voteRepo.TallyByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	averages, err := s.ratingRepo.AveragesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &EventStatsResult{
		EventID:  eventID,
		Votes:    tally,
		Averages: averages,
	}, nil
}

// RecentRatings returns the newest ratings across an event's
// occurrences for the owner dashboard
func (s *EventService) RecentRatings(ctx context.Context, eventID uuid.UUID, limit int) ([]RecentRatingResult, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}

	recent, err := s.ratingRepo.RecentByEvent(ctx, eventID, limit)
	if err != nil {
		return nil, err
	}
	results := make([]RecentRatingResult, 0, len(recent))
	for _, r := range recent {
		results = append(results, RecentRatingResult{
			EventID:      r.EventID,
			OccurrenceID: r.OccurrenceID,
			Key:          r.Key,
			Score:        r.Score,
			CreatedAt:    r.CreatedAt,
		})
	}
	return results, nil
}

// ensureSingleOccurrence inserts the one occurrence row of a
// non-recurring event. The (event_id, starts_at) unique index makes
// the insert idempotent.
func (s *EventService) ensureSingleOccurrence(ctx context.Context, ev *events.Event) error {
	occ := events.NewOccurrence(ev.ID, ev.StartsAt, ev.EndsAt)
	return s.occurrenceRepo.SaveAll(ctx, []*events.Occurrence{occ})
}

func (s *EventService) publishEvents(ctx context.Context, ev *events.Event) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range ev.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	ev.ClearDomainEvents()
}

// imageExtension maps an image content type to a file extension
func imageExtension(contentType string) (string, bool) {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg", true
	case "image/png":
		return ".png", true
	case "image/webp":
		return ".webp", true
	case "image/gif":
		return ".gif", true
	default:
		return "", false
	}
}
