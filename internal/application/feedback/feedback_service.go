package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FeedbackService handles votes and ratings. Every submission passes
// the interaction gate before any persistence call: the caller must be
// signed in and the occurrence live at submission time.
type FeedbackService struct {
	occurrenceRepo events.OccurrenceRepository
	voteRepo       feedback.VoteRepository
	ratingRepo     feedback.RatingRepository
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(
	occurrenceRepo events.OccurrenceRepository,
	voteRepo feedback.VoteRepository,
	ratingRepo feedback.RatingRepository,
	logger *zap.Logger,
) *FeedbackService {
	return &FeedbackService{
		occurrenceRepo: occurrenceRepo,
		voteRepo:       voteRepo,
		ratingRepo:     ratingRepo,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *FeedbackService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CastVote records or replaces the caller's vote on an occurrence.
// Liveness is re-derived server-side at write time.
func (s *FeedbackService) CastVote(ctx context.Context, input CastVoteInput) (*VoteResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "feedback", "cast_vote",
		attribute.String("occurrence_id", input.OccurrenceID.String()))
	defer span.End()

	occ, err := s.occurrenceRepo.FindByID(ctx, input.OccurrenceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := feedback.Gate(input.UserID, occ.Window(), time.Now()); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	vote := feedback.NewVote(occ.ID, input.UserID, input.Upvote)
	if err := s.voteRepo.Upsert(ctx, vote); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, vote.GetDomainEvents())
	vote.ClearDomainEvents()

	return &VoteResult{OccurrenceID: occ.ID, Upvote: vote.Upvote}, nil
}

// SubmitRating records or replaces the caller's score for one category
// of an occurrence
func (s *FeedbackService) SubmitRating(ctx context.Context, input SubmitRatingInput) (*RatingResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "feedback", "submit_rating",
		attribute.String("occurrence_id", input.OccurrenceID.String()),
		attribute.String("rating_key", input.Key))
	defer span.End()

	key, err := feedback.ParseRatingKey(input.Key)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	occ, err := s.occurrenceRepo.FindByID(ctx, input.OccurrenceID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := feedback.Gate(input.UserID, occ.Window(), time.Now()); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	rating, err := feedback.NewRating(occ.ID, input.UserID, key, input.Score)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publish(ctx, rating.GetDomainEvents())
	rating.ClearDomainEvents()

	return &RatingResult{OccurrenceID: occ.ID, Key: rating.Key, Score: rating.Score}, nil
}

// GetOccurrenceFeedback returns, in one response, the occurrence's
// liveness, vote tallies and per-category means, plus the caller's own
// vote and scores when userID identifies a signed-in user (uuid.Nil
// means anonymous).
func (s *FeedbackService) GetOccurrenceFeedback(ctx context.Context, occurrenceID, userID uuid.UUID) (*OccurrenceFeedbackResult, error) {
	occ, err := s.occurrenceRepo.FindByID(ctx, occurrenceID)
	if err != nil {
		return nil, err
	}

	tally, err := s.voteRepo.TallyByOccurrence(ctx, occ.ID)
	if err != nil {
		return nil, err
	}
	averages, err := s.ratingRepo.AveragesByOccurrence(ctx, occ.ID)
	if err != nil {
		return nil, err
	}

	result := &OccurrenceFeedbackResult{
		OccurrenceID: occ.ID,
		Live:         occ.IsLiveAt(time.Now()),
		StartsAt:     occ.StartsAt,
		EndsAt:       occ.EndsAt,
		Votes:        tally,
		Averages:     averages,
	}

	if userID != uuid.Nil {
		vote, err := s.voteRepo.FindByOccurrenceAndUser(ctx, occ.ID, userID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if vote != nil {
			upvote := vote.Upvote
			result.UserVote = &upvote
		}

		ratings, err := s.ratingRepo.FindByOccurrenceAndUser(ctx, occ.ID, userID)
		if err != nil {
			return nil, err
		}
		if len(ratings) > 0 {
			result.UserRatings = make(map[feedback.RatingKey]int, len(ratings))
			for _, r := range ratings {
				result.UserRatings[r.Key] = r.Score
			}
		}
	}

	return result, nil
}

func (s *FeedbackService) publish(ctx context.Context, domainEvents []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range domainEvents {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
}
