package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appfeedback "github.com/avaliaai/backend/internal/application/feedback"
	"github.com/avaliaai/backend/internal/domain/events"
	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/auth"
	"github.com/avaliaai/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOccurrenceRepository is a mock of events.OccurrenceRepository
type MockOccurrenceRepository struct {
	mock.Mock
}

func (m *MockOccurrenceRepository) FindByID(ctx context.Context, id uuid.UUID) (*events.Occurrence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.Occurrence), args.Error(1)
}

func (m *MockOccurrenceRepository) FindListing(ctx context.Context, id uuid.UUID) (*events.OccurrenceListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.OccurrenceListing), args.Error(1)
}

func (m *MockOccurrenceRepository) ListView(ctx context.Context, view events.OccurrenceView, now time.Time, filter shared.Filter) ([]events.OccurrenceListing, error) {
	args := m.Called(ctx, view, now, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]events.OccurrenceListing), args.Error(1)
}

func (m *MockOccurrenceRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID, filter shared.Filter) ([]events.OccurrenceListing, error) {
	args := m.Called(ctx, createdBy, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]events.OccurrenceListing), args.Error(1)
}

func (m *MockOccurrenceRepository) FindNearest(ctx context.Context, eventID uuid.UUID, ref time.Time) (*events.OccurrenceListing, error) {
	args := m.Called(ctx, eventID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.OccurrenceListing), args.Error(1)
}

func (m *MockOccurrenceRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]events.Occurrence, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]events.Occurrence), args.Error(1)
}

func (m *MockOccurrenceRepository) Save(ctx context.Context, occurrence *events.Occurrence) error {
	args := m.Called(ctx, occurrence)
	return args.Error(0)
}

func (m *MockOccurrenceRepository) SaveAll(ctx context.Context, occurrences []*events.Occurrence) error {
	args := m.Called(ctx, occurrences)
	return args.Error(0)
}

func (m *MockOccurrenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOccurrenceRepository) DeleteFutureByEvent(ctx context.Context, eventID uuid.UUID, after time.Time) error {
	args := m.Called(ctx, eventID, after)
	return args.Error(0)
}

// MockVoteRepository is a mock of feedback.VoteRepository
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Upsert(ctx context.Context, vote *feedback.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepository) FindByOccurrenceAndUser(ctx context.Context, occurrenceID, userID uuid.UUID) (*feedback.Vote, error) {
	args := m.Called(ctx, occurrenceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feedback.Vote), args.Error(1)
}

func (m *MockVoteRepository) TallyByOccurrence(ctx context.Context, occurrenceID uuid.UUID) (feedback.VoteTally, error) {
	args := m.Called(ctx, occurrenceID)
	return args.Get(0).(feedback.VoteTally), args.Error(1)
}

func (m *MockVoteRepository) TallyByEvent(ctx context.Context, eventID uuid.UUID) (feedback.VoteTally, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(feedback.VoteTally), args.Error(1)
}

func (m *MockVoteRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockRatingRepository is a mock of feedback.RatingRepository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Upsert(ctx context.Context, rating *feedback.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}

func (m *MockRatingRepository) FindByOccurrenceAndUser(ctx context.Context, occurrenceID, userID uuid.UUID) ([]feedback.Rating, error) {
	args := m.Called(ctx, occurrenceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]feedback.Rating), args.Error(1)
}

func (m *MockRatingRepository) AveragesByOccurrence(ctx context.Context, occurrenceID uuid.UUID) (feedback.RatingAverages, error) {
	args := m.Called(ctx, occurrenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(feedback.RatingAverages), args.Error(1)
}

func (m *MockRatingRepository) AveragesByEvent(ctx context.Context, eventID uuid.UUID) (feedback.RatingAverages, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(feedback.RatingAverages), args.Error(1)
}

func (m *MockRatingRepository) RecentByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]feedback.RecentRating, error) {
	args := m.Called(ctx, eventID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]feedback.RecentRating), args.Error(1)
}

func (m *MockRatingRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type feedbackTestEnv struct {
	occurrenceRepo *MockOccurrenceRepository
	voteRepo       *MockVoteRepository
	ratingRepo     *MockRatingRepository
	jwtService     *auth.JWTService
	router         *gin.Engine
}

func newFeedbackTestEnv() *feedbackTestEnv {
	env := &feedbackTestEnv{
		occurrenceRepo: new(MockOccurrenceRepository),
		voteRepo:       new(MockVoteRepository),
		ratingRepo:     new(MockRatingRepository),
		jwtService:     newTestJWTService(),
	}
	service := appfeedback.NewFeedbackService(env.occurrenceRepo, env.voteRepo, env.ratingRepo, zap.NewNop())
	h := NewFeedbackHandler(service)

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	r := gin.New()
	authMW := middleware.JWTAuthMiddleware(env.jwtService)
	optionalMW := middleware.OptionalJWTAuthMiddleware(middleware.JWTMiddlewareConfig{JWTService: env.jwtService})
	r.PUT("/occurrences/:id/vote", authMW, h.CastVote)
	r.PUT("/occurrences/:id/ratings/:key", authMW, h.SubmitRating)
	r.GET("/occurrences/:id/feedback", optionalMW, h.GetFeedback)
	env.router = r
	return env
}

func putJSON(router *gin.Engine, path, token string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (env *feedbackTestEnv) signedInToken(t *testing.T) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	pair, err := env.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "dancer@example.com",
		Role:   "user",
	})
	require.NoError(t, err)
	return pair.AccessToken, userID
}

// liveOccurrence runs from an hour ago to an hour from now.
func liveOccurrence() *events.Occurrence {
	startsAt := time.Now().Add(-time.Hour)
	endsAt := time.Now().Add(time.Hour)
	return events.NewOccurrence(uuid.New(), &startsAt, &endsAt)
}

func endedOccurrence() *events.Occurrence {
	startsAt := time.Now().Add(-4 * time.Hour)
	endsAt := time.Now().Add(-2 * time.Hour)
	return events.NewOccurrence(uuid.New(), &startsAt, &endsAt)
}

func TestFeedbackHandler_CastVote(t *testing.T) {
	env := newFeedbackTestEnv()
	token, _ := env.signedInToken(t)
	occ := liveOccurrence()

	env.occurrenceRepo.On("FindByID", mock.Anything, occ.ID).Return(occ, nil)
	env.voteRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*feedback.Vote")).Return(nil)

	w := putJSON(env.router, "/occurrences/"+occ.ID.String()+"/vote", token, gin.H{"upvote": true})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"upvote":true`)
	env.voteRepo.AssertExpectations(t)
}

func TestFeedbackHandler_CastVote_NotLive(t *testing.T) {
	env := newFeedbackTestEnv()
	token, _ := env.signedInToken(t)
	occ := endedOccurrence()

	env.occurrenceRepo.On("FindByID", mock.Anything, occ.ID).Return(occ, nil)

	w := putJSON(env.router, "/occurrences/"+occ.ID.String()+"/vote", token, gin.H{"upvote": false})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_LIVE")
	env.voteRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestFeedbackHandler_CastVote_Anonymous(t *testing.T) {
	env := newFeedbackTestEnv()

	w := putJSON(env.router, "/occurrences/"+uuid.NewString()+"/vote", "", gin.H{"upvote": true})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedbackHandler_CastVote_UnknownOccurrence(t *testing.T) {
	env := newFeedbackTestEnv()
	token, _ := env.signedInToken(t)
	occID := uuid.New()

	env.occurrenceRepo.On("FindByID", mock.Anything, occID).Return(nil, shared.ErrNotFound)

	w := putJSON(env.router, "/occurrences/"+occID.String()+"/vote", token, gin.H{"upvote": true})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFeedbackHandler_SubmitRating(t *testing.T) {
	env := newFeedbackTestEnv()
	token, _ := env.signedInToken(t)
	occ := liveOccurrence()

	env.occurrenceRepo.On("FindByID", mock.Anything, occ.ID).Return(occ, nil)
	env.ratingRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*feedback.Rating")).Return(nil)

	w := putJSON(env.router, "/occurrences/"+occ.ID.String()+"/ratings/dj", token, gin.H{"score": 4})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"dj"`)
	assert.Contains(t, w.Body.String(), `"score":4`)
	env.ratingRepo.AssertExpectations(t)
}

func TestFeedbackHandler_SubmitRating_UnknownKey(t *testing.T) {
	env := newFeedbackTestEnv()
	token, _ := env.signedInToken(t)

	w := putJSON(env.router, "/occurrences/"+uuid.NewString()+"/ratings/vibes", token, gin.H{"score": 3})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_RATING_KEY")
}

func TestFeedbackHandler_SubmitRating_ScoreOutOfRange(t *testing.T) {
	env := newFeedbackTestEnv()
	token, _ := env.signedInToken(t)

	w := putJSON(env.router, "/occurrences/"+uuid.NewString()+"/ratings/dj", token, gin.H{"score": 6})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
}

func TestFeedbackHandler_GetFeedback_Anonymous(t *testing.T) {
	env := newFeedbackTestEnv()
	occ := liveOccurrence()

	env.occurrenceRepo.On("FindByID", mock.Anything, occ.ID).Return(occ, nil)
	env.voteRepo.On("TallyByOccurrence", mock.Anything, occ.ID).Return(feedback.VoteTally{Up: 12, Down: 3}, nil)
	env.ratingRepo.On("AveragesByOccurrence", mock.Anything, occ.ID).Return(feedback.RatingAverages{feedback.KeyDJ: 4.2}, nil)

	req := httptest.NewRequest(http.MethodGet, "/occurrences/"+occ.ID.String()+"/feedback", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"live":true`)
	assert.Contains(t, w.Body.String(), `"up":12`)
	assert.NotContains(t, w.Body.String(), "user_vote")
	env.voteRepo.AssertNotCalled(t, "FindByOccurrenceAndUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestFeedbackHandler_GetFeedback_SignedIn(t *testing.T) {
	env := newFeedbackTestEnv()
	token, userID := env.signedInToken(t)
	occ := liveOccurrence()

	vote := feedback.NewVote(occ.ID, userID, true)
	rating, err := feedback.NewRating(occ.ID, userID, feedback.KeyFila, 2)
	require.NoError(t, err)

	env.occurrenceRepo.On("FindByID", mock.Anything, occ.ID).Return(occ, nil)
	env.voteRepo.On("TallyByOccurrence", mock.Anything, occ.ID).Return(feedback.VoteTally{Up: 1}, nil)
	env.ratingRepo.On("AveragesByOccurrence", mock.Anything, occ.ID).Return(feedback.RatingAverages{}, nil)
	env.voteRepo.On("FindByOccurrenceAndUser", mock.Anything, occ.ID, userID).Return(vote, nil)
	env.ratingRepo.On("FindByOccurrenceAndUser", mock.Anything, occ.ID, userID).Return([]feedback.Rating{*rating}, nil)

	req := httptest.NewRequest(http.MethodGet, "/occurrences/"+occ.ID.String()+"/feedback", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_vote":true`)
	assert.Contains(t, w.Body.String(), `"fila":2`)
}
