package identity

import (
	"context"
	"errors"

	"github.com/avaliaai/backend/internal/domain/feedback"
	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileService handles profile self-management and account purge
type ProfileService struct {
	profileRepo  identity.ProfileRepository
	voteRepo     feedback.VoteRepository
	ratingRepo   feedback.RatingRepository
	favoriteRepo feedback.FavoriteRepository
	resetRepo    identity.PasswordResetRepository
	blacklist    auth.TokenBlacklist
	jwtService   *auth.JWTService
	logger       *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo identity.ProfileRepository,
	voteRepo feedback.VoteRepository,
	ratingRepo feedback.RatingRepository,
	favoriteRepo feedback.FavoriteRepository,
	resetRepo identity.PasswordResetRepository,
	blacklist auth.TokenBlacklist,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo:  profileRepo,
		voteRepo:     voteRepo,
		ratingRepo:   ratingRepo,
		favoriteRepo: favoriteRepo,
		resetRepo:    resetRepo,
		blacklist:    blacklist,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// Get returns the caller's profile
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToProfileInfo(profile)
	return &info, nil
}

// UpdateDisplayName changes the caller's display name
func (s *ProfileService) UpdateDisplayName(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := profile.SetDisplayName(input.DisplayName); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	info := ToProfileInfo(profile)
	return &info, nil
}

// ChangeEmail changes the caller's email address
func (s *ProfileService) ChangeEmail(ctx context.Context, userID uuid.UUID, input ChangeEmailInput) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := profile.ChangeEmail(input.Email); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
		}
		return nil, err
	}
	info := ToProfileInfo(profile)
	return &info, nil
}

// ChangePassword changes the caller's password after verifying the
// current one, then invalidates every outstanding session
func (s *ProfileService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := profile.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return err
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, profile.ID.String(), ttl); err != nil {
		s.logger.Error("Failed to invalidate sessions after password change", zap.Error(err))
	}

	s.logger.Info("Password changed", zap.String("profile_id", profile.ID.String()))
	return nil
}

// Purge removes every trace of the user: votes, ratings, favorites,
// reset tokens and the profile row itself. Owner requests and created
// events fall away through database cascades. All sessions are
// invalidated.
func (s *ProfileService) Purge(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.profileRepo.FindByID(ctx, userID); err != nil {
		return err
	}

	if err := s.voteRepo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.ratingRepo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.favoriteRepo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.resetRepo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, userID); err != nil {
		return err
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		s.logger.Error("Failed to invalidate sessions after purge", zap.Error(err))
	}

	s.logger.Info("User data purged", zap.String("profile_id", userID.String()))
	return nil
}

// List returns profiles for the admin surface
func (s *ProfileService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProfileInfo], error) {
	page, err := s.profileRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]ProfileInfo, 0, len(page.Items))
	for i := range page.Items {
		infos = append(infos, ToProfileInfo(&page.Items[i]))
	}
	result := shared.NewPaginated(infos, page.Total, page.Page, page.PageSize)
	return &result, nil
}
