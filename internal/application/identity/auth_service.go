package identity

import (
	"context"
	"errors"

	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles signup, signin, token refresh and the password
// reset flow
type AuthService struct {
	profileRepo identity.ProfileRepository
	resetRepo   identity.PasswordResetRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	profileRepo identity.ProfileRepository,
	resetRepo identity.PasswordResetRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		resetRepo:   resetRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// Signup registers a new account with the default user role and signs
// it in
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	profile, err := identity.NewProfile(input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
		}
		return nil, err
	}

	s.logger.Info("Profile registered",
		zap.String("profile_id", profile.ID.String()),
		zap.String("email", profile.Email))

	return s.issueTokens(profile)
}

// Signin authenticates by email and password
func (s *AuthService) Signin(ctx context.Context, input SigninInput) (*AuthResult, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !profile.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", profile.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	return s.issueTokens(profile)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Blacklist lookup failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
	}
	if blacklisted {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Error("Blacklist lookup failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
	}
	if invalidated {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PROFILE_NOT_FOUND", "Account no longer exists")
		}
		return nil, err
	}

	return s.issueTokens(profile)
}

// Signout revokes the presented tokens for their remaining lifetime
func (s *AuthService) Signout(ctx context.Context, input SignoutInput) error {
	if input.AccessJTI != "" && input.AccessTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.AccessJTI, input.AccessTTL); err != nil {
			s.logger.Error("Failed to blacklist access token", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to sign out")
		}
	}
	if input.RefreshJTI != "" && input.RefreshTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.RefreshJTI, input.RefreshTTL); err != nil {
			s.logger.Error("Failed to blacklist refresh token", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to sign out")
		}
	}

	s.logger.Info("Signed out", zap.String("user_id", input.UserID.String()))
	return nil
}

// ParseRefreshToken validates a refresh token and returns its claims,
// so the interface layer can revoke it by jti on sign-out
func (s *AuthService) ParseRefreshToken(token string) (*auth.Claims, error) {
	return s.jwtService.ValidateRefreshToken(token)
}

// Me returns the profile behind a validated token
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToProfileInfo(profile)
	return &info, nil
}

// RequestPasswordReset issues a single-use reset token for the account
// behind the email. An unknown email yields no error and no token, so
// the endpoint cannot be used to probe which emails are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*PasswordResetRequestResult, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil, nil
		}
		return nil, err
	}

	// A new request supersedes any outstanding token
	if err := s.resetRepo.DeleteByUser(ctx, profile.ID); err != nil {
		return nil, err
	}

	token, plaintext, err := identity.NewPasswordResetToken(profile.ID)
	if err != nil {
		return nil, err
	}
	if err := s.resetRepo.Save(ctx, token); err != nil {
		return nil, err
	}

	s.logger.Info("Password reset token issued", zap.String("profile_id", profile.ID.String()))

	return &PasswordResetRequestResult{
		Token:     plaintext,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// ConfirmPasswordReset consumes a reset token and sets the new
// password. Every token the user holds is invalidated afterwards.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, input PasswordResetConfirmInput) error {
	token, err := s.resetRepo.FindByTokenHash(ctx, identity.HashResetToken(input.Token))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("TOKEN_INVALID", "Invalid or expired reset token")
		}
		return err
	}

	if err := token.Consume(); err != nil {
		return err
	}

	profile, err := s.profileRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	if err := profile.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return err
	}
	if err := s.resetRepo.DeleteByUser(ctx, profile.ID); err != nil {
		return err
	}

	// Force re-authentication everywhere the old password was in use
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, profile.ID.String(), ttl); err != nil {
		s.logger.Error("Failed to invalidate sessions after reset", zap.Error(err))
	}

	s.logger.Info("Password reset completed", zap.String("profile_id", profile.ID.String()))
	return nil
}

func (s *AuthService) issueTokens(profile *identity.Profile) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: profile.ID,
		Email:  profile.Email,
		Role:   string(profile.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		Profile:               ToProfileInfo(profile),
	}, nil
}
