package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appidentity "github.com/avaliaai/backend/internal/application/identity"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/auth"
	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/avaliaai/backend/internal/infrastructure/persistence"
)

func newAuthService(db *TestDB) *appidentity.AuthService {
	profiles := persistence.NewGormProfileRepository(db.DB)
	resets := persistence.NewGormPasswordResetRepository(db.DB)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-32-chars-long!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "avaliaai-integration",
	})
	return appidentity.NewAuthService(profiles, resets, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func TestSignupSigninRoundTrip(t *testing.T) {
	db := NewSharedTestDB(t)
	db.CleanTables()
	ctx := context.Background()

	svc := newAuthService(db)

	signedUp, err := svc.Signup(ctx, appidentity.SignupInput{
		Email:       "dancer@example.com",
		Password:    "s3nha-muito-forte",
		DisplayName: "Dancer",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signedUp.AccessToken)
	assert.NotEmpty(t, signedUp.RefreshToken)
	assert.Equal(t, "dancer@example.com", signedUp.Profile.Email)

	// Duplicate email is refused regardless of password
	_, err = svc.Signup(ctx, appidentity.SignupInput{
		Email:       "dancer@example.com",
		Password:    "outra-senha-forte",
		DisplayName: "Impostor",
	})
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)

	signedIn, err := svc.Signin(ctx, appidentity.SigninInput{
		Email:    "dancer@example.com",
		Password: "s3nha-muito-forte",
	})
	require.NoError(t, err)
	assert.Equal(t, signedUp.Profile.ID, signedIn.Profile.ID)

	refreshed, err := svc.Refresh(ctx, signedIn.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, signedUp.Profile.ID, refreshed.Profile.ID)
}

func TestSignoutInvalidatesRefreshToken(t *testing.T) {
	db := NewSharedTestDB(t)
	db.CleanTables()
	ctx := context.Background()

	svc := newAuthService(db)

	result, err := svc.Signup(ctx, appidentity.SignupInput{
		Email:       "logout@example.com",
		Password:    "s3nha-muito-forte",
		DisplayName: "Dancer",
	})
	require.NoError(t, err)

	claims, err := svc.ParseRefreshToken(result.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, svc.Signout(ctx, appidentity.SignoutInput{
		UserID:     result.Profile.ID,
		RefreshJTI: claims.ID,
		RefreshTTL: time.Until(claims.ExpiresAt.Time),
	}))

	_, err = svc.Refresh(ctx, result.RefreshToken)
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	db := NewSharedTestDB(t)
	db.CleanTables()
	ctx := context.Background()

	svc := newAuthService(db)

	_, err := svc.Signup(ctx, appidentity.SignupInput{
		Email:       "forgetful@example.com",
		Password:    "senha-antiga-forte",
		DisplayName: "Dancer",
	})
	require.NoError(t, err)

	// Unknown emails are swallowed so the endpoint never leaks accounts
	unknown, err := svc.RequestPasswordReset(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, unknown)

	reset, err := svc.RequestPasswordReset(ctx, "forgetful@example.com")
	require.NoError(t, err)
	require.NotNil(t, reset)
	assert.NotEmpty(t, reset.Token)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, appidentity.PasswordResetConfirmInput{
		Token:       reset.Token,
		NewPassword: "senha-nova-forte",
	}))

	_, err = svc.Signin(ctx, appidentity.SigninInput{
		Email:    "forgetful@example.com",
		Password: "senha-antiga-forte",
	})
	assert.Error(t, err)

	signedIn, err := svc.Signin(ctx, appidentity.SigninInput{
		Email:    "forgetful@example.com",
		Password: "senha-nova-forte",
	})
	require.NoError(t, err)
	assert.Equal(t, "forgetful@example.com", signedIn.Profile.Email)

	// A reset token is single use
	err = svc.ConfirmPasswordReset(ctx, appidentity.PasswordResetConfirmInput{
		Token:       reset.Token,
		NewPassword: "terceira-senha",
	})
	assert.Error(t, err)
}
