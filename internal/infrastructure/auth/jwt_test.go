package auth

import (
	"context"
	"testing"
	"time"

	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "avalia-test",
	})
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID: userID,
		Email:  "maria@example.com",
		Role:   "owner",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID: userID,
		Email:  "maria@example.com",
		Role:   "user",
	})
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "maria@example.com", claims.Email)
		assert.Equal(t, "user", claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)

		parsed, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "a-completely-different-secret-key",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "avalia-test",
		})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateRefreshToken(t *testing.T) {
	svc := newTestService()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "maria@example.com",
		Role:   "user",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	// Refresh tokens carry no role; it is re-read at rotation time
	assert.Empty(t, claims.Role)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "avalia-test",
	})

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	t.Run("jti blacklisting", func(t *testing.T) {
		jti := uuid.New().String()

		listed, err := bl.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.False(t, listed)

		require.NoError(t, bl.AddToBlacklist(ctx, jti, time.Minute))

		listed, err = bl.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.True(t, listed)
	})

	t.Run("expired entries drop out", func(t *testing.T) {
		jti := uuid.New().String()
		require.NoError(t, bl.AddToBlacklist(ctx, jti, -time.Second))

		listed, err := bl.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.False(t, listed)
	})

	t.Run("user-wide invalidation", func(t *testing.T) {
		userID := uuid.New().String()
		issuedBefore := time.Now().Add(-time.Minute)

		require.NoError(t, bl.AddUserTokensToBlacklist(ctx, userID, time.Hour))

		invalidated, err := bl.IsUserTokenInvalidated(ctx, userID, issuedBefore)
		require.NoError(t, err)
		assert.True(t, invalidated)

		invalidated, err = bl.IsUserTokenInvalidated(ctx, userID, time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, invalidated)
	})
}
