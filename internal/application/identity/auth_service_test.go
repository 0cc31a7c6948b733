package identity

import (
	"context"
	"testing"
	"time"

	"github.com/avaliaai/backend/internal/domain/identity"
	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/auth"
	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProfileRepository is a mock implementation of identity.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*identity.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[identity.Profile], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[identity.Profile]), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPasswordResetRepository is a mock implementation of identity.PasswordResetRepository
type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*identity.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResetRepository) Save(ctx context.Context, token *identity.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "avaliaai-test",
	})
}

func newTestAuthService(profileRepo *MockProfileRepository, resetRepo *MockPasswordResetRepository) (*AuthService, *auth.InMemoryTokenBlacklist) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := NewAuthService(profileRepo, resetRepo, newTestJWTService(), blacklist, zap.NewNop())
	return service, blacklist
}

func seedProfile(t *testing.T, email, password string) *identity.Profile {
	t.Helper()
	profile, err := identity.NewProfile(email, password, "Test Person")
	require.NoError(t, err)
	profile.ClearDomainEvents()
	return profile
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and signs in", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)
		profileRepo.On("Save", ctx, mock.AnythingOfType("*identity.Profile")).Return(nil)

		service, _ := newTestAuthService(profileRepo, resetRepo)
		result, err := service.Signup(ctx, SignupInput{
			Email:       "nova@example.com",
			Password:    "segredo-forte",
			DisplayName: "Nova",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, identity.RoleUser, result.Profile.Role)
		assert.Equal(t, "nova@example.com", result.Profile.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)
		profileRepo.On("Save", ctx, mock.AnythingOfType("*identity.Profile")).Return(shared.ErrAlreadyExists)

		service, _ := newTestAuthService(profileRepo, resetRepo)
		_, err := service.Signup(ctx, SignupInput{
			Email:       "dupe@example.com",
			Password:    "segredo-forte",
			DisplayName: "Dupe",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	})

	t.Run("weak password never reaches the repository", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)

		service, _ := newTestAuthService(profileRepo, resetRepo)
		_, err := service.Signup(ctx, SignupInput{
			Email:       "curta@example.com",
			Password:    "curta",
			DisplayName: "Curta",
		})
		require.Error(t, err)
		profileRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSignin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)

		profile := seedProfile(t, "pessoa@example.com", "segredo-forte")
		profileRepo.On("FindByEmail", ctx, "pessoa@example.com").Return(profile, nil)

		service, _ := newTestAuthService(profileRepo, resetRepo)
		result, err := service.Signin(ctx, SigninInput{Email: "pessoa@example.com", Password: "segredo-forte"})
		require.NoError(t, err)
		assert.Equal(t, profile.ID, result.Profile.ID)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)

		profile := seedProfile(t, "pessoa@example.com", "segredo-forte")
		profileRepo.On("FindByEmail", ctx, "pessoa@example.com").Return(profile, nil)
		profileRepo.On("FindByEmail", ctx, "ninguem@example.com").Return(nil, shared.ErrNotFound)

		service, _ := newTestAuthService(profileRepo, resetRepo)

		_, err1 := service.Signin(ctx, SigninInput{Email: "pessoa@example.com", Password: "errada-errada"})
		_, err2 := service.Signin(ctx, SigninInput{Email: "ninguem@example.com", Password: "tanto-faz"})

		var domainErr1, domainErr2 *shared.DomainError
		require.ErrorAs(t, err1, &domainErr1)
		require.ErrorAs(t, err2, &domainErr2)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr1.Code)
		assert.Equal(t, domainErr1.Code, domainErr2.Code)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("valid refresh token yields a new pair", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)

		profile := seedProfile(t, "pessoa@example.com", "segredo-forte")
		profileRepo.On("FindByEmail", ctx, "pessoa@example.com").Return(profile, nil)
		profileRepo.On("FindByID", ctx, profile.ID).Return(profile, nil)

		service, _ := newTestAuthService(profileRepo, resetRepo)
		signin, err := service.Signin(ctx, SigninInput{Email: "pessoa@example.com", Password: "segredo-forte"})
		require.NoError(t, err)

		refreshed, err := service.Refresh(ctx, signin.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.Equal(t, profile.ID, refreshed.Profile.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		service, _ := newTestAuthService(new(MockProfileRepository), new(MockPasswordResetRepository))
		_, err := service.Refresh(ctx, "not-a-jwt")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})

	t.Run("signed-out refresh token is revoked", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)

		profile := seedProfile(t, "pessoa@example.com", "segredo-forte")
		profileRepo.On("FindByEmail", ctx, "pessoa@example.com").Return(profile, nil)

		service, _ := newTestAuthService(profileRepo, resetRepo)
		signin, err := service.Signin(ctx, SigninInput{Email: "pessoa@example.com", Password: "segredo-forte"})
		require.NoError(t, err)

		jwtService := newTestJWTService()
		claims, err := jwtService.ValidateRefreshToken(signin.RefreshToken)
		require.NoError(t, err)

		require.NoError(t, service.Signout(ctx, SignoutInput{
			UserID:     profile.ID,
			RefreshJTI: claims.ID,
			RefreshTTL: time.Hour,
		}))

		_, err = service.Refresh(ctx, signin.RefreshToken)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
	})
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email yields no token and no error", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)
		profileRepo.On("FindByEmail", ctx, "ninguem@example.com").Return(nil, shared.ErrNotFound)

		service, _ := newTestAuthService(profileRepo, resetRepo)
		result, err := service.RequestPasswordReset(ctx, "ninguem@example.com")
		require.NoError(t, err)
		assert.Nil(t, result)
		resetRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("full reset flow", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)

		profile := seedProfile(t, "pessoa@example.com", "senha-antiga")
		profileRepo.On("FindByEmail", ctx, "pessoa@example.com").Return(profile, nil)
		profileRepo.On("FindByID", ctx, profile.ID).Return(profile, nil)
		profileRepo.On("Save", ctx, profile).Return(nil)
		resetRepo.On("DeleteByUser", ctx, profile.ID).Return(nil)

		var saved *identity.PasswordResetToken
		resetRepo.On("Save", ctx, mock.AnythingOfType("*identity.PasswordResetToken")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*identity.PasswordResetToken)
			}).Return(nil)

		service, _ := newTestAuthService(profileRepo, resetRepo)
		requested, err := service.RequestPasswordReset(ctx, "pessoa@example.com")
		require.NoError(t, err)
		require.NotNil(t, requested)
		assert.NotEmpty(t, requested.Token)

		// The repository would look the token up by its hash
		require.NotNil(t, saved)
		assert.Equal(t, identity.HashResetToken(requested.Token), saved.TokenHash)
		resetRepo.On("FindByTokenHash", ctx, saved.TokenHash).Return(saved, nil)

		err = service.ConfirmPasswordReset(ctx, PasswordResetConfirmInput{
			Token:       requested.Token,
			NewPassword: "senha-novinha",
		})
		require.NoError(t, err)
		assert.True(t, profile.VerifyPassword("senha-novinha"))
		assert.False(t, profile.VerifyPassword("senha-antiga"))
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		profileRepo := new(MockProfileRepository)
		resetRepo := new(MockPasswordResetRepository)

		profile := seedProfile(t, "pessoa@example.com", "senha-antiga")
		token, plaintext, err := identity.NewPasswordResetToken(profile.ID)
		require.NoError(t, err)
		token.ExpiresAt = time.Now().Add(-time.Minute)

		resetRepo.On("FindByTokenHash", ctx, token.TokenHash).Return(token, nil)

		service, _ := newTestAuthService(profileRepo, resetRepo)
		err = service.ConfirmPasswordReset(ctx, PasswordResetConfirmInput{
			Token:       plaintext,
			NewPassword: "senha-novinha",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_EXPIRED", domainErr.Code)
		profileRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
