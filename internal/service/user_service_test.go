package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/config"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/mocks"
	"github.com/phrazzld/taskmate-api/internal/platform/memory"
	"github.com/phrazzld/taskmate-api/internal/service"
	"github.com/phrazzld/taskmate-api/internal/service/auth"
	"github.com/phrazzld/taskmate-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery"

func newJWT(t *testing.T) auth.JWTService {
	t.Helper()
	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
		BcryptCost:                  4,
	})
	require.NoError(t, err)
	return tokens
}

func newUserService(t *testing.T) (service.UserService, auth.JWTService) {
	t.Helper()
	tokens := newJWT(t)
	svc, err := service.NewUserService(memory.NewUserStore(4), tokens, auth.NewBcryptVerifier(), testLogger())
	require.NoError(t, err)
	return svc, tokens
}

func TestNewUserService(t *testing.T) {
	users := new(mocks.UserStore)
	tokens := new(mocks.JWTService)
	verifier := new(mocks.PasswordVerifier)

	_, err := service.NewUserService(nil, tokens, verifier, nil)
	assert.Error(t, err)
	_, err = service.NewUserService(users, nil, verifier, nil)
	assert.Error(t, err)
	_, err = service.NewUserService(users, tokens, nil, nil)
	assert.Error(t, err)
}

func TestUserServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and tokens", func(t *testing.T) {
		svc, tokens := newUserService(t)

		user, pair, err := svc.Register(ctx, "Alex@Example.com", "alex", testPassword)

		require.NoError(t, err)
		assert.Equal(t, "alex@example.com", user.Email)
		assert.Empty(t, user.Password)
		assert.NotEmpty(t, user.HashedPassword)
		assert.Equal(t, user.ID, pair.UserID)
		assert.WithinDuration(t, time.Now().Add(time.Hour), pair.ExpiresAt, time.Minute)

		claims, err := tokens.ValidateToken(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := newUserService(t)
		_, _, err := svc.Register(ctx, "alex@example.com", "", testPassword)
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "ALEX@example.com", "", testPassword)

		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _ := newUserService(t)

		_, _, err := svc.Register(ctx, "alex@example.com", "", "short")

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("store failure", func(t *testing.T) {
		users := new(mocks.UserStore)
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(errors.New("connection refused"))
		svc, err := service.NewUserService(users, new(mocks.JWTService), new(mocks.PasswordVerifier), testLogger())
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, "alex@example.com", "", testPassword)

		assert.ErrorIs(t, err, service.ErrPersistence)
		users.AssertExpectations(t)
	})
}

func TestUserServiceLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newUserService(t)
	user, _, err := svc.Register(ctx, "alex@example.com", "alex", testPassword)
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		pair, err := svc.Login(ctx, "alex@example.com", testPassword)

		require.NoError(t, err)
		assert.Equal(t, user.ID, pair.UserID)
		_, err = tokens.ValidateRefreshToken(ctx, pair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, "ALEX@example.com", testPassword)
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alex@example.com", "not-the-password")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", testPassword)
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestUserServiceRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("exchanges refresh token", func(t *testing.T) {
		svc, tokens := newUserService(t)
		user, pair, err := svc.Register(ctx, "alex@example.com", "", testPassword)
		require.NoError(t, err)

		next, err := svc.Refresh(ctx, pair.RefreshToken)

		require.NoError(t, err)
		claims, err := tokens.ValidateToken(ctx, next.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		svc, _ := newUserService(t)
		_, pair, err := svc.Register(ctx, "alex@example.com", "", testPassword)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, pair.AccessToken)

		assert.ErrorIs(t, err, service.ErrUnauthenticated)
		assert.ErrorIs(t, err, auth.ErrWrongTokenType)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		users := new(mocks.UserStore)
		tokens := new(mocks.JWTService)
		userID := uuid.New()
		tokens.On("ValidateRefreshToken", mock.Anything, "refresh").
			Return(&auth.Claims{UserID: userID, TokenType: auth.TokenTypeRefresh}, nil)
		users.On("GetByID", mock.Anything, userID).Return(nil, store.ErrUserNotFound)
		svc, err := service.NewUserService(users, tokens, new(mocks.PasswordVerifier), testLogger())
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, "refresh")

		assert.ErrorIs(t, err, service.ErrUnauthenticated)
		assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
		users.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})
}
