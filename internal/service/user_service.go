package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/phrazzld/taskmate-api/internal/service/auth"
	"github.com/phrazzld/taskmate-api/internal/store"
)

// TokenPair is an access token with the refresh token that renews it.
type TokenPair struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// UserService provides account operations: registration, login and token refresh.
type UserService interface {
	// Register creates a user and returns a first token pair.
	// Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, email, username, password string) (*domain.User, *TokenPair, error)

	// Login checks credentials and returns a token pair.
	// Returns ErrInvalidCredentials for an unknown email or wrong password.
	Login(ctx context.Context, email, password string) (*TokenPair, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	// Every failure wraps ErrUnauthenticated.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	users    store.UserStore
	tokens   auth.JWTService
	verifier auth.PasswordVerifier
	now      func() time.Time
	logger   *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	tokens auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil")
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil")
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		now:      time.Now,
		logger:   logger.With("component", "user_service"),
	}, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(
	ctx context.Context,
	email, username, password string,
) (*domain.User, *TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, username, password)
	if err != nil {
		log.Debug("rejected invalid registration", "error", err)
		return nil, nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register an existing email", "email", user.Email)
			return nil, nil, err
		}
		log.Error("failed to save user", "error", err, "email", user.Email)
		return nil, nil, wrapStoreError("register", err)
	}

	pair, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	log.Info("user registered", "user_id", user.ID)
	return user, pair, nil
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to get user by email", "error", err)
		return nil, wrapStoreError("login", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user.ID)
}

// Refresh implements UserService.Refresh
func (s *userServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug("refresh token rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("refresh token for deleted user", "user_id", claims.UserID)
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, auth.ErrInvalidRefreshToken)
		}
		return nil, wrapStoreError("refresh", err)
	}

	return s.issue(ctx, claims.UserID)
}

func (s *userServiceImpl) issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	issuedAt := s.now()

	access, err := s.tokens.GenerateToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.tokens.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    issuedAt.Add(s.tokens.AccessTokenLifetime()).UTC(),
	}, nil
}
