package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/service/auth"
	"github.com/stretchr/testify/mock"
)

// JWTService is a testify mock of auth.JWTService.
type JWTService struct {
	mock.Mock
}

var _ auth.JWTService = (*JWTService)(nil)

// GenerateToken mocks auth.JWTService.GenerateToken.
func (m *JWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// ValidateToken mocks auth.JWTService.ValidateToken.
func (m *JWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

// GenerateRefreshToken mocks auth.JWTService.GenerateRefreshToken.
func (m *JWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// ValidateRefreshToken mocks auth.JWTService.ValidateRefreshToken.
func (m *JWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

// AccessTokenLifetime mocks auth.JWTService.AccessTokenLifetime.
func (m *JWTService) AccessTokenLifetime() time.Duration {
	args := m.Called()
	d, _ := args.Get(0).(time.Duration)
	return d
}

// PasswordVerifier is a testify mock of auth.PasswordVerifier.
type PasswordVerifier struct {
	mock.Mock
}

var _ auth.PasswordVerifier = (*PasswordVerifier)(nil)

// Compare mocks auth.PasswordVerifier.Compare.
func (m *PasswordVerifier) Compare(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

// AuthProvider is a testify mock of auth.AuthProvider.
type AuthProvider struct {
	mock.Mock
}

var _ auth.AuthProvider = (*AuthProvider)(nil)

// Authenticate mocks auth.AuthProvider.Authenticate.
func (m *AuthProvider) Authenticate(ctx context.Context, authorization string) (uuid.UUID, error) {
	args := m.Called(ctx, authorization)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}
