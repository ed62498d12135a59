package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AuthProvider resolves a bearer credential to the id of the calling user.
type AuthProvider interface {
	// Authenticate parses an Authorization header value of the form
	// "Bearer <token>". Every failure wraps ErrUnauthenticated.
	Authenticate(ctx context.Context, authorization string) (uuid.UUID, error)
}

// TokenAuthProvider authenticates access tokens issued by a JWTService.
type TokenAuthProvider struct {
	tokens JWTService
}

var _ AuthProvider = (*TokenAuthProvider)(nil)

// NewTokenAuthProvider creates an AuthProvider backed by tokens.
func NewTokenAuthProvider(tokens JWTService) (*TokenAuthProvider, error) {
	if tokens == nil {
		return nil, errors.New("jwt service cannot be nil")
	}
	return &TokenAuthProvider{tokens: tokens}, nil
}

// Authenticate implements AuthProvider.
func (p *TokenAuthProvider) Authenticate(ctx context.Context, authorization string) (uuid.UUID, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	claims, err := p.tokens.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if claims.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrUnauthenticated, ErrInvalidToken)
	}

	return claims.UserID, nil
}

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(authorization string) (string, error) {
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		return "", ErrMissingToken
	}

	if strings.EqualFold(authorization, "Bearer") {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(authorization, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}
