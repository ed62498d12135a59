package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer abc", want: "abc"},
		{header: "  Bearer   abc  ", want: "abc"},
		{header: "", wantErr: ErrMissingToken},
		{header: "Bearer ", wantErr: ErrMissingToken},
		{header: "bearer", wantErr: ErrMissingToken},
		{header: "Bearer\t", wantErr: ErrMissingToken},
		{header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidToken},
		{header: "abc.def.ghi", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			t.Parallel()
			got, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenAuthProvider(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t, testSecret, fixedTime)
	provider, err := NewTokenAuthProvider(svc)
	require.NoError(t, err)

	userID := uuid.New()
	access, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	t.Run("valid bearer", func(t *testing.T) {
		t.Parallel()
		got, err := provider.Authenticate(context.Background(), "Bearer "+access)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		got, err := provider.Authenticate(context.Background(), "")
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.ErrorIs(t, err, ErrMissingToken)
		assert.Equal(t, uuid.Nil, got)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		t.Parallel()
		_, err := provider.Authenticate(context.Background(), "Bearer "+refresh)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		late, err := NewTokenAuthProvider(newTestJWTService(t, testSecret, fixedTime.Add(3*time.Hour)))
		require.NoError(t, err)
		_, err = late.Authenticate(context.Background(), "Bearer "+access)
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("nil jwt service", func(t *testing.T) {
		t.Parallel()
		_, err := NewTokenAuthProvider(nil)
		assert.Error(t, err)
	})
}

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewBcryptVerifier()
	assert.NoError(t, v.Compare(string(hash), "correct horse battery"))
	assert.Error(t, v.Compare(string(hash), "wrong password!!"))
}
