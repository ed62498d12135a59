package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery"

func register(t *testing.T, env *testEnv, email string) AuthResponse {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"username": "alex",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[AuthResponse](t, w)
}

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)

	resp := register(t, env, "alex@example.com")

	assert.NotEqual(t, uuid.Nil, resp.UserID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	expiresAt, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	// The issued token authenticates task requests.
	w := env.do(t, http.MethodGet, "/api/tasks", resp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_RegisterErrors(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "taken@example.com")

	tests := []struct {
		name        string
		body        map[string]any
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "duplicate email",
			body:        map[string]any{"email": "TAKEN@example.com", "password": testPassword},
			wantStatus:  http.StatusConflict,
			wantMessage: "Email already exists",
		},
		{
			name:        "invalid email",
			body:        map[string]any{"email": "not-an-email", "password": testPassword},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid email: invalid email format",
		},
		{
			name:        "short password",
			body:        map[string]any{"email": "new@example.com", "password": "short"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid password: too short",
		},
		{
			name:        "missing email",
			body:        map[string]any{"password": testPassword},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid email: required field",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/register", "", tc.body)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantMessage, errorMessage(t, w))
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)
	registered := register(t, env, "alex@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email":    "Alex@Example.com",
			"password": testPassword,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeBody[AuthResponse](t, w)
		assert.Equal(t, registered.UserID, resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	for name, body := range map[string]map[string]any{
		"wrong password": {"email": "alex@example.com", "password": "wrong-password-123"},
		"unknown email":  {"email": "nobody@example.com", "password": testPassword},
	} {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/login", "", body)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Invalid credentials", errorMessage(t, w))
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", `{"email":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request format", errorMessage(t, w))
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	env := newTestEnv(t)
	registered := register(t, env, "alex@example.com")

	t.Run("valid refresh token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/refresh", "",
			map[string]any{"refresh_token": registered.RefreshToken})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeBody[RefreshTokenResponse](t, w)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		_, err := time.Parse(time.RFC3339, resp.ExpiresAt)
		assert.NoError(t, err)

		w = env.do(t, http.MethodGet, "/api/tasks", resp.AccessToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/refresh", "",
			map[string]any{"refresh_token": registered.AccessToken})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid refresh token", errorMessage(t, w))
	})

	t.Run("garbage token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/refresh", "",
			map[string]any{"refresh_token": "not.a.jwt"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid refresh_token: required field", errorMessage(t, w))
	})
}
