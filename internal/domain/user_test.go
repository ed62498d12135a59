package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  Test@Example.com ", "tester", "longenoughpassword")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, "tester", user.Username)
	assert.Equal(t, "longenoughpassword", user.Password)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestNewUserValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		username string
		password string
		wantErr  error
	}{
		{name: "empty email", email: "", password: "longenoughpassword", wantErr: ErrEmptyEmail},
		{name: "no at sign", email: "invalidemail", password: "longenoughpassword", wantErr: ErrInvalidEmail},
		{name: "no domain dot", email: "a@localhost", password: "longenoughpassword", wantErr: ErrInvalidEmail},
		{name: "trailing dot", email: "a@example.", password: "longenoughpassword", wantErr: ErrInvalidEmail},
		{name: "empty password", email: "a@example.com", password: "", wantErr: ErrEmptyPassword},
		{name: "short password", email: "a@example.com", password: "short", wantErr: ErrPasswordTooShort},
		{
			name:     "long password",
			email:    "a@example.com",
			password: strings.Repeat("x", MaxPasswordLength+1),
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "long username",
			email:    "a@example.com",
			username: strings.Repeat("u", MaxUsernameLength+1),
			password: "longenoughpassword",
			wantErr:  ErrUsernameTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.email, tt.username, tt.password)

			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserValidateWithHash(t *testing.T) {
	t.Parallel()

	user := User{ID: uuid.New(), Email: "a@example.com", HashedPassword: "$2a$10$hash"}
	assert.NoError(t, user.Validate())

	user.ID = uuid.Nil
	assert.ErrorIs(t, user.Validate(), ErrEmptyUserID)
}
