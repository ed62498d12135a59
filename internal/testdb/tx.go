//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// WithTx runs fn inside a transaction that is always rolled back afterwards.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// MustInsertUser inserts a user row directly and returns its ID.
func MustInsertUser(t *testing.T, tx *sql.Tx, email string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := tx.QueryRowContext(context.Background(), `
		INSERT INTO users (id, email, hashed_password)
		VALUES (gen_random_uuid(), $1, 'not-a-real-hash')
		RETURNING id`, email).Scan(&id)
	require.NoError(t, err, "Failed to insert test user")
	return id
}
