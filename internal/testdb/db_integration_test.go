//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTestDBWithT(t *testing.T) {
	db := GetTestDBWithT(t)

	var tables int
	err := db.QueryRowContext(context.Background(), `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_name IN ('users', 'tasks', 'chat_messages')`).Scan(&tables)

	require.NoError(t, err)
	assert.Equal(t, 3, tables)
}

func TestWithTxRollsBack(t *testing.T) {
	db := GetTestDBWithT(t)
	const email = "rollback@example.com"

	WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		MustInsertUser(t, tx, email)
	})

	var count int
	err := db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM users WHERE email = $1`, email).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}
