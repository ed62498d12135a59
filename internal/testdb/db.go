//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskmate-api/internal/platform/postgres"
)

// TestTimeout bounds connection setup and migrations.
const TestTimeout = 90 * time.Second

// DatabaseURLEnv names the variable holding an existing test database.
const DatabaseURLEnv = "DATABASE_URL"

var (
	shared     *sql.DB
	sharedErr  error
	sharedOnce sync.Once
)

// GetTestDBWithT returns the shared, migrated test database. The test is
// skipped when no database can be provided, for example without Docker.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	sharedOnce.Do(func() {
		shared, sharedErr = open()
	})
	if sharedErr != nil {
		t.Skipf("test database unavailable: %v", sharedErr)
	}
	return shared
}

func open() (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	dbURL := os.Getenv(DatabaseURLEnv)
	if dbURL == "" {
		var err error
		if dbURL, err = startContainer(ctx); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := postgres.Migrate(ctx, db, log, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
