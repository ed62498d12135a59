package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Migrate runs a goose command ("up", "down", "reset", "status", "version",
// "up-to", ...) against db using the embedded migrations. Output is written
// to log.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger, command string, args ...string) error {
	if log == nil {
		log = slog.Default()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(MigrationTableName)
	goose.SetLogger(&SlogGooseLogger{Logger: log.With(slog.String("component", "migrations"))})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, "migrations", args...); err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	return nil
}

// SlogGooseLogger adapts goose.Logger to slog.
type SlogGooseLogger struct {
	Logger *slog.Logger
}

var _ goose.Logger = (*SlogGooseLogger)(nil)

// Printf forwards goose progress output at info level.
func (l *SlogGooseLogger) Printf(format string, v ...any) {
	l.Logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. Unlike goose's default logger it does not
// exit the process; the failing command still returns its error.
func (l *SlogGooseLogger) Fatalf(format string, v ...any) {
	l.Logger.Error(fmt.Sprintf(format, v...))
}
