package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/taskmate-api/internal/config"
	"github.com/phrazzld/taskmate-api/internal/events"
	"github.com/phrazzld/taskmate-api/internal/extraction"
	"github.com/phrazzld/taskmate-api/internal/generation"
	"github.com/phrazzld/taskmate-api/internal/job"
	"github.com/phrazzld/taskmate-api/internal/platform/gemini"
	"github.com/phrazzld/taskmate-api/internal/platform/memory"
	"github.com/phrazzld/taskmate-api/internal/platform/postgres"
	"github.com/phrazzld/taskmate-api/internal/service"
	"github.com/phrazzld/taskmate-api/internal/service/auth"
	"github.com/phrazzld/taskmate-api/internal/store"
)

// application holds the shared dependencies of the server and owns their
// shutdown order.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore store.TaskStore
	userStore store.UserStore
	chatStore store.ChatStore

	jwtService   auth.JWTService
	authProvider auth.AuthProvider
	userService  service.UserService
	taskService  service.TaskService

	queue      *job.Queue
	workerPool *job.WorkerPool
	retention  *job.RetentionScheduler
}

// newApplication wires every component. db may be nil only for the memory
// driver.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &application{config: cfg, logger: logger, db: db}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		app.taskStore = memory.NewTaskStore(logger)
		app.userStore = memory.NewUserStore(cfg.Auth.BcryptCost)
		app.chatStore = memory.NewChatStore()
	case config.DriverPostgres:
		if db == nil {
			return nil, errors.New("postgres driver requires a database connection")
		}
		app.taskStore = postgres.NewPostgresTaskStore(db, logger)
		app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
		app.chatStore = postgres.NewPostgresChatStore(db, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.authProvider, err = auth.NewTokenAuthProvider(app.jwtService)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}
	app.userService, err = service.NewUserService(app.userStore, app.jwtService, auth.NewBcryptVerifier(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	pipeline, err := newExtractionPipeline(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	app.queue = job.NewQueue(cfg.Jobs.QueueSize, logger)

	chatHandler, err := job.NewChatEventHandler(app.queue, app.chatStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat event handler: %w", err)
	}
	emitter.RegisterHandler(events.ChatProcessed, chatHandler)

	app.workerPool = job.NewWorkerPool(app.queue, job.WorkerPoolConfig{
		WorkerCount: cfg.Jobs.WorkerCount,
		JobTimeout:  job.DefaultWorkerPoolConfig().JobTimeout,
	}, logger)
	app.workerPool.SetErrorHandler(func(j job.Job, err error) {
		logger.Error("background job failed",
			slog.String("job_id", j.ID().String()),
			slog.String("job_type", j.Type()),
			slog.String("error", err.Error()))
	})

	retention := time.Duration(cfg.Jobs.HistoryRetentionDays) * 24 * time.Hour
	app.retention, err = job.NewRetentionScheduler(app.chatStore, cfg.Jobs.RetentionSchedule, retention, logger)
	if err != nil {
		return nil, err
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.chatStore, pipeline, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return app, nil
}

// newExtractionPipeline builds the chat pipeline. Without an API key the
// pipeline has no generator and always uses the local fallback.
func newExtractionPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*extraction.Pipeline, error) {
	lexicon := extraction.DefaultLexicon()
	if cfg.Extraction.LexiconPath != "" {
		var err error
		lexicon, err = extraction.LoadLexicon(cfg.Extraction.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
	}

	var generator generation.TextGenerator
	if cfg.LLM.GeminiAPIKey != "" {
		gen, err := gemini.NewGenerator(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini generator: %w", err)
		}
		generator = gen
	} else {
		logger.Info("no gemini API key configured, chat extraction uses the local fallback")
	}

	return extraction.NewPipeline(extraction.Config{
		Generator:      generator,
		Lexicon:        lexicon,
		Timeout:        time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		TitleWordLimit: cfg.Extraction.TitleWordLimit,
		Logger:         logger,
	}), nil
}

// start launches the background workers.
func (app *application) start() {
	app.workerPool.Start()
	app.retention.Start()
}

// cleanup stops background work in dependency order: no new sweeps, no new
// jobs, then drain the workers.
func (app *application) cleanup(ctx context.Context) {
	app.retention.Stop()
	app.queue.Close()
	if err := app.workerPool.Stop(ctx); err != nil {
		app.logger.Warn("worker pool did not drain before shutdown", slog.String("error", err.Error()))
	}
	app.logger.Info("application cleanup complete")
}

// run serves HTTP until ctx is cancelled, then shuts everything down.
func (app *application) run(ctx context.Context) error {
	app.start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	err := runHTTPServer(ctx, server, app.logger)

	cleanupCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	app.cleanup(cleanupCtx)

	return err
}
