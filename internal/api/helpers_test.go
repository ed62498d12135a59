package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/api/middleware"
	"github.com/phrazzld/taskmate-api/internal/config"
	"github.com/phrazzld/taskmate-api/internal/events"
	"github.com/phrazzld/taskmate-api/internal/extraction"
	"github.com/phrazzld/taskmate-api/internal/platform/memory"
	"github.com/phrazzld/taskmate-api/internal/service"
	"github.com/phrazzld/taskmate-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

// chatNow is the clock of the extraction pipeline, so relative dates in
// chat messages resolve deterministically.
var chatNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv is the HTTP API over the in-memory stores with real tokens.
type testEnv struct {
	router http.Handler
	tasks  service.TaskService
	chats  *memory.ChatStore
	tokens auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := discardLogger()

	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   testSecret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 120,
	})
	require.NoError(t, err)
	provider, err := auth.NewTokenAuthProvider(tokens)
	require.NoError(t, err)
	verifier := auth.NewBcryptVerifier()

	users, err := service.NewUserService(memory.NewUserStore(4), tokens, verifier, log)
	require.NoError(t, err)

	chats := memory.NewChatStore()
	pipeline := extraction.NewPipeline(extraction.Config{
		Now:    func() time.Time { return chatNow },
		Logger: log,
	})
	tasks, err := service.NewTaskService(memory.NewTaskStore(log), chats, pipeline,
		events.NewInMemoryEventEmitter(log), log)
	require.NoError(t, err)

	authHandler := NewAuthHandler(users)
	taskHandler := NewTaskHandler(tasks)
	chatHandler := NewChatHandler(tasks)
	authMiddleware := middleware.NewAuthMiddleware(provider)

	r := chi.NewRouter()
	r.Use(middleware.Trace(log))
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/tasks", taskHandler.ListTasks)
			r.Post("/tasks", taskHandler.CreateTask)
			r.Get("/tasks/{id}", taskHandler.GetTask)
			r.Patch("/tasks/{id}", taskHandler.UpdateTask)
			r.Patch("/tasks/{id}/complete", taskHandler.CompleteTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)
			r.Post("/chat", chatHandler.Chat)
			r.Get("/chat/history", chatHandler.History)
		})
	})

	return &testEnv{router: r, tasks: tasks, chats: chats, tokens: tokens}
}

// tokenFor returns an access token for userID.
func (e *testEnv) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := e.tokens.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	return token
}

// do sends a request through the router. body is JSON-encoded unless it is
// already a string; an empty token sends no Authorization header.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// errorMessage returns the "error" field of an error response.
func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[struct {
		Error string `json:"error"`
	}](t, w).Error
}

// extractorStub returns a fixed extraction result.
type extractorStub struct {
	result extraction.Result
}

func (s extractorStub) Extract(context.Context, string) extraction.Result {
	return s.result
}
