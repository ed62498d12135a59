package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/taskmate-api/internal/config"
	"github.com/phrazzld/taskmate-api/internal/generation"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type mockModels struct {
	mock.Mock
}

func (m *mockModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, cfg)
	resp, _ := args.Get(0).(*genai.GenerateContentResponse)
	return resp, args.Error(1)
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func newTestGenerator(t *testing.T, models modelsClient, maxRetries int) *Generator {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	g := newGenerator(log, models, config.LLMConfig{ModelName: "gemini-test", MaxRetries: maxRetries, RetryDelaySeconds: 1})
	g.baseDelay = time.Millisecond
	return g
}

func TestNewGeneratorValidatesConfig(t *testing.T) {
	t.Parallel()

	log, _ := logger.NewTestLogger(t)

	_, err := NewGenerator(context.Background(), nil, config.LLMConfig{GeminiAPIKey: "k", ModelName: "m"})
	assert.Error(t, err)

	_, err = NewGenerator(context.Background(), log, config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGenerator(context.Background(), log, config.LLMConfig{GeminiAPIKey: "k"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, "gemini-test", mock.Anything, mock.Anything).
		Return(textResponse(`[{"title":`, `"Buy Milk"}]`), nil).Once()

	out, err := newTestGenerator(t, models, 2).Generate(context.Background(), "extract tasks")

	require.NoError(t, err)
	assert.Equal(t, `[{"title":"Buy Milk"}]`, out)
	models.AssertExpectations(t)
}

func TestGenerateRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("503 service unavailable")).Twice()
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(textResponse("[]"), nil).Once()

	out, err := newTestGenerator(t, models, 2).Generate(context.Background(), "extract tasks")

	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	models.AssertNumberOfCalls(t, "GenerateContent", 3)
}

func TestGenerateGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))

	_, err := newTestGenerator(t, models, 1).Generate(context.Background(), "extract tasks")

	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.ErrorIs(t, err, generation.ErrUpstreamUnavailable)
	models.AssertNumberOfCalls(t, "GenerateContent", 2)
}

func TestGeneratePermanentErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		wantErr error
	}{
		{
			name: "safety block",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{},
				FinishReason: genai.FinishReasonSafety,
			}}},
			wantErr: generation.ErrContentBlocked,
		},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: generation.ErrInvalidResponse},
		{
			name:    "nil content",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			wantErr: generation.ErrInvalidResponse,
		},
		{name: "blank text", resp: textResponse("  "), wantErr: generation.ErrInvalidResponse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			models := &mockModels{}
			models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(tc.resp, nil)

			_, err := newTestGenerator(t, models, 3).Generate(context.Background(), "extract tasks")

			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, generation.ErrUpstreamUnavailable)
			models.AssertNumberOfCalls(t, "GenerateContent", 1)
		})
	}
}

func TestGenerateAPIErrorClassification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		err       error
		wantErr   error
		wantCalls int
	}{
		{name: "bad api key", err: genai.APIError{Code: 400, Status: "INVALID_ARGUMENT"}, wantErr: generation.ErrRequestRejected, wantCalls: 1},
		{name: "forbidden", err: genai.APIError{Code: 403, Status: "PERMISSION_DENIED"}, wantErr: generation.ErrRequestRejected, wantCalls: 1},
		{name: "unknown model", err: genai.APIError{Code: 404, Status: "NOT_FOUND"}, wantErr: generation.ErrRequestRejected, wantCalls: 1},
		{name: "rate limited", err: genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, wantErr: generation.ErrTransientFailure, wantCalls: 3},
		{name: "server error", err: genai.APIError{Code: 500, Status: "INTERNAL"}, wantErr: generation.ErrTransientFailure, wantCalls: 3},
		{name: "unavailable", err: genai.APIError{Code: 503, Status: "UNAVAILABLE"}, wantErr: generation.ErrTransientFailure, wantCalls: 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			models := &mockModels{}
			models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tc.err)

			_, err := newTestGenerator(t, models, 2).Generate(context.Background(), "extract tasks")

			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, generation.ErrUpstreamUnavailable)
			models.AssertNumberOfCalls(t, "GenerateContent", tc.wantCalls)
		})
	}
}

func TestGenerateEmptyPrompt(t *testing.T) {
	t.Parallel()

	models := &mockModels{}
	_, err := newTestGenerator(t, models, 0).Generate(context.Background(), " ")

	assert.ErrorIs(t, err, generation.ErrEmptyPrompt)
	models.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	models := &mockModels{}
	models.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("unavailable"))

	g := newTestGenerator(t, models, 5)
	g.baseDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := g.Generate(ctx, "extract tasks")
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	models.AssertNumberOfCalls(t, "GenerateContent", 1)
}

func TestBackoffGrowsWithJitter(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, &mockModels{}, 0)
	g.baseDelay = time.Second

	for attempt := 0; attempt < 4; attempt++ {
		d := g.backoff(attempt)
		base := time.Second * time.Duration(1<<attempt)
		assert.GreaterOrEqual(t, d, base/2)
		assert.Less(t, d, base)
	}
}
