package mocks

import (
	"context"

	"github.com/phrazzld/taskmate-api/internal/generation"
	"github.com/stretchr/testify/mock"
)

// TextGenerator is a testify mock of generation.TextGenerator.
type TextGenerator struct {
	mock.Mock
}

var _ generation.TextGenerator = (*TextGenerator)(nil)

// Generate mocks generation.TextGenerator.Generate.
func (m *TextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
