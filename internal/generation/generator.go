package generation

import "context"

// TextGenerator turns a prompt into model output.
// Implementations must honour ctx cancellation where the transport allows it,
// and wrap failures in ErrUpstreamUnavailable.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextGeneratorFunc adapts a function to TextGenerator.
type TextGeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements TextGenerator.
func (f TextGeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
