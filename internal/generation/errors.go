package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrUpstreamUnavailable is the root of every failure to obtain usable
	// text from the upstream service. Callers fall back when they see it.
	ErrUpstreamUnavailable = errors.New("text generation upstream unavailable")

	// ErrInvalidResponse is returned when the response cannot be used
	ErrInvalidResponse = fmt.Errorf("%w: invalid response from language model", ErrUpstreamUnavailable)

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = fmt.Errorf("%w: content blocked by language model safety filters", ErrUpstreamUnavailable)

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = fmt.Errorf("%w: transient error during generation", ErrUpstreamUnavailable)

	// ErrRequestRejected is returned when the service refuses the request itself,
	// for example a bad API key or an unknown model. Retrying cannot help.
	ErrRequestRejected = fmt.Errorf("%w: request rejected by language model", ErrUpstreamUnavailable)

	// ErrEmptyPrompt is returned when Generate is called without a prompt
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
