// Package gemini implements generation.TextGenerator on top of Google's Gemini
// API through the google.golang.org/genai client.
//
// Transient API errors are retried with exponential backoff and jitter.
// Safety blocks and empty responses are permanent and returned immediately.
// Every returned error wraps generation.ErrUpstreamUnavailable, so callers
// can fall back without inspecting Gemini specifics.
package gemini
