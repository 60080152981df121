// Package llm defines the provider-agnostic contract for the generation
// backend. The backend itself is opaque: providers only promise a finite,
// non-restartable token stream and a health probe.
package llm

import (
	"context"
	"errors"
)

// ErrStreamCancelled reports that the caller's context was cancelled while a
// stream was in flight. It is a normal terminal state, distinct from
// transport failures, and must never surface as a generic I/O error.
var ErrStreamCancelled = errors.New("stream cancelled by caller")

// Chunk is one unit of streamed output. A terminal failure is delivered as
// the final chunk with Err set; the channel is closed afterwards either way.
type Chunk struct {
	Token string
	Err   error
}

// Option allows for optional parameters like system prompt, context sizing,
// temperature.
type Option func(*Options)

type Options struct {
	SystemPrompt string
	Temperature  float64
	Model        string // Override default model

	// ContextWindowSize is a message count; providers convert it into raw
	// prompt tokens with an approximate ratio.
	ContextWindowSize int

	// MaxResponseLength is a character budget; providers convert it into a
	// generated-token cap with an approximate ratio.
	MaxResponseLength int
}

func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithContextWindowSize(messages int) Option {
	return func(o *Options) {
		o.ContextWindowSize = messages
	}
}

func WithMaxResponseLength(chars int) Option {
	return func(o *Options) {
		o.MaxResponseLength = chars
	}
}

// LLMProvider defines the contract for any generation backend.
type LLMProvider interface {
	// Stream sends a prompt and returns a channel of token chunks. The
	// channel is closed when the stream ends; cancellation of ctx aborts the
	// underlying request and yields a final chunk wrapping
	// ErrStreamCancelled.
	Stream(ctx context.Context, prompt string, options ...Option) (<-chan Chunk, error)

	// Generate collects a full streamed response into one string
	// (convenience method).
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// IsHealthy probes the backend. Connectivity failure is reported as
	// false, never as an error.
	IsHealthy(ctx context.Context) bool
}
