// Package provider is the boundary to the external generative-AI service.
// Everything above this package treats the provider as an opaque,
// fallible dependency behind the Provider interface.
package provider

import (
	"context"
	"encoding/json"
	"time"
)

// Provider sends a prompt to a generative endpoint and returns its output.
type Provider interface {
	// Generate performs one round trip. The context carries the per-call
	// deadline; an exceeded deadline aborts the in-flight call.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured with.
	ModelID() string
}

// Request describes one call to the provider.
type Request struct {
	// System sets the provider's role for this call.
	System string

	// Prompt is the user-facing prompt text.
	Prompt string

	// Schema, when set, asks the provider for structured output conforming
	// to the definition. When nil the response is arbitrary free text.
	Schema *Schema

	// MaxTokens bounds the response length. Zero uses the provider default.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0.
	Temperature float64
}

// Schema names a JSON Schema for the provider's structured-output mode.
type Schema struct {
	Name       string
	Definition map[string]any
}

// Usage reports token consumption when the provider makes it available.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response carries the raw provider output plus call metadata.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	Latency time.Duration
}
