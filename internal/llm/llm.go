// Package llm defines the provider-neutral surface for language model
// calls and the error taxonomy their failures map onto.
package llm

import (
	"context"
	"time"
)

// Client sends a single completion request to a model provider. No retry
// happens at this layer; failures surface to the caller unchanged.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest describes one model call.
type CompletionRequest struct {
	System      string
	User        string
	JSONMode    bool
	Temperature float32
}

// Config carries the per-session provider settings for one generation
// request. The API key arrives from session memory and must never be
// persisted or logged.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Factory constructs a Client from per-request config. The bootstrap
// wires the real provider switch; tests substitute stubs.
type Factory func(cfg Config) (Client, error)
