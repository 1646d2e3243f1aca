// Package llm provides provider-agnostic access to generative text services.
package llm

import (
	"context"
	"time"
)

// Request is a single completion call against a named model.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client defines the interface for generative text providers. The raw
// text of the model's answer is returned; callers own parsing.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config holds configuration for a generative service client.
type Config struct {
	Provider     string
	APIKey       string
	Models       []string // ordered fallback chain, most capable first
	SummaryModel string   // model used for summary folding; defaults to the last chain entry
	Timeout      time.Duration
	Temperature  float64
	MaxTokens    int
	RateLimit    int // requests per minute
}

// ChainModels returns the configured fallback chain.
func (c Config) ChainModels() []string {
	return c.Models
}

// SummaryModelName returns the model used for summary updates, falling
// back to the cheapest (last) chain entry.
func (c Config) SummaryModelName() string {
	if c.SummaryModel != "" {
		return c.SummaryModel
	}
	if len(c.Models) > 0 {
		return c.Models[len(c.Models)-1]
	}
	return ""
}
