package provider

import (
	"context"
	"time"
)

// Message is one turn of the conversation sent to the model
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the payload sent to a completion provider
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

// Response is the payload received from a completion provider
type Response struct {
	Content string `json:"content"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Provider is the completion provider interface
type Provider interface {
	// Generate produces a completion for the request
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GetModel returns the model identifier in use
	GetModel() string

	// GetTimeout returns the per-request timeout
	GetTimeout() time.Duration

	// Close releases provider resources
	Close() error
}
