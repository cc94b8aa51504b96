package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mealflow/internal/core/ai/provider"
	"mealflow/internal/infrastructure/config"
	"mealflow/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// GroqService calls the Groq chat-completions API. Initialization is
// fail-soft: without an API key the service constructs fine and every
// Generate call fails fast with ErrClientUnavailable.
type GroqService struct {
	config    *config.Config
	client    *resty.Client
	available bool
}

// NewGroqService creates the Groq client. Called once at startup, the
// instance is reused for all requests.
func NewGroqService(cfg *config.Config) *GroqService {
	if strings.TrimSpace(cfg.Groq.APIKey) == "" {
		common.LogWarn("groq API key is missing, completion client disabled",
			zap.String("model", cfg.Groq.Model),
		)
		return &GroqService{config: cfg}
	}

	client := resty.New().
		SetBaseURL(cfg.Groq.BaseURL).
		SetTimeout(cfg.Groq.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Groq.APIKey)).
		SetHeader("Content-Type", "application/json")

	return &GroqService{
		config:    cfg,
		client:    client,
		available: true,
	}
}

// Generate sends the request and returns the first choice's content.
// All provider-side failures (auth, quota, network, 5xx) surface as a
// single UpstreamError carrying the underlying message.
func (s *GroqService) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if !s.available {
		return nil, common.ErrClientUnavailable
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = s.config.Groq.MaxTokens
	}

	body := map[string]interface{}{
		"model":      s.config.Groq.Model,
		"messages":   req.Messages,
		"max_tokens": maxTokens,
	}
	if req.Temperature > 0 {
		body["temperature"] = req.Temperature
	}
	if len(req.Stop) > 0 {
		body["stop"] = req.Stop
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")

	if err != nil {
		return nil, common.NewUpstreamError(fmt.Errorf("failed to send request to Groq: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewUpstreamError(fmt.Errorf("Groq API returned error: %s", resp.String()))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, common.NewUpstreamError(fmt.Errorf("failed to parse Groq response: %w", err))
	}

	if len(result.Choices) == 0 {
		return nil, common.NewUpstreamError(fmt.Errorf("no choices in Groq response"))
	}

	out := &provider.Response{Content: result.Choices[0].Message.Content}
	out.Usage.PromptTokens = result.Usage.PromptTokens
	out.Usage.CompletionTokens = result.Usage.CompletionTokens
	out.Usage.TotalTokens = result.Usage.TotalTokens
	return out, nil
}

// GetModel returns the configured model identifier
func (s *GroqService) GetModel() string {
	return s.config.Groq.Model
}

// GetTimeout returns the configured request timeout
func (s *GroqService) GetTimeout() time.Duration {
	return s.config.Groq.Timeout
}

// Close releases client resources. resty holds none worth closing.
func (s *GroqService) Close() error {
	return nil
}
