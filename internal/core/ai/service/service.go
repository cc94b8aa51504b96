package service

import (
	"context"
	"strings"
	"time"

	"mealflow/internal/core/ai/cache"
	"mealflow/internal/core/ai/provider"
	groq "mealflow/internal/core/service"
	"mealflow/internal/infrastructure/config"
	"mealflow/internal/pkg/common"
)

// Service fronts the completion provider with a cache. It implements
// the meal service's Completer interface.
type Service struct {
	config       *config.Config
	provider     provider.Provider
	cacheManager *cache.CacheManager
}

// NewService creates the AI service with the Groq provider
func NewService(cfg *config.Config, cacheManager *cache.CacheManager) *Service {
	return &Service{
		config:       cfg,
		provider:     groq.NewGroqService(cfg),
		cacheManager: cacheManager,
	}
}

// NewServiceWithProvider creates the AI service with an explicit
// provider
func NewServiceWithProvider(cfg *config.Config, p provider.Provider, cacheManager *cache.CacheManager) *Service {
	return &Service{
		config:       cfg,
		provider:     p,
		cacheManager: cacheManager,
	}
}

// Complete sends one prompt and returns the raw completion text. The
// call is synchronous; no retry, no streaming, no client-side
// cancellation once issued.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", common.ErrInvalidRequest
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		if value, err := s.cacheManager.Get(ctx, prompt); err == nil && value != "" {
			return value, nil
		}
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: "user", Content: prompt},
		},
	})
	common.LogCompletionCall(s.provider.GetModel(), time.Since(start), err, "")
	if err != nil {
		return "", err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, prompt, resp.Content)
	}

	return resp.Content, nil
}

// Model returns the provider's model identifier
func (s *Service) Model() string {
	return s.provider.GetModel()
}
