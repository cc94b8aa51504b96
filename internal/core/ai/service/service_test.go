package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealflow/internal/core/ai/cache"
	"mealflow/internal/core/ai/provider"
	"mealflow/internal/infrastructure/config"
	"mealflow/internal/pkg/common"
)

type fakeProvider struct {
	calls    int
	response string
	err      error
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.response}, nil
}

func (f *fakeProvider) GetModel() string          { return "llama3-70b-8192" }
func (f *fakeProvider) GetTimeout() time.Duration { return time.Minute }
func (f *fakeProvider) Close() error              { return nil }

func cachedConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         10,
			TTL:             time.Minute,
			CleanupInterval: time.Hour,
		},
	}
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	fake := &fakeProvider{}
	svc := NewServiceWithProvider(&config.Config{}, fake, nil)

	_, err := svc.Complete(context.Background(), "   ")

	var tagged *common.CustomError
	require.ErrorAs(t, err, &tagged)
	assert.Equal(t, common.ErrCodeInvalidRequest, tagged.Code)
	assert.Equal(t, 0, fake.calls)
}

func TestCompleteWithoutCache(t *testing.T) {
	fake := &fakeProvider{response: "completion text"}
	svc := NewServiceWithProvider(&config.Config{}, fake, nil)

	out, err := svc.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "completion text", out)
	assert.Equal(t, 1, fake.calls)
}

func TestCompleteUsesCache(t *testing.T) {
	cfg := cachedConfig()
	manager := cache.NewManager(cfg)
	require.NotNil(t, manager)
	defer manager.Close()

	fake := &fakeProvider{response: "completion text"}
	svc := NewServiceWithProvider(cfg, fake, manager)

	out, err := svc.Complete(context.Background(), "same prompt")
	require.NoError(t, err)
	assert.Equal(t, "completion text", out)

	// second call is served from cache, no provider round trip
	out, err = svc.Complete(context.Background(), "same prompt")
	require.NoError(t, err)
	assert.Equal(t, "completion text", out)
	assert.Equal(t, 1, fake.calls)
}

func TestCompletePropagatesProviderError(t *testing.T) {
	fake := &fakeProvider{err: common.ErrClientUnavailable}
	svc := NewServiceWithProvider(&config.Config{}, fake, nil)

	_, err := svc.Complete(context.Background(), "prompt")

	var tagged *common.CustomError
	require.ErrorAs(t, err, &tagged)
	assert.Equal(t, common.ErrCodeClientUnavailable, tagged.Code)
}

func TestModel(t *testing.T) {
	svc := NewServiceWithProvider(&config.Config{}, &fakeProvider{}, nil)
	assert.Equal(t, "llama3-70b-8192", svc.Model())
}
