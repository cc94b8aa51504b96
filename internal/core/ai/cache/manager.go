package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"mealflow/internal/infrastructure/config"
	"mealflow/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager caches completions keyed by prompt hash. The backend is
// Redis when an address is configured and an in-process map otherwise.
type CacheManager struct {
	config *config.Config
	redis  *RedisCache // nil for the local backend
	mu     sync.Mutex
	store  map[string]cacheEntry
	stats  CacheStats
	done   chan struct{}
}

type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// CacheStats is the running hit/miss accounting
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Errors    int64 `json:"errors"`
}

// NewManager creates the cache manager. Returns nil when the cache is
// disabled; callers treat a nil manager as a pass-through.
func NewManager(cfg *config.Config) *CacheManager {
	if !cfg.Cache.Enabled {
		common.LogInfo("completion cache disabled")
		return nil
	}

	m := &CacheManager{
		config: cfg,
		store:  make(map[string]cacheEntry),
		done:   make(chan struct{}),
	}

	if cfg.Cache.RedisAddr != "" {
		redisCache, err := NewRedisCache(&cfg.Cache)
		if err != nil {
			common.LogWarn("Redis cache unavailable, falling back to in-memory cache",
				zap.String("addr", cfg.Cache.RedisAddr),
				zap.Error(err),
			)
		} else {
			m.redis = redisCache
		}
	}

	go m.startCleanup()

	common.LogInfo("completion cache initialized",
		zap.Bool("redis", m.redis != nil),
		zap.Int("max_size", cfg.Cache.MaxSize),
		zap.Duration("ttl", cfg.Cache.TTL),
		zap.Duration("cleanup_interval", cfg.Cache.CleanupInterval),
	)

	return m
}

// Get returns the cached completion for a prompt
func (m *CacheManager) Get(ctx context.Context, prompt string) (string, error) {
	if m == nil {
		return "", common.ErrCacheDisabled
	}

	key := hashPrompt(prompt)

	if m.redis != nil {
		value, err := m.redis.Get(ctx, key)
		if err != nil {
			m.countError()
			return "", err
		}
		if value == "" {
			m.countMiss()
			common.LogCacheMiss("redis", key)
			return "", common.ErrCacheDisabled
		}
		m.countHit()
		common.LogCacheHit("redis", key)
		return value, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.Misses++
		common.LogCacheMiss("memory", key)
		return "", common.ErrCacheDisabled
	}

	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.Evictions++
		m.stats.Misses++
		common.LogCacheMiss("memory", key)
		return "", common.ErrCacheDisabled
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.Hits++
	common.LogCacheHit("memory", key)
	return entry.value, nil
}

// Set stores a completion for a prompt
func (m *CacheManager) Set(ctx context.Context, prompt, value string) error {
	if m == nil {
		return nil
	}

	key := hashPrompt(prompt)

	if m.redis != nil {
		if err := m.redis.Set(ctx, key, value); err != nil {
			m.countError()
			return err
		}
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.config.Cache.MaxSize {
		evicted := m.cleanupLocked()
		if evicted == 0 && len(m.store) >= m.config.Cache.MaxSize {
			m.evictLRULocked()
		}
		if len(m.store) >= m.config.Cache.MaxSize {
			m.stats.Errors++
			common.LogWarn("completion cache full",
				zap.Int("size", len(m.store)),
			)
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	m.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.config.Cache.TTL),
		createdAt:  now,
		lastAccess: now,
	}

	return nil
}

// Stats returns a copy of the running statistics
func (m *CacheManager) Stats() CacheStats {
	if m == nil {
		return CacheStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Close stops the cleanup goroutine and closes the Redis connection
func (m *CacheManager) Close() error {
	if m == nil {
		return nil
	}
	close(m.done)
	if m.redis != nil {
		return m.redis.Close()
	}
	return nil
}

func (m *CacheManager) countHit() {
	m.mu.Lock()
	m.stats.Hits++
	m.mu.Unlock()
}

func (m *CacheManager) countMiss() {
	m.mu.Lock()
	m.stats.Misses++
	m.mu.Unlock()
}

func (m *CacheManager) countError() {
	m.mu.Lock()
	m.stats.Errors++
	m.mu.Unlock()
}

// hashPrompt derives the cache key from the prompt text
func hashPrompt(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

// startCleanup evicts expired entries on an interval until Close
func (m *CacheManager) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			count := m.cleanupLocked()
			m.mu.Unlock()
			if count > 0 {
				common.LogInfo("cleaned up expired cache entries",
					zap.Int("count", count),
				)
			}
		case <-m.done:
			return
		}
	}
}

// cleanupLocked removes expired entries. Caller holds the lock.
func (m *CacheManager) cleanupLocked() int {
	now := time.Now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.Evictions++
		}
	}
	return count
}

// evictLRULocked removes the least recently used entry. Caller holds
// the lock.
func (m *CacheManager) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.Evictions++
	}
}
