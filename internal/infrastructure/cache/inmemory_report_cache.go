package cache

import (
	"context"
	"sync"
	"time"

	"github.com/solepos/backend/internal/application/report"
)

// entry represents a stored report with expiration
type entry struct {
	value     []byte
	expiresAt time.Time
}

// InMemoryReportCache implements the report Cache in process memory.
// It suits single-instance deployments and tests.
type InMemoryReportCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	generation int64
	stopChan   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewInMemoryReportCache creates a new in-memory cache and starts
// a background goroutine that drops expired entries
func NewInMemoryReportCache() *InMemoryReportCache {
	c := &InMemoryReportCache{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached bytes unless missing or expired
func (c *InMemoryReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores bytes with a TTL
func (c *InMemoryReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Generation returns the current generation
func (c *InMemoryReportCache) Generation(ctx context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation, nil
}

// BumpGeneration starts a new generation and drops every stored entry
func (c *InMemoryReportCache) BumpGeneration(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.entries = make(map[string]entry)
	return c.generation, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryReportCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryReportCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryReportCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of stored entries (for testing/monitoring)
func (c *InMemoryReportCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryReportCache implements report.Cache
var _ report.Cache = (*InMemoryReportCache)(nil)
