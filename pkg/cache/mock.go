package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockCache provides a simple in-memory cache implementation for testing.
// Every operation is counted and failures can be injected.
//
// MockCache 提供一个简单的内存缓存实现，用于测试。
// 每个操作都会被计数，并且可以注入失败。
type MockCache struct {
	name string
	data map[string]mockEntry
	mu   sync.Mutex

	stats         Stats
	sets          int
	prefixDeletes []string

	// GetErr and SetErr are returned by Get and Set when non-nil.
	GetErr error
	SetErr error
}

// mockEntry represents an item in the mock cache.
//
// mockEntry 表示模拟缓存中的一个项目。
type mockEntry struct {
	value interface{}
	ttl   time.Duration
}

var _ ICache = (*MockCache)(nil)

// NewMockCache creates a new mock cache for testing. Entries never expire.
//
// NewMockCache 创建一个新的模拟缓存，用于测试。条目永不过期。
//
// Parameters:
//   - name: The name of the cache
//
// Returns:
//   - *MockCache: A new mock cache instance
func NewMockCache(name string) *MockCache {
	return &MockCache{
		name: name,
		data: make(map[string]mockEntry),
	}
}

// Get retrieves a value from the cache.
//
// Get 从缓存中检索值。
func (c *MockCache) Get(ctx context.Context, key string) (interface{}, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	entry, exists := c.data[key]
	if !exists {
		c.stats.Misses++
		return nil, false, nil
	}
	c.stats.Hits++
	return entry.value, true, nil
}

// Set adds a value to the cache and remembers its TTL.
//
// Set 将值添加到缓存中并记录其TTL。
func (c *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets++
	if c.SetErr != nil {
		return c.SetErr
	}
	c.data[key] = mockEntry{value: value, ttl: ttl}
	return nil
}

// Delete removes a value from the cache.
//
// Delete 从缓存中删除值。
func (c *MockCache) Delete(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.data[key]
	delete(c.data, key)
	return exists, nil
}

// DeletePrefix removes every value whose key starts with prefix.
//
// DeletePrefix 删除键以prefix开头的所有值。
func (c *MockCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prefixDeletes = append(c.prefixDeletes, prefix)
	removed := 0
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
			removed++
		}
	}
	return removed, nil
}

// Clear removes all values from the cache.
//
// Clear 删除缓存中的所有值。
func (c *MockCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]mockEntry)
	return nil
}

// Stats returns statistics about the cache.
//
// Stats 返回有关缓存的统计信息。
func (c *MockCache) Stats(ctx context.Context) (*Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.EntryCount = int64(len(c.data))
	return &s, nil
}

// Close cleans up resources used by the cache.
//
// Close 清理缓存使用的资源。
func (c *MockCache) Close() error {
	return c.Clear(context.Background())
}

// Keys returns the stored keys.
//
// Keys 返回存储的键。
func (c *MockCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.data))
	for key := range c.data {
		keys = append(keys, key)
	}
	return keys
}

// TTL returns the TTL key was last set with.
//
// TTL 返回key最后一次设置时的TTL。
func (c *MockCache) TTL(key string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data[key]
	return entry.ttl, ok
}

// Sets returns how many times Set was called.
//
// Sets 返回Set被调用的次数。
func (c *MockCache) Sets() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

// PrefixDeletes returns the prefixes passed to DeletePrefix.
//
// PrefixDeletes 返回传递给DeletePrefix的前缀。
func (c *MockCache) PrefixDeletes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prefixDeletes))
	copy(out, c.prefixDeletes)
	return out
}
