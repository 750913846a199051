package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// basicCache is an in-process TTL cache. When MaxEntries is reached the
// oldest inserted entry is evicted.
//
// basicCache 是一个进程内TTL缓存。达到MaxEntries时淘汰最早插入的条目。
type basicCache struct {
	name       string
	items      map[string]cacheItem
	mu         sync.RWMutex
	config     *Config
	stats      Stats
	statsLock  sync.Mutex
	defaultTTL time.Duration
	nextSeq    uint64

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// cacheItem represents a single item in the cache with its value and expiration time
//
// cacheItem 表示缓存中的单个项目及其值和过期时间
type cacheItem struct {
	value      interface{}
	expiration time.Time
	seq        uint64
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.expiration.IsZero() && now.After(i.expiration)
}

// NewWithOptions creates a new cache instance with the provided options.
// It allows functional configuration of the cache.
//
// NewWithOptions 创建一个具有提供的选项的新缓存实例。
// 它允许缓存的函数式配置。
//
// Parameters:
//   - name: The name of the cache instance
//   - options: A list of option functions to configure the cache
//
// Returns:
//   - ICache: The created cache instance
//   - error: An error if the cache creation fails
func NewWithOptions(name string, options ...Option) (ICache, error) {
	config := NewDefaultConfig()
	config.Name = name

	// Apply all options
	for _, option := range options {
		option(config)
	}

	return New(config)
}

// New creates a new cache instance with the provided configuration.
// If config is nil, default configuration will be used. When the cleanup
// interval is positive a background sweeper runs until Close.
//
// New 创建一个具有提供的配置的新缓存实例。
// 如果config为nil，将使用默认配置。当清理间隔为正时，
// 后台清理协程将一直运行到Close。
//
// Parameters:
//   - config: The configuration to use for the cache
//
// Returns:
//   - ICache: The created cache instance
//   - error: An error if the cache creation fails
func New(config *Config) (ICache, error) {
	if config == nil {
		config = NewDefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	c := &basicCache{
		name:       config.Name,
		items:      make(map[string]cacheItem),
		config:     config,
		defaultTTL: config.DefaultTTL,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}

	if config.CleanupInterval > 0 {
		go c.sweepLoop(config.CleanupInterval)
	} else {
		close(c.done)
	}

	return c, nil
}

// Get retrieves a value from the cache.
//
// Get 从缓存中检索值。
func (c *basicCache) Get(ctx context.Context, key string) (interface{}, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		c.recordMiss()
		return nil, false, nil
	}

	// Check if the item has expired
	// 检查项目是否已过期
	if item.expired(time.Now()) {
		c.mu.Lock()
		if cur, ok := c.items[key]; ok && cur.seq == item.seq {
			delete(c.items, key)
			c.statsLock.Lock()
			c.stats.Expired++
			c.statsLock.Unlock()
		}
		c.mu.Unlock()
		c.recordMiss()
		return nil, false, nil
	}

	c.recordHit()
	return item.value, true, nil
}

// Set adds a value to the cache with the specified TTL.
//
// Set 将值添加到缓存中，并指定TTL。
func (c *basicCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Use the provided TTL, or the default if not specified
	// 使用提供的TTL，如果未指定则使用默认值
	expiration := time.Time{}
	if ttl > 0 {
		expiration = time.Now().Add(ttl)
	} else if ttl == 0 && c.defaultTTL > 0 {
		expiration = time.Now().Add(c.defaultTTL)
	}

	if _, exists := c.items[key]; !exists && c.config.MaxEntries > 0 && len(c.items) >= c.config.MaxEntries {
		c.evictLocked()
	}

	c.nextSeq++
	c.items[key] = cacheItem{
		value:      value,
		expiration: expiration,
		seq:        c.nextSeq,
	}

	return nil
}

// Delete removes a value from the cache.
//
// Delete 从缓存中删除值。
func (c *basicCache) Delete(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.items[key]
	if !exists {
		return false, nil
	}

	delete(c.items, key)
	return true, nil
}

// DeletePrefix removes every value whose key starts with prefix.
//
// DeletePrefix 删除键以prefix开头的所有值。
func (c *basicCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			removed++
		}
	}
	return removed, nil
}

// Clear removes all values from the cache.
//
// Clear 删除缓存中的所有值。
func (c *basicCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]cacheItem)
	return nil
}

// Stats returns statistics about the cache.
//
// Stats 返回有关缓存的统计信息。
func (c *basicCache) Stats(ctx context.Context) (*Stats, error) {
	c.mu.RLock()
	entries := int64(len(c.items))
	c.mu.RUnlock()

	c.statsLock.Lock()
	defer c.statsLock.Unlock()

	// Create a copy of the stats to avoid concurrent modification
	// 创建统计信息的副本以避免并发修改
	statsCopy := c.stats
	statsCopy.EntryCount = entries
	return &statsCopy, nil
}

// Close stops the sweeper and drops every entry.
//
// Close 停止清理协程并删除所有条目。
func (c *basicCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
	})
	<-c.done
	return c.Clear(context.Background())
}

// evictLocked removes the oldest inserted entry, preferring expired ones.
//
// evictLocked 删除最早插入的条目，优先删除已过期的条目。
func (c *basicCache) evictLocked() {
	now := time.Now()
	var (
		victim    string
		victimSeq uint64
		found     bool
	)
	for key, item := range c.items {
		if item.expired(now) {
			delete(c.items, key)
			c.statsLock.Lock()
			c.stats.Expired++
			c.statsLock.Unlock()
			return
		}
		if !found || item.seq < victimSeq {
			victim, victimSeq, found = key, item.seq, true
		}
	}
	if found {
		delete(c.items, victim)
		c.statsLock.Lock()
		c.stats.Evictions++
		c.statsLock.Unlock()
	}
}

func (c *basicCache) sweepLoop(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep drops all expired entries.
//
// sweep 删除所有过期条目。
func (c *basicCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	removed := int64(0)
	for key, item := range c.items {
		if item.expired(now) {
			delete(c.items, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.statsLock.Lock()
		c.stats.Expired += removed
		c.statsLock.Unlock()
	}
}

// recordHit increments the hit counter in the cache statistics.
//
// recordHit 增加缓存统计中的命中计数器。
func (c *basicCache) recordHit() {
	c.statsLock.Lock()
	defer c.statsLock.Unlock()
	c.stats.Hits++
}

// recordMiss increments the miss counter in the cache statistics.
//
// recordMiss 增加缓存统计中的未命中计数器。
func (c *basicCache) recordMiss() {
	c.statsLock.Lock()
	defer c.statsLock.Unlock()
	c.stats.Misses++
}
