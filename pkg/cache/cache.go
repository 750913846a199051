// Package cache provides the thread-safe caches used in front of product
// storage. It offers an in-process TTL map and a Redis-backed implementation
// behind one interface, so services can cache list pages without caring
// where the entries live.
//
// Package cache 提供产品存储前面使用的线程安全缓存。
// 它在同一接口后提供进程内TTL映射和基于Redis的实现，
// 使服务无需关心条目存放位置即可缓存列表页。
package cache

import (
	"context"
	"time"
)

// ICache is a key/value cache with per-entry TTL and prefix invalidation.
// Product listings are stored under a shared prefix so that one
// DeletePrefix call drops every cached page after a write.
//
// ICache 是支持条目级TTL和前缀失效的键值缓存。
// 产品列表存储在共同前缀下，写入后一次DeletePrefix调用即可删除所有缓存页。
type ICache interface {
	// Get returns the value stored under key. A missing or expired key
	// yields (nil, false, nil); an error means the backend failed.
	//
	// Get 返回key下存储的值。键不存在或已过期时返回(nil, false, nil)；
	// 返回错误表示后端失败。
	Get(ctx context.Context, key string) (interface{}, bool, error)

	// Set stores value under key. A zero ttl selects the configured
	// default; a negative ttl never expires.
	//
	// Set 在key下存储value。ttl为0时使用配置的默认值；负数表示永不过期。
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - key: Cache key, e.g. "products:page?page=2"
	//   - value: The value to store; the Redis backend requires []byte or string
	//   - ttl: Time-to-live for the entry
	//
	// 参数：
	//   - ctx: 操作的上下文
	//   - key: 缓存键，例如"products:page?page=2"
	//   - value: 要存储的值；Redis后端要求[]byte或string
	//   - ttl: 条目的生存时间
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes key and reports whether it was present.
	//
	// Delete 删除key并报告其是否存在。
	Delete(ctx context.Context, key string) (bool, error)

	// DeletePrefix removes every key starting with prefix and returns how
	// many were removed.
	//
	// DeletePrefix 删除所有以prefix开头的键，并返回删除的数量。
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Clear removes every entry owned by this cache.
	//
	// Clear 删除此缓存拥有的所有条目。
	Clear(ctx context.Context) error

	// Stats returns a snapshot of the hit, miss and eviction counters.
	//
	// Stats 返回命中、未命中和淘汰计数器的快照。
	Stats(ctx context.Context) (*Stats, error)

	// Close releases the backend. The cache must not be used afterwards.
	//
	// Close 释放后端资源。之后不得再使用该缓存。
	Close() error
}

// Stats is a snapshot of cache counters.
//
// Stats 是缓存计数器的快照。
type Stats struct {
	// EntryCount is the number of live entries
	// EntryCount 是当前条目数量
	EntryCount int64 `json:"entries"`

	// Hits counts lookups that found a live entry
	// Hits 统计找到有效条目的查找次数
	Hits int64 `json:"hits"`

	// Misses counts lookups that found nothing
	// Misses 统计未找到条目的查找次数
	Misses int64 `json:"misses"`

	// Evictions counts entries dropped to make room
	// Evictions 统计为腾出空间而删除的条目数
	Evictions int64 `json:"evictions"`

	// Expired counts entries dropped because their TTL elapsed
	// Expired 统计因TTL到期而删除的条目数
	Expired int64 `json:"expired"`
}

// HitRatio returns Hits / (Hits + Misses), or 0 before the first lookup.
//
// HitRatio 返回 Hits / (Hits + Misses)，首次查找之前返回0。
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
