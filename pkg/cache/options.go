package cache

import (
	"time"

	"github.com/yourusername/shopadmin/pkg/codec"
)

// Option is a function that configures a Config.
// This pattern allows for flexible and readable configuration of cache instances.
//
// Option 是一个配置Config的函数。
// 这种模式允许灵活且可读地配置缓存实例。
type Option func(*Config)

// WithMaxEntryCount sets the maximum number of entries in the cache.
// If set to 0, there is no limit on the number of entries.
//
// WithMaxEntryCount 设置缓存中的最大条目数。
// 如果设置为0，则条目数量没有限制。
//
// Parameters:
//   - count: The maximum number of entries
//
// Returns:
//   - Option: A configuration option
func WithMaxEntryCount(count int) Option {
	return func(c *Config) {
		c.MaxEntries = count
	}
}

// WithTTL sets the default time-to-live for cache entries.
// If set to 0, entries don't expire by default.
//
// WithTTL 设置缓存条目的默认生存时间。
// 如果设置为0，则条目默认不过期。
//
// Parameters:
//   - ttl: The default time-to-live duration
//
// Returns:
//   - Option: A configuration option
func WithTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.DefaultTTL = ttl
	}
}

// WithCleanupInterval sets how often expired entries are swept.
//
// WithCleanupInterval 设置清理过期条目的频率。
func WithCleanupInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.CleanupInterval = interval
	}
}

// WithKeyPrefix sets the namespace prepended to keys in shared stores.
//
// WithKeyPrefix 设置共享存储中键的命名空间前缀。
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// WithCodec sets the codec used to serialize values for remote caches.
//
// WithCodec 设置远程缓存序列化值使用的编解码器。
//
// Parameters:
//   - codec: The codec to use
//
// Returns:
//   - Option: A configuration option
func WithCodec(codec codec.Codec) Option {
	return func(c *Config) {
		c.Codec = codec
	}
}
