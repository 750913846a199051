package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

// scanBatch is the COUNT hint passed to SCAN when deleting by prefix.
const scanBatch = 100

// RedisCache stores entries in Redis. Values other than []byte and string
// are encoded with the configured codec; Get always returns the stored
// bytes, which callers decode themselves.
//
// RedisCache 将条目存储在Redis中。[]byte和string以外的值
// 使用配置的编解码器编码；Get始终返回存储的字节，由调用者自行解码。
type RedisCache struct {
	client redis.UniversalClient
	config *Config

	hits   int64
	misses int64
}

var _ ICache = (*RedisCache)(nil)

// NewRedisCache creates a cache over an existing Redis client. The client is
// owned by the caller unless Close is called.
//
// NewRedisCache 在现有Redis客户端上创建缓存。
// 除非调用Close，否则客户端由调用者拥有。
//
// Parameters:
//   - client: A connected Redis client
//   - options: Options such as WithKeyPrefix, WithTTL and WithCodec
//
// Returns:
//   - *RedisCache: The created cache
//   - error: An error if the configuration is invalid
func NewRedisCache(client redis.UniversalClient, options ...Option) (*RedisCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}

	config := NewDefaultConfig()
	config.Name = "redis"
	for _, option := range options {
		option(config)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	return &RedisCache{client: client, config: config}, nil
}

// DialRedis connects to addr and verifies the connection with PING.
//
// DialRedis 连接到addr并通过PING验证连接。
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (c *RedisCache) key(key string) string {
	return c.config.KeyPrefix + key
}

// Get retrieves the stored bytes of key.
//
// Get 检索key存储的字节。
func (c *RedisCache) Get(ctx context.Context, key string) (interface{}, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	atomic.AddInt64(&c.hits, 1)
	return data, true, nil
}

// Set stores value under key.
//
// Set 将value存储在key下。
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		encoded, err := c.config.Codec.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %q: %w", key, err)
		}
		data = encoded
	}

	// Redis treats 0 as no expiry
	// Redis将0视为不过期
	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}
	if ttl < 0 {
		ttl = 0
	}

	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
//
// Delete 删除key。
func (c *RedisCache) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Del(ctx, c.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del %q: %w", key, err)
	}
	return n > 0, nil
}

// DeletePrefix removes every key starting with prefix using SCAN and DEL.
//
// DeletePrefix 使用SCAN和DEL删除以prefix开头的所有键。
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	pattern := c.key(escapeGlob(prefix)) + "*"
	removed := 0

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("redis scan %q: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("redis del: %w", err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

// Clear removes every key under the configured prefix.
//
// Clear 删除配置前缀下的所有键。
func (c *RedisCache) Clear(ctx context.Context) error {
	_, err := c.DeletePrefix(ctx, "")
	return err
}

// Stats returns hit and miss counts observed by this process.
//
// Stats 返回本进程观察到的命中和未命中次数。
func (c *RedisCache) Stats(ctx context.Context) (*Stats, error) {
	return &Stats{
		Hits:   atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}, nil
}

// Close closes the underlying client.
//
// Close 关闭底层客户端。
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// escapeGlob escapes the characters SCAN MATCH treats specially.
func escapeGlob(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
