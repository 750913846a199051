package cache

import (
	"fmt"
	"time"

	"github.com/yourusername/shopadmin/pkg/codec"
)

// Config defines the configuration options for a cache instance.
// It controls behavior such as capacity limits and expiration.
//
// Config 定义缓存实例的配置选项。
// 它控制诸如容量限制和过期等行为。
type Config struct {
	// Name of the cache instance, used for logging
	// 缓存实例的名称，用于日志记录
	Name string `json:"name" yaml:"name"`

	// MaxEntries is the maximum number of entries the cache can hold
	// If set to 0, there is no limit on the number of entries
	//
	// MaxEntries 是缓存可以容纳的最大条目数
	// 如果设置为0，则条目数量没有限制
	MaxEntries int `json:"max_entries" yaml:"max_entries"`

	// DefaultTTL is the default time-to-live for cache entries
	// If set to 0, entries don't expire by default
	//
	// DefaultTTL 是缓存条目的默认生存时间
	// 如果设置为0，则条目默认不过期
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`

	// CleanupInterval is the interval at which expired items are cleaned up
	// If set to 0, expired items are only dropped when read
	//
	// CleanupInterval 是清理过期项目的时间间隔
	// 如果设置为0，过期项目仅在读取时删除
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`

	// KeyPrefix namespaces keys in shared stores such as Redis
	//
	// KeyPrefix 在Redis等共享存储中为键添加命名空间
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`

	// Codec is the serialization codec used by remote caches
	// If nil, the default JSON codec will be used
	//
	// Codec 是远程缓存使用的序列化编解码器
	// 如果为nil，将使用默认的JSON编解码器
	Codec codec.Codec `json:"-" yaml:"-"`
}

// NewDefaultConfig returns a Config with sensible default values.
//
// NewDefaultConfig 返回具有合理默认值的Config。
//
// Returns:
//   - *Config: A new configuration instance with default values
func NewDefaultConfig() *Config {
	return &Config{
		Name:            "shopadmin",
		MaxEntries:      10000,
		DefaultTTL:      2 * time.Minute,
		CleanupInterval: time.Minute,
		KeyPrefix:       "shopadmin:",
		Codec:           codec.DefaultCodec(),
	}
}

// Validate checks if the configuration is valid.
//
// Validate 检查配置是否有效。
//
// Returns:
//   - error: An error if the configuration is invalid, nil otherwise
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("cache name cannot be empty")
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("max entries cannot be negative")
	}
	if c.CleanupInterval < 0 {
		return fmt.Errorf("cleanup interval cannot be negative")
	}
	if c.Codec == nil {
		c.Codec = codec.DefaultCodec()
	}
	return nil
}
