// Package configs provides configuration structures and utilities for shopadmin.
// This file implements Viper-based configuration management with environment
// overrides and hot reloading support.
//
// Package configs 提供shopadmin的配置结构和工具。
// 本文件实现基于Viper的配置管理，支持环境变量覆盖和热重载。
package configs

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. SHOPADMIN_API_BASE_URL for api.base_url.
//
// EnvPrefix 是覆盖设置的环境变量前缀，
// 例如SHOPADMIN_API_BASE_URL对应api.base_url。
const EnvPrefix = "SHOPADMIN"

// ViperConfig wraps a Config with Viper functionality for hot reloading.
// It provides thread-safe access to configuration and supports dynamic
// updates when the underlying configuration file changes.
//
// ViperConfig 使用Viper功能包装Config以支持热重载。
// 它提供对配置的线程安全访问，并支持在底层配置文件更改时进行动态更新。
type ViperConfig struct {
	config      *Config         // Current configuration / 当前配置
	viper       *viper.Viper    // Viper instance for configuration management / 用于配置管理的Viper实例
	configFile  string          // Path to the configuration file, may be empty / 配置文件路径，可以为空
	logger      *zap.Logger     // Logger for reload events / 重载事件的日志记录器
	mu          sync.RWMutex    // Mutex for thread-safe access / 用于线程安全访问的互斥锁
	subscribers []func(*Config) // List of subscribers to notify on config changes / 配置更改时要通知的订阅者列表
}

// NewViperConfig creates a new ViperConfig.
// Settings are resolved from defaults, then the configuration file (when
// configFile is not empty), then SHOPADMIN_* environment variables.
//
// NewViperConfig 创建一个新的ViperConfig。
// 设置依次从默认值、配置文件（当configFile不为空时）、
// SHOPADMIN_*环境变量解析。
//
// Parameters:
//   - configFile: Path to the configuration file, or "" for none
//
// Returns:
//   - *ViperConfig: A new ViperConfig instance
//   - error: An error if loading or validation fails
//
// 参数：
//   - configFile: 配置文件的路径，或""表示无
//
// 返回：
//   - *ViperConfig: 一个新的ViperConfig实例
//   - error: 如果加载或验证失败则返回错误
func NewViperConfig(configFile string) (*ViperConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		ext := filepath.Ext(configFile)
		v.SetConfigType(strings.TrimPrefix(ext, "."))

		// Read the config file
		// 读取配置文件
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config, err := decode(v)
	if err != nil {
		return nil, err
	}

	return &ViperConfig{
		config:      config,
		viper:       v,
		configFile:  configFile,
		logger:      zap.NewNop(),
		subscribers: make([]func(*Config), 0),
	}, nil
}

// SetLogger sets the logger used to report reloads.
//
// SetLogger 设置用于报告重载的日志记录器。
func (vc *ViperConfig) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.logger = logger.Named("config")
}

// EnableHotReload enables hot reloading of the configuration file.
// When the configuration file changes, the configuration is automatically
// reloaded and all subscribers are notified. Invalid changes are logged
// and ignored. Without a configuration file this is a no-op.
//
// EnableHotReload 启用配置文件的热重载。
// 当配置文件更改时，配置会自动重新加载，并通知所有订阅者。
// 无效的更改会被记录并忽略。没有配置文件时不执行任何操作。
func (vc *ViperConfig) EnableHotReload() {
	if vc.configFile == "" {
		return
	}
	vc.viper.OnConfigChange(func(e fsnotify.Event) {
		vc.reload(e.Name)
	})
	vc.viper.WatchConfig()
}

func (vc *ViperConfig) reload(name string) {
	vc.mu.RLock()
	logger := vc.logger
	vc.mu.RUnlock()

	logger.Info("config file changed", zap.String("file", name))

	newConfig, err := decode(vc.viper)
	if err != nil {
		logger.Error("config reload rejected", zap.Error(err))
		return
	}

	// Update the config
	// 更新配置
	vc.mu.Lock()
	vc.config = newConfig
	subscribers := make([]func(*Config), len(vc.subscribers))
	copy(subscribers, vc.subscribers)
	vc.mu.Unlock()

	// Notify subscribers
	// 通知订阅者
	for _, subscriber := range subscribers {
		subscriber(newConfig)
	}
}

// Subscribe adds a subscriber that will be notified when the configuration changes.
// The subscriber function is called with the new configuration as its argument.
//
// Subscribe 添加一个在配置更改时将被通知的订阅者。
// 订阅者函数将以新配置作为其参数被调用。
//
// Parameters:
//   - subscriber: A function to call when the configuration changes
//
// 参数：
//   - subscriber: 配置更改时要调用的函数
func (vc *ViperConfig) Subscribe(subscriber func(*Config)) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.subscribers = append(vc.subscribers, subscriber)
}

// Get returns the current configuration.
// This method is thread-safe and can be called concurrently.
//
// Get 返回当前配置。
// 此方法是线程安全的，可以并发调用。
//
// Returns:
//   - *Config: The current configuration
//
// 返回：
//   - *Config: 当前配置
func (vc *ViperConfig) Get() *Config {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.config
}

// LoadViperConfig loads a configuration using Viper.
// It optionally enables hot reloading based on the enableHotReload parameter.
//
// LoadViperConfig 使用Viper加载配置。
// 它根据enableHotReload参数可选地启用热重载。
//
// Parameters:
//   - configFile: Path to the configuration file, or "" for none
//   - enableHotReload: Whether to enable hot reloading
//
// Returns:
//   - *ViperConfig: A new ViperConfig instance
//   - error: An error if loading fails
//
// 参数：
//   - configFile: 配置文件的路径，或""表示无
//   - enableHotReload: 是否启用热重载
//
// 返回：
//   - *ViperConfig: 一个新的ViperConfig实例
//   - error: 如果加载失败则返回错误
func LoadViperConfig(configFile string, enableHotReload bool) (*ViperConfig, error) {
	vc, err := NewViperConfig(configFile)
	if err != nil {
		return nil, err
	}

	if enableHotReload || vc.Get().Extensions.HotReload.Enable {
		vc.EnableHotReload()
	}

	return vc, nil
}

func decode(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// setDefaults registers every key so that environment variables are
// honored by Unmarshal even when the file does not mention the key.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("api.base_url", c.API.BaseURL)
	v.SetDefault("api.timeout", c.API.Timeout)
	v.SetDefault("api.list_path", c.API.ListPath)
	v.SetDefault("api.page_path", c.API.PagePath)

	v.SetDefault("dashboard.initial_page", c.Dashboard.InitialPage)
	v.SetDefault("dashboard.strict_sizes", c.Dashboard.StrictSizes)

	v.SetDefault("server.addr", c.Server.Addr)
	v.SetDefault("server.mode", c.Server.Mode)
	v.SetDefault("server.read_timeout", c.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", c.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)

	v.SetDefault("backend.addr", c.Backend.Addr)
	v.SetDefault("backend.storage", c.Backend.Storage)
	v.SetDefault("backend.database_url", c.Backend.DatabaseURL)
	v.SetDefault("backend.cache", c.Backend.Cache)
	v.SetDefault("backend.redis_addr", c.Backend.RedisAddr)
	v.SetDefault("backend.redis_password", c.Backend.RedisPassword)
	v.SetDefault("backend.redis_db", c.Backend.RedisDB)
	v.SetDefault("backend.cache_ttl", c.Backend.CacheTTL)
	v.SetDefault("backend.cache_codec", c.Backend.CacheCodec)
	v.SetDefault("backend.page_size", c.Backend.PageSize)
	v.SetDefault("backend.seed_products", c.Backend.SeedProducts)
	v.SetDefault("backend.latency", c.Backend.Latency)

	v.SetDefault("metrics.enable", c.Metrics.Enable)
	v.SetDefault("metrics.path", c.Metrics.Path)
	v.SetDefault("metrics.histogram_buckets", c.Metrics.HistogramBuckets)

	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.output", c.Log.Output)
	v.SetDefault("log.file_path", c.Log.FilePath)

	v.SetDefault("extensions.hot_reload.enable", c.Extensions.HotReload.Enable)
}
