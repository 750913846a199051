// Package configs provides configuration structures and utilities for shopadmin.
// It offers mechanisms for loading, validating, and saving configuration from various sources
// including JSON and YAML files. The package defines one configuration structure
// shared by the admin UI, the terminal dashboard and the reference product API.
//
// Package configs 提供shopadmin的配置结构和工具。
// 它提供从各种来源（包括JSON和YAML文件）加载、验证和保存配置的机制。
// 该包定义了管理界面、终端仪表盘和参考产品API共用的配置结构。
package configs

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/shopadmin/pkg/codec"
)

// Config represents the complete configuration for shopadmin.
// It is organized into logical sections for the different components.
//
// Config 表示shopadmin的完整配置。
// 按不同组件的逻辑部分进行组织。
type Config struct {
	// API configures the client of the remote product API
	// API 配置远程产品API的客户端
	API APIConfig `json:"api" yaml:"api" mapstructure:"api"`

	// Dashboard configures the admin dashboard behavior
	// Dashboard 配置管理后台的行为
	Dashboard DashboardConfig `json:"dashboard" yaml:"dashboard" mapstructure:"dashboard"`

	// Server configures the browser UI HTTP server
	// Server 配置浏览器界面的HTTP服务器
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`

	// Backend configures the reference product API
	// Backend 配置参考产品API
	Backend BackendConfig `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Metrics configures request metrics collection
	// Metrics 配置请求指标收集
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`

	// Log configures the logging behavior
	// Log 配置日志行为
	Log LogConfig `json:"log" yaml:"log" mapstructure:"log"`

	// Extensions configures optional features like hot reloading
	// Extensions 配置可选功能，如热重载
	Extensions ExtensionsConfig `json:"extensions" yaml:"extensions" mapstructure:"extensions"`
}

// APIConfig contains settings for the product API client.
//
// APIConfig 包含产品API客户端的设置。
type APIConfig struct {
	// BaseURL is the absolute URL of the product API
	// BaseURL 是产品API的绝对URL
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds every request (0 = no timeout)
	// Timeout 限制每个请求的时间（0 = 无超时）
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// ListPath is the path of the list endpoint
	// ListPath 是列表端点的路径
	ListPath string `json:"list_path" yaml:"list_path" mapstructure:"list_path"`

	// PagePath is the path of the paginated list endpoint
	// PagePath 是分页列表端点的路径
	PagePath string `json:"page_path" yaml:"page_path" mapstructure:"page_path"`
}

// DashboardConfig contains settings for the admin dashboard.
//
// DashboardConfig 包含管理后台的设置。
type DashboardConfig struct {
	// InitialPage is the page fetched when the dashboard is mounted
	// InitialPage 是仪表盘挂载时获取的页码
	InitialPage int `json:"initial_page" yaml:"initial_page" mapstructure:"initial_page"`

	// StrictSizes rejects malformed "size,stock" rows instead of defaulting them
	// StrictSizes 拒绝格式错误的"size,stock"行，而不是使用默认值
	StrictSizes bool `json:"strict_sizes" yaml:"strict_sizes" mapstructure:"strict_sizes"`
}

// ServerConfig contains settings for the browser UI server.
//
// ServerConfig 包含浏览器界面服务器的设置。
type ServerConfig struct {
	// Addr is the listen address
	// Addr 是监听地址
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Mode is the gin mode ("debug", "release", "test")
	// Mode 是gin模式（"debug"、"release"、"test"）
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// ReadTimeout bounds reading a request
	// ReadTimeout 限制读取请求的时间
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout bounds writing a response
	// WriteTimeout 限制写入响应的时间
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown
	// ShutdownTimeout 限制优雅关闭的时间
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// BackendConfig contains settings for the reference product API.
//
// BackendConfig 包含参考产品API的设置。
type BackendConfig struct {
	// Addr is the listen address
	// Addr 是监听地址
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Storage selects the product storage ("memory", "postgres")
	// Storage 选择产品存储（"memory"、"postgres"）
	Storage string `json:"storage" yaml:"storage" mapstructure:"storage"`

	// DatabaseURL is the PostgreSQL connection string
	// DatabaseURL 是PostgreSQL连接字符串
	DatabaseURL string `json:"database_url" yaml:"database_url" mapstructure:"database_url"`

	// Cache selects the page cache ("memory", "redis", "none")
	// Cache 选择页面缓存（"memory"、"redis"、"none"）
	Cache string `json:"cache" yaml:"cache" mapstructure:"cache"`

	// RedisAddr is the Redis server address
	// RedisAddr 是Redis服务器地址
	RedisAddr string `json:"redis_addr" yaml:"redis_addr" mapstructure:"redis_addr"`

	// RedisPassword is the Redis password
	// RedisPassword 是Redis密码
	RedisPassword string `json:"redis_password" yaml:"redis_password" mapstructure:"redis_password"`

	// RedisDB is the Redis database number
	// RedisDB 是Redis数据库编号
	RedisDB int `json:"redis_db" yaml:"redis_db" mapstructure:"redis_db"`

	// CacheTTL is how long cached pages stay valid
	// CacheTTL 是缓存页面的有效时间
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// CacheCodec encodes cached pages ("json", "gob")
	// CacheCodec 是缓存页面的编码方式（"json"、"gob"）
	CacheCodec string `json:"cache_codec" yaml:"cache_codec" mapstructure:"cache_codec"`

	// PageSize is the number of products per page
	// PageSize 是每页的产品数量
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// SeedProducts is the number of demo products in memory storage
	// SeedProducts 是内存存储中的演示产品数量
	SeedProducts int `json:"seed_products" yaml:"seed_products" mapstructure:"seed_products"`

	// Latency delays every memory storage call, for demos
	// Latency 延迟每次内存存储调用，用于演示
	Latency time.Duration `json:"latency" yaml:"latency" mapstructure:"latency"`
}

// MetricsConfig contains settings for metrics collection.
//
// MetricsConfig 包含指标收集的设置。
type MetricsConfig struct {
	// Enable determines whether metrics collection is active
	// Enable 确定是否启用指标收集
	Enable bool `json:"enable" yaml:"enable" mapstructure:"enable"`

	// Path is where the Prometheus text is served
	// Path 是提供Prometheus文本的路径
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// HistogramBuckets defines latency histogram buckets in milliseconds
	// HistogramBuckets 定义延迟直方图桶（毫秒）
	HistogramBuckets []float64 `json:"histogram_buckets" yaml:"histogram_buckets" mapstructure:"histogram_buckets"`
}

// LogConfig contains settings for logging.
// These settings control the logging behavior, including
// log level, format, and output destination.
//
// LogConfig 包含日志记录的设置。
// 这些设置控制日志行为，包括日志级别、格式和输出目的地。
type LogConfig struct {
	// Level sets the minimum log level ("debug", "info", "warn", "error")
	// Level 设置最低日志级别（"debug"、"info"、"warn"、"error"）
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format specifies the log format ("text", "json")
	// Format 指定日志格式（"text"、"json"）
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output determines where logs are written ("stdout", "stderr", "file")
	// Output 确定日志写入的位置（"stdout"、"stderr"、"file"）
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// FilePath is the path to the log file when Output is "file"
	// FilePath 是当Output为"file"时的日志文件路径
	FilePath string `json:"file_path" yaml:"file_path" mapstructure:"file_path"`
}

// ExtensionsConfig contains settings for extensions.
//
// ExtensionsConfig 包含扩展的设置。
type ExtensionsConfig struct {
	// HotReload contains settings for dynamic configuration reloading
	// HotReload 包含动态配置重新加载的设置
	HotReload HotReloadConfig `json:"hot_reload" yaml:"hot_reload" mapstructure:"hot_reload"`
}

// HotReloadConfig contains settings for hot reloading.
// These settings control how configuration changes are
// detected and applied without restart.
//
// HotReloadConfig 包含热重载的设置。
// 这些设置控制如何检测和应用配置更改而无需重启。
type HotReloadConfig struct {
	// Enable determines whether hot reloading is active
	// Enable 确定是否启用热重载
	Enable bool `json:"enable" yaml:"enable" mapstructure:"enable"`
}

// DefaultConfig returns a new Config with default values.
//
// DefaultConfig 返回具有默认值的新Config。
//
// Returns:
//   - *Config: A new configuration instance with default values
//
// 返回：
//   - *Config: 具有默认值的新配置实例
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  "http://localhost:3000",
			Timeout:  0,
			ListPath: "/api/product",
			PagePath: "/api/product/page",
		},
		Dashboard: DashboardConfig{
			InitialPage: 1,
			StrictSizes: false,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Backend: BackendConfig{
			Addr:         ":3000",
			Storage:      "memory",
			Cache:        "memory",
			RedisAddr:    "localhost:6379",
			CacheTTL:     2 * time.Minute,
			CacheCodec:   "json",
			PageSize:     12,
			SeedProducts: 40,
		},
		Metrics: MetricsConfig{
			Enable:           true,
			Path:             "/metrics",
			HistogramBuckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Extensions: ExtensionsConfig{
			HotReload: HotReloadConfig{
				Enable: false,
			},
		},
	}
}

// LoadFromFile loads configuration from a file.
// It supports both YAML and JSON formats, automatically
// detecting the format based on the file extension.
//
// LoadFromFile 从文件加载配置。
// 它支持YAML和JSON格式，根据文件扩展名自动检测格式。
//
// Parameters:
//   - filename: Path to the configuration file
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
//
// 参数：
//   - filename: 配置文件的路径
//
// 返回：
//   - *Config: 加载的配置
//   - error: 如果加载失败则返回错误
func LoadFromFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer file.Close()

	config := DefaultConfig()
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(file).Decode(config)
	case ".json":
		err = json.NewDecoder(file).Decode(config)
	default:
		return nil, fmt.Errorf("unsupported configuration file format: %s", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return config, nil
}

// LoadFromReader loads configuration from an io.Reader.
// This allows loading configuration from sources other than files,
// such as network streams or in-memory data.
//
// LoadFromReader 从io.Reader加载配置。
// 这允许从文件以外的源加载配置，
// 如网络流或内存中的数据。
//
// Parameters:
//   - r: The reader providing the configuration data
//   - format: The format of the data ("json", "yaml", or "yml")
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
//
// 参数：
//   - r: 提供配置数据的读取器
//   - format: 数据的格式（"json"、"yaml"或"yml"）
//
// 返回：
//   - *Config: 加载的配置
//   - error: 如果加载失败则返回错误
func LoadFromReader(r io.Reader, format string) (*Config, error) {
	config := DefaultConfig()
	var err error

	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(config)
	case "json":
		err = json.NewDecoder(r).Decode(config)
	default:
		return nil, fmt.Errorf("unsupported configuration format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a file.
// It supports both YAML and JSON formats, automatically
// selecting the format based on the file extension.
//
// SaveToFile 将配置保存到文件。
// 它支持YAML和JSON格式，根据文件扩展名自动选择格式。
//
// Parameters:
//   - filename: Path where the configuration will be saved
//
// Returns:
//   - error: An error if saving fails
//
// 参数：
//   - filename: 配置将保存的路径
//
// 返回：
//   - error: 如果保存失败则返回错误
func (c *Config) SaveToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".yaml", ".yml":
		encoder := yaml.NewEncoder(file)
		defer encoder.Close()
		err = encoder.Encode(c)
	case ".json":
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(c)
	default:
		return fmt.Errorf("unsupported configuration file format: %s", ext)
	}

	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	return nil
}

// Validate validates the configuration.
// It checks that all settings have valid values and
// that there are no conflicts or inconsistencies.
//
// Validate 验证配置。
// 它检查所有设置是否具有有效值，
// 并且没有冲突或不一致。
//
// Returns:
//   - error: An error describing the validation failure, or nil if valid
//
// 返回：
//   - error: 描述验证失败的错误，如果有效则为nil
func (c *Config) Validate() error {
	// Validate API settings
	// 验证API设置
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be non-negative")
	}
	if !strings.HasPrefix(c.API.ListPath, "/") || !strings.HasPrefix(c.API.PagePath, "/") {
		return fmt.Errorf("api.list_path and api.page_path must start with '/'")
	}

	// Validate dashboard settings
	// 验证仪表盘设置
	if c.Dashboard.InitialPage < 1 {
		return fmt.Errorf("dashboard.initial_page must be at least 1")
	}

	// Validate server settings
	// 验证服务器设置
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be specified")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
		// Valid modes
		// 有效模式
	default:
		return fmt.Errorf("server.mode must be one of: debug, release, test")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must be non-negative")
	}

	// Validate backend settings
	// 验证后端设置
	if c.Backend.Addr == "" {
		return fmt.Errorf("backend.addr must be specified")
	}
	switch c.Backend.Storage {
	case "memory":
	case "postgres":
		if c.Backend.DatabaseURL == "" {
			return fmt.Errorf("backend.database_url must be specified when backend.storage is 'postgres'")
		}
	default:
		return fmt.Errorf("backend.storage must be one of: memory, postgres")
	}
	switch c.Backend.Cache {
	case "memory", "none":
	case "redis":
		if c.Backend.RedisAddr == "" {
			return fmt.Errorf("backend.redis_addr must be specified when backend.cache is 'redis'")
		}
	default:
		return fmt.Errorf("backend.cache must be one of: memory, redis, none")
	}
	if _, err := codec.GetCodec(c.Backend.CacheCodec); err != nil {
		return fmt.Errorf("backend.cache_codec must be one of: json, gob")
	}
	if c.Backend.CacheTTL < 0 {
		return fmt.Errorf("backend.cache_ttl must be non-negative")
	}
	if c.Backend.PageSize <= 0 {
		return fmt.Errorf("backend.page_size must be positive")
	}
	if c.Backend.SeedProducts < 0 {
		return fmt.Errorf("backend.seed_products must be non-negative")
	}

	// Validate metrics settings
	// 验证指标设置
	if c.Metrics.Enable && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/'")
	}

	// Validate log settings
	// 验证日志设置
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
		// 有效级别
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
		// Valid formats
		// 有效格式
	default:
		return fmt.Errorf("log.format must be one of: text, json")
	}
	switch c.Log.Output {
	case "stdout", "stderr", "file":
		// Valid outputs
		// 有效输出
	default:
		return fmt.Errorf("log.output must be one of: stdout, stderr, file")
	}
	if c.Log.Output == "file" && c.Log.FilePath == "" {
		return fmt.Errorf("log.file_path must be specified when log.output is 'file'")
	}

	return nil
}
