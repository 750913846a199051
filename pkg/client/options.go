package client

import (
	"errors"
	"net/http"
	"time"

	"github.com/yourusername/shopadmin/pkg/codec"
)

// Default endpoint paths of the product API.
const (
	DefaultListPath = "/api/product"
	DefaultPagePath = "/api/product/page"
)

// Config holds the settings of an HTTPClient.
//
// Config 保存HTTPClient的设置。
type Config struct {
	// BaseURL is the scheme and host of the product API, e.g. http://localhost:3000
	// BaseURL 是产品API的协议和主机
	BaseURL string

	// ListPath serves the full listing and, suffixed with /:id, updates and deletes
	// ListPath 提供完整列表，并以/:id后缀提供更新和删除
	ListPath string

	// PagePath serves the paginated, filterable listing
	// PagePath 提供分页、可过滤的列表
	PagePath string

	// Timeout bounds each request; 0 means no timeout
	// Timeout 限制每个请求的时间；0表示没有超时
	Timeout time.Duration

	// HTTPClient performs the requests
	// HTTPClient 执行请求
	HTTPClient *http.Client

	// Codec encodes request bodies and decodes responses
	// Codec 编码请求体并解码响应
	Codec codec.Codec

	// Recorder observes requests, may be nil
	// Recorder 观察请求，可以为nil
	Recorder Recorder
}

// Option is a function that configures a Config.
//
// Option 是一个配置Config的函数。
type Option func(*Config)

// WithHTTPClient sets the underlying *http.Client.
//
// WithHTTPClient 设置底层的*http.Client。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = hc
	}
}

// WithTimeout bounds every request. A zero duration disables the bound.
//
// WithTimeout 限制每个请求的时间。零值禁用限制。
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithCodec sets the body codec.
//
// WithCodec 设置正文编解码器。
func WithCodec(cd codec.Codec) Option {
	return func(c *Config) {
		c.Codec = cd
	}
}

// WithRecorder installs a request observer.
//
// WithRecorder 安装请求观察者。
func WithRecorder(r Recorder) Option {
	return func(c *Config) {
		c.Recorder = r
	}
}

// WithListPath overrides the listing path.
func WithListPath(path string) Option {
	return func(c *Config) {
		c.ListPath = path
	}
}

// WithPagePath overrides the paginated listing path.
func WithPagePath(path string) Option {
	return func(c *Config) {
		c.PagePath = path
	}
}

// NewDefaultConfig returns the configuration used when no option is given.
//
// NewDefaultConfig 返回未提供任何选项时使用的配置。
func NewDefaultConfig(baseURL string) *Config {
	return &Config{
		BaseURL:    baseURL,
		ListPath:   DefaultListPath,
		PagePath:   DefaultPagePath,
		HTTPClient: http.DefaultClient,
		Codec:      codec.DefaultCodec(),
	}
}

// Validate checks that the configuration is usable.
//
// Validate 检查配置是否可用。
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("client: base URL is required")
	}
	if c.ListPath == "" || c.PagePath == "" {
		return errors.New("client: endpoint paths are required")
	}
	if c.Timeout < 0 {
		return errors.New("client: timeout must be non-negative")
	}
	if c.HTTPClient == nil {
		return errors.New("client: http client is required")
	}
	if c.Codec == nil {
		return errors.New("client: codec is required")
	}
	return nil
}
