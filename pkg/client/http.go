package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/shopadmin/pkg/catalog"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

const (
	maxBodyBytes  = 8 << 20
	maxErrorBytes = 512
)

// HTTPClient talks to the product API over HTTP.
//
// HTTPClient 通过HTTP与产品API通信。
type HTTPClient struct {
	config *Config
	base   *url.URL
}

var _ ProductAPI = (*HTTPClient)(nil)

// New creates a client for the API rooted at baseURL.
//
// New 为以baseURL为根的API创建客户端。
//
// Parameters:
//   - baseURL: Scheme and host of the product API
//   - options: Functional options
//
// Returns:
//   - *HTTPClient: The client
//   - error: An error if the configuration is invalid
func New(baseURL string, options ...Option) (*HTTPClient, error) {
	config := NewDefaultConfig(baseURL)
	for _, option := range options {
		option(config)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: base URL must be absolute: %s", config.BaseURL)
	}

	return &HTTPClient{config: config, base: base}, nil
}

// ListAll implements ProductAPI.
func (c *HTTPClient) ListAll(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, OpList, http.MethodGet, c.config.ListPath, nil, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

// ListPage implements ProductAPI.
func (c *HTTPClient) ListPage(ctx context.Context, page int, filter catalog.Filter) (catalog.PageResult, error) {
	var result catalog.PageResult
	if err := c.do(ctx, OpPage, http.MethodGet, c.config.PagePath, filter.Query(page), nil, &result); err != nil {
		return catalog.PageResult{}, err
	}
	if result.Items == nil {
		result.Items = []catalog.Product{}
	}
	if result.CurrentPage == 0 {
		result.CurrentPage = page
	}
	return result, nil
}

// Update implements ProductAPI. The full product, including its sizes, is
// sent as the request body.
func (c *HTTPClient) Update(ctx context.Context, id string, product catalog.Product) (catalog.Product, error) {
	product.ID = id
	if product.Sizes == nil {
		product.Sizes = []catalog.SizeStock{}
	}

	var updated catalog.Product
	if err := c.do(ctx, OpUpdate, http.MethodPut, c.itemPath(id), nil, product, &updated); err != nil {
		return catalog.Product{}, err
	}
	if updated.ID == "" {
		// Some backends answer with an empty body or an acknowledgement.
		return product, nil
	}
	return updated, nil
}

// Delete implements ProductAPI.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, OpDelete, http.MethodDelete, c.itemPath(id), nil, nil, nil)
}

func (c *HTTPClient) itemPath(id string) string {
	return strings.TrimRight(c.config.ListPath, "/") + "/" + url.PathEscape(id)
}

// do performs one request and decodes a 2xx body into out (if non-nil).
// path must already be escaped.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) (err error) {
	start := time.Now()
	if c.config.Recorder != nil {
		defer func() {
			c.config.Recorder.RecordRequest(op, time.Since(start), err)
		}()
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	target := *c.base
	target.RawPath = c.base.EscapedPath() + path
	if target.Path, err = url.PathUnescape(target.RawPath); err != nil {
		return apperrors.NewOpError(op, err)
	}
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := c.config.Codec.Marshal(body)
		if err != nil {
			return apperrors.NewOpError(op, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return apperrors.NewOpError(op, err)
	}
	req.Header.Set("Accept", c.config.Codec.ContentType())
	if body != nil {
		req.Header.Set("Content-Type", c.config.Codec.ContentType())
	}

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return apperrors.NewOpError(op, fmt.Errorf("%w: %w", apperrors.ErrTransport, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return &apperrors.StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NewOpError(op, fmt.Errorf("%w: %w", apperrors.ErrTransport, err))
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := c.config.Codec.Unmarshal(data, out); err != nil {
		return apperrors.NewOpError(op, fmt.Errorf("%w: %w", apperrors.ErrDecode, err))
	}
	return nil
}
