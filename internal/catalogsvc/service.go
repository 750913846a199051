package catalogsvc

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/shopadmin/internal/metrics"
	"github.com/yourusername/shopadmin/pkg/cache"
	"github.com/yourusername/shopadmin/pkg/catalog"
	"github.com/yourusername/shopadmin/pkg/client"
	"github.com/yourusername/shopadmin/pkg/codec"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

// CachePrefix namespaces every cached listing. Mutations drop the whole prefix.
const CachePrefix = "products:"

const (
	keyAll  = CachePrefix + "all"
	keyPage = CachePrefix + "page?"
)

// ServiceOption configures a ProductService.
type ServiceOption func(*ProductService)

// WithCache enables cache-aside reads through c with the given TTL.
func WithCache(c cache.ICache, ttl time.Duration) ServiceOption {
	return func(s *ProductService) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithServiceCodec sets the codec used for cached values.
func WithServiceCodec(c codec.Codec) ServiceOption {
	return func(s *ProductService) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithPageSize sets the number of products per page.
func WithPageSize(n int) ServiceOption {
	return func(s *ProductService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *ProductService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records cache hits and misses.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *ProductService) {
		s.metrics = m
	}
}

// ProductService handles product business logic with caching.
// Listings are looked up in the cache first; on a miss they are loaded from
// storage and written back. Concurrent misses on one key share a single load.
// It satisfies client.ProductAPI, so the views can run against it in-process.
type ProductService struct {
	storage  Storage
	cache    cache.ICache
	codec    codec.Codec
	ttl      time.Duration
	pageSize int
	logger   *zap.Logger
	metrics  *metrics.Metrics
	group    singleflight.Group
}

var _ client.ProductAPI = (*ProductService)(nil)

// NewProductService creates a service over storage. Without WithCache every
// read goes to storage.
func NewProductService(storage Storage, opts ...ServiceOption) *ProductService {
	s := &ProductService{
		storage:  storage,
		codec:    codec.DefaultCodec(),
		pageSize: DefaultPageSize,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PageSize returns the configured page size.
func (s *ProductService) PageSize() int {
	return s.pageSize
}

// ListAll returns every product ordered by name.
func (s *ProductService) ListAll(ctx context.Context) ([]catalog.Product, error) {
	return loadCached(ctx, s, keyAll, func(ctx context.Context) ([]catalog.Product, error) {
		return s.storage.All(ctx)
	})
}

// ListPage returns one page of the filtered listing.
func (s *ProductService) ListPage(ctx context.Context, page int, filter catalog.Filter) (catalog.PageResult, error) {
	if page < 1 {
		page = 1
	}
	filter = filter.Normalize()
	key := keyPage + filter.Query(page).Encode()
	return loadCached(ctx, s, key, func(ctx context.Context) (catalog.PageResult, error) {
		return s.storage.Page(ctx, PageQuery{Page: page, PageSize: s.pageSize, Filter: filter})
	})
}

// Get returns a single product. Single products are not cached.
func (s *ProductService) Get(ctx context.Context, id string) (catalog.Product, error) {
	return s.storage.Get(ctx, id)
}

// Create validates and stores a new product.
func (s *ProductService) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := ValidateProduct(p); err != nil {
		return catalog.Product{}, err
	}
	created, err := s.storage.Create(ctx, p)
	if err != nil {
		return catalog.Product{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update validates and replaces the product identified by id.
func (s *ProductService) Update(ctx context.Context, id string, p catalog.Product) (catalog.Product, error) {
	if err := ValidateProduct(p); err != nil {
		return catalog.Product{}, err
	}
	updated, err := s.storage.Update(ctx, id, p)
	if err != nil {
		return catalog.Product{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes the product identified by id.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	n, err := s.cache.DeletePrefix(ctx, CachePrefix)
	if err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.Error(err))
		return
	}
	s.logger.Debug("product cache invalidated", zap.Int("keys", n))
}

// loadCached implements cache-aside for one key. Cache failures are logged
// and fall through to storage. Every caller decodes its own copy.
func loadCached[T any](ctx context.Context, s *ProductService, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.cache == nil {
		return load(ctx)
	}

	if raw, ok := s.cacheGet(ctx, key); ok {
		var out T
		err := s.codec.Unmarshal(raw, &out)
		if err == nil {
			s.logger.Debug("cache hit", zap.String("key", key))
			s.metrics.RecordCacheHit()
			return out, nil
		}
		s.logger.Warn("failed to decode cached value", zap.String("key", key), zap.Error(err))
	}

	s.logger.Debug("cache miss", zap.String("key", key))
	s.metrics.RecordCacheMiss()

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := s.codec.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.logger.Warn("failed to cache value", zap.String("key", key), zap.Error(err))
		}
		return raw, nil
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := s.codec.Unmarshal(v.([]byte), &out); err != nil {
		return zero, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

func (s *ProductService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	value, exists, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache error", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !exists {
		return nil, false
	}
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		s.logger.Warn("unexpected cached type", zap.String("key", key), zap.String("type", fmt.Sprintf("%T", value)))
		return nil, false
	}
}

// ValidateProduct rejects products the store must not accept: a blank name,
// a negative or non-finite price, blank or duplicate size labels and negative
// stock.
func ValidateProduct(p catalog.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidProduct)
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
		return fmt.Errorf("%w: price must be a non-negative number", apperrors.ErrInvalidProduct)
	}
	seen := make(map[string]struct{}, len(p.Sizes))
	for i, sz := range p.Sizes {
		label := strings.TrimSpace(sz.Size)
		if label == "" {
			return fmt.Errorf("%w: size %d has no label", apperrors.ErrInvalidProduct, i+1)
		}
		if sz.Stock < 0 {
			return fmt.Errorf("%w: size %q has negative stock", apperrors.ErrInvalidProduct, label)
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("%w: duplicate size %q", apperrors.ErrInvalidProduct, label)
		}
		seen[label] = struct{}{}
	}
	return nil
}
