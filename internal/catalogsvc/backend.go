package catalogsvc

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/shopadmin/configs"
	"github.com/yourusername/shopadmin/internal/metrics"
	"github.com/yourusername/shopadmin/pkg/cache"
	"github.com/yourusername/shopadmin/pkg/codec"
)

// Backend bundles the storage, page cache and service built from a
// BackendConfig.
type Backend struct {
	Service *ProductService
	Storage Storage
	Cache   cache.ICache
}

// Open builds the storage and cache selected by cfg. Postgres storage gets its
// schema and, when empty, the configured number of seed products.
func Open(ctx context.Context, cfg configs.BackendConfig, logger *zap.Logger, m *metrics.Metrics) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheCodec, err := codec.GetCodec(cfg.CacheCodec)
	if err != nil {
		return nil, err
	}

	storage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	pageCache, err := openCache(ctx, cfg, cacheCodec)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	opts := []ServiceOption{
		WithPageSize(cfg.PageSize),
		WithLogger(logger),
		WithMetrics(m),
		WithServiceCodec(cacheCodec),
	}
	if pageCache != nil {
		opts = append(opts, WithCache(pageCache, cfg.CacheTTL))
	}

	logger.Info("product backend ready",
		zap.String("storage", cfg.Storage),
		zap.String("cache", cfg.Cache),
		zap.String("cache_codec", cacheCodec.Name()),
		zap.Int("page_size", cfg.PageSize),
	)
	return &Backend{
		Service: NewProductService(storage, opts...),
		Storage: storage,
		Cache:   pageCache,
	}, nil
}

// Close releases the cache and the storage.
func (b *Backend) Close() error {
	var errs []error
	if b.Cache != nil {
		errs = append(errs, b.Cache.Close())
	}
	errs = append(errs, b.Storage.Close())
	return errors.Join(errs...)
}

func openStorage(ctx context.Context, cfg configs.BackendConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Storage {
	case "", "memory":
		return NewMemoryStorage(cfg.Latency, SeedProducts(cfg.SeedProducts)...), nil
	case "postgres":
		pg, err := NewPostgresStorage(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		n, err := pg.SeedIfEmpty(ctx, SeedProducts(cfg.SeedProducts))
		if err != nil {
			_ = pg.Close()
			return nil, err
		}
		if n > 0 {
			logger.Info("seeded products table", zap.Int("rows", n))
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

func openCache(ctx context.Context, cfg configs.BackendConfig, cd codec.Codec) (cache.ICache, error) {
	switch cfg.Cache {
	case "none":
		return nil, nil
	case "", "memory":
		return cache.NewWithOptions("products", cache.WithTTL(cfg.CacheTTL), cache.WithCodec(cd))
	case "redis":
		client, err := cache.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		rc, err := cache.NewRedisCache(client, cache.WithTTL(cfg.CacheTTL), cache.WithCodec(cd))
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache %q", cfg.Cache)
	}
}
