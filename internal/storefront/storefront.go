// Package storefront implements the public product list: one fetch of every
// product on first mount, rendered as cards.
package storefront

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/shopadmin/pkg/catalog"
	"github.com/yourusername/shopadmin/pkg/client"
)

// List is the public product list. It is safe for concurrent use.
type List struct {
	api    client.ProductAPI
	logger *zap.Logger

	once     sync.Once
	mu       sync.RWMutex
	products []catalog.Product
	mounted  bool
}

// New creates an unmounted list.
func New(api client.ProductAPI, logger *zap.Logger) *List {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &List{
		api:      api,
		logger:   logger.Named("storefront"),
		products: []catalog.Product{},
	}
}

// Mount fetches all products on its first call. Later calls return
// immediately. A failed fetch is logged and leaves the list empty; it is not
// retried.
func (l *List) Mount(ctx context.Context) {
	l.once.Do(func() {
		products, err := l.api.ListAll(ctx)

		l.mu.Lock()
		defer l.mu.Unlock()
		l.mounted = true
		if err != nil {
			l.logger.Error("error fetching products", zap.Error(err))
			return
		}
		l.products = catalog.CloneProducts(products)
		if l.products == nil {
			l.products = []catalog.Product{}
		}
	})
}

// Products returns a copy of the loaded products.
func (l *List) Products() []catalog.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := catalog.CloneProducts(l.products)
	if out == nil {
		out = []catalog.Product{}
	}
	return out
}

// Mounted reports whether Mount has completed.
func (l *List) Mounted() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.mounted
}
