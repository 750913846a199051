// Package catalogsvc is the reference product API the dashboard and the
// storefront talk to: gin handlers over a cache-aside service over a storage
// backend (in-memory or PostgreSQL).
package catalogsvc

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/shopadmin/pkg/catalog"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

// DefaultPageSize is used when a PageQuery carries no page size.
const DefaultPageSize = 12

// PageQuery selects one page of the filtered listing.
type PageQuery struct {
	Page     int
	PageSize int
	Filter   catalog.Filter
}

func (q PageQuery) normalized() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	q.Filter = q.Filter.Normalize()
	return q
}

// Storage persists products. Unknown ids yield apperrors.ErrNotFound.
type Storage interface {
	All(ctx context.Context) ([]catalog.Product, error)
	Page(ctx context.Context, q PageQuery) (catalog.PageResult, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
	Create(ctx context.Context, p catalog.Product) (catalog.Product, error)
	Update(ctx context.Context, id string, p catalog.Product) (catalog.Product, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// totalPages is ceil(total/pageSize), never below 1.
func totalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := int(math.Ceil(float64(total) / float64(pageSize)))
	if pages < 1 {
		return 1
	}
	return pages
}

func sortProducts(items []catalog.Product) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}

// paginate filters, orders and slices items. A page past the end is empty.
func paginate(items []catalog.Product, q PageQuery) catalog.PageResult {
	q = q.normalized()

	matched := make([]catalog.Product, 0, len(items))
	for _, p := range items {
		if q.Filter.Matches(p) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched)

	result := catalog.PageResult{
		Items:       []catalog.Product{},
		TotalPages:  totalPages(len(matched), q.PageSize),
		CurrentPage: q.Page,
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(matched) {
		return result
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	result.Items = catalog.CloneProducts(matched[start:end])
	return result
}

// MemoryStorage keeps products in a map and can simulate database latency.
type MemoryStorage struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
	latency  time.Duration
	accesses atomic.Int64
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns a storage holding copies of products. Products
// without an id get a fresh uuid.
func NewMemoryStorage(latency time.Duration, products ...catalog.Product) *MemoryStorage {
	s := &MemoryStorage{
		products: make(map[string]catalog.Product, len(products)),
		latency:  latency,
	}
	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.products[p.ID] = p.Clone()
	}
	return s
}

// Accesses reports how many storage calls have been served.
func (s *MemoryStorage) Accesses() int64 {
	return s.accesses.Load()
}

func (s *MemoryStorage) access(ctx context.Context) error {
	s.accesses.Add(1)
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MemoryStorage) All(ctx context.Context) ([]catalog.Product, error) {
	if err := s.access(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Clone())
	}
	sortProducts(out)
	return out, nil
}

func (s *MemoryStorage) Page(ctx context.Context, q PageQuery) (catalog.PageResult, error) {
	if err := s.access(ctx); err != nil {
		return catalog.PageResult{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		items = append(items, p)
	}
	return paginate(items, q), nil
}

func (s *MemoryStorage) Get(ctx context.Context, id string) (catalog.Product, error) {
	if err := s.access(ctx); err != nil {
		return catalog.Product{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, fmt.Errorf("get %q: %w", id, apperrors.ErrNotFound)
	}
	return p.Clone(), nil
}

func (s *MemoryStorage) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := s.access(ctx); err != nil {
		return catalog.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p = p.Clone()
	p.ID = uuid.NewString()
	s.products[p.ID] = p
	return p.Clone(), nil
}

func (s *MemoryStorage) Update(ctx context.Context, id string, p catalog.Product) (catalog.Product, error) {
	if err := s.access(ctx); err != nil {
		return catalog.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return catalog.Product{}, fmt.Errorf("update %q: %w", id, apperrors.ErrNotFound)
	}
	p = p.Clone()
	p.ID = id
	s.products[id] = p
	return p.Clone(), nil
}

func (s *MemoryStorage) Delete(ctx context.Context, id string) error {
	if err := s.access(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("delete %q: %w", id, apperrors.ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}

var (
	seedCategories = []string{"coats", "sweaters", "beds", "collars", "toys"}
	seedSizes      = []string{"XS", "S", "M", "L", "XL"}
)

// SeedProducts builds n deterministic demo products without ids.
func SeedProducts(n int) []catalog.Product {
	out := make([]catalog.Product, 0, n)
	for i := 1; i <= n; i++ {
		category := seedCategories[(i-1)%len(seedCategories)]
		sizes := make([]catalog.SizeStock, 0, 3)
		for j := 0; j < 3; j++ {
			sizes = append(sizes, catalog.SizeStock{
				Size:  seedSizes[(i+j)%len(seedSizes)],
				Stock: (i * (j + 3)) % 11,
			})
		}
		p := catalog.Product{
			Name:        fmt.Sprintf("Product %03d", i),
			Price:       math.Round(float64(i)*10.99*100) / 100,
			Description: fmt.Sprintf("Description for product %d", i),
			Category:    category,
			Image:       fmt.Sprintf("https://img.example.com/products/%03d/main.jpg", i),
			ImageOne:    fmt.Sprintf("https://img.example.com/products/%03d/1.jpg", i),
			ImageTwo:    fmt.Sprintf("https://img.example.com/products/%03d/2.jpg", i),
			Sizes:       sizes,
		}
		if i%4 == 0 {
			p.Offer = catalog.Offer(fmt.Sprintf("%d", 10+i%3*5))
		}
		out = append(out, p)
	}
	return out
}
