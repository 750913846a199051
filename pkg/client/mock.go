package client

import (
	"context"
	"sort"
	"sync"

	"github.com/yourusername/shopadmin/pkg/catalog"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

// PageRequest records the arguments of one ListPage call.
type PageRequest struct {
	Page   int
	Filter catalog.Filter
}

// MockAPI provides an in-memory ProductAPI for testing.
// Failures can be injected per operation and every call is counted.
//
// MockAPI 提供一个用于测试的内存ProductAPI实现。
// 可以按操作注入失败，并统计每次调用。
type MockAPI struct {
	mu       sync.Mutex
	products map[string]catalog.Product
	pageSize int

	listAllCalls  int
	listPageCalls int
	updateCalls   int
	deleteCalls   int
	pageRequests  []PageRequest
	updates       []catalog.Product

	// ListAllErr, ListPageErr, UpdateErr and DeleteErr are returned by the
	// corresponding operation when non-nil.
	ListAllErr  error
	ListPageErr error
	UpdateErr   error
	DeleteErr   error

	// BeforeListPage runs before a page is served, outside the lock, and may
	// block to simulate a slow response.
	BeforeListPage func(ctx context.Context, page int, filter catalog.Filter)
}

var _ ProductAPI = (*MockAPI)(nil)

// NewMockAPI creates a mock seeded with products, served pageSize at a time.
//
// NewMockAPI 创建一个以products为种子、每页pageSize条的模拟API。
//
// Parameters:
//   - pageSize: Items per page, values below 1 mean 10
//   - products: Initial products
//
// Returns:
//   - *MockAPI: A new mock instance
func NewMockAPI(pageSize int, products ...catalog.Product) *MockAPI {
	if pageSize < 1 {
		pageSize = 10
	}
	m := &MockAPI{
		products: make(map[string]catalog.Product, len(products)),
		pageSize: pageSize,
	}
	for _, p := range products {
		m.products[p.ID] = p.Clone()
	}
	return m
}

// ListAll implements ProductAPI.
func (m *MockAPI) ListAll(ctx context.Context) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listAllCalls++
	if m.ListAllErr != nil {
		return nil, m.ListAllErr
	}
	return m.sortedLocked(catalog.Filter{}), nil
}

// ListPage implements ProductAPI.
func (m *MockAPI) ListPage(ctx context.Context, page int, filter catalog.Filter) (catalog.PageResult, error) {
	m.mu.Lock()
	m.listPageCalls++
	m.pageRequests = append(m.pageRequests, PageRequest{Page: page, Filter: filter.Clone()})
	hook := m.BeforeListPage
	m.mu.Unlock()

	if hook != nil {
		hook(ctx, page, filter)
	}
	if err := ctx.Err(); err != nil {
		return catalog.PageResult{}, apperrors.NewOpError(OpPage, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListPageErr != nil {
		return catalog.PageResult{}, m.ListPageErr
	}

	items := m.sortedLocked(filter)
	totalPages := (len(items) + m.pageSize - 1) / m.pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * m.pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + m.pageSize
	if end > len(items) {
		end = len(items)
	}

	return catalog.PageResult{
		Items:       items[start:end],
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// Update implements ProductAPI.
func (m *MockAPI) Update(ctx context.Context, id string, product catalog.Product) (catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCalls++
	product = product.Clone()
	product.ID = id
	m.updates = append(m.updates, product.Clone())

	if m.UpdateErr != nil {
		return catalog.Product{}, m.UpdateErr
	}
	if _, ok := m.products[id]; !ok {
		return catalog.Product{}, &apperrors.StatusError{Op: OpUpdate, StatusCode: 404}
	}
	m.products[id] = product
	return product.Clone(), nil
}

// Delete implements ProductAPI.
func (m *MockAPI) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.products[id]; !ok {
		return &apperrors.StatusError{Op: OpDelete, StatusCode: 404}
	}
	delete(m.products, id)
	return nil
}

// Calls returns the number of ListAll, ListPage, Update and Delete calls.
//
// Calls 返回ListAll、ListPage、Update和Delete的调用次数。
func (m *MockAPI) Calls() (listAll, listPage, update, del int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listAllCalls, m.listPageCalls, m.updateCalls, m.deleteCalls
}

// PageRequests returns the arguments of every ListPage call, oldest first.
func (m *MockAPI) PageRequests() []PageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PageRequest, len(m.pageRequests))
	copy(out, m.pageRequests)
	return out
}

// Updates returns every product body received by Update, oldest first.
func (m *MockAPI) Updates() []catalog.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return catalog.CloneProducts(m.updates)
}

// Product returns the stored product with the given id.
func (m *MockAPI) Product(id string) (catalog.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	return p.Clone(), ok
}

// SetError sets the error returned by one operation (OpList, OpPage,
// OpUpdate or OpDelete); nil clears it.
func (m *MockAPI) SetError(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch op {
	case OpList:
		m.ListAllErr = err
	case OpPage:
		m.ListPageErr = err
	case OpUpdate:
		m.UpdateErr = err
	case OpDelete:
		m.DeleteErr = err
	}
}

func (m *MockAPI) sortedLocked(filter catalog.Filter) []catalog.Product {
	out := make([]catalog.Product, 0, len(m.products))
	for _, p := range m.products {
		if filter.Matches(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
