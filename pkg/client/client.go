// Package client provides access to the remote product HTTP API used by the
// admin dashboard and the public storefront.
//
// Package client 提供对管理后台和公共店面使用的远程产品HTTP API的访问。
package client

import (
	"context"
	"time"

	"github.com/yourusername/shopadmin/pkg/catalog"
)

// Operation names reported to a Recorder and carried by errors.
const (
	OpList   = "list"
	OpPage   = "page"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ProductAPI defines the operations the views need from the product store.
// All methods are safe for concurrent use.
//
// ProductAPI 定义视图需要从产品存储获得的操作。
// 所有方法都可以并发调用。
type ProductAPI interface {
	// ListAll returns every product (GET /api/product).
	//
	// ListAll 返回所有产品（GET /api/product）。
	//
	// Parameters:
	//   - ctx: Context for the request, can be used for cancellation
	//
	// Returns:
	//   - []catalog.Product: All products, never nil on success
	//   - error: A transport, status or decode error
	ListAll(ctx context.Context) ([]catalog.Product, error)

	// ListPage returns one page of products matching the filter.
	//
	// ListPage 返回匹配过滤器的一页产品。
	//
	// Parameters:
	//   - ctx: Context for the request
	//   - page: The 1-based page number
	//   - filter: Category and size constraints
	//
	// Returns:
	//   - catalog.PageResult: The page with its pagination info
	//   - error: A transport, status or decode error
	ListPage(ctx context.Context, page int, filter catalog.Filter) (catalog.PageResult, error)

	// Update replaces the product identified by id (PUT /api/product/:id).
	//
	// Update 替换由id标识的产品（PUT /api/product/:id）。
	//
	// Returns:
	//   - catalog.Product: The product as stored by the server
	//   - error: A transport, status or decode error
	Update(ctx context.Context, id string, product catalog.Product) (catalog.Product, error)

	// Delete removes the product identified by id (DELETE /api/product/:id).
	//
	// Delete 删除由id标识的产品（DELETE /api/product/:id）。
	Delete(ctx context.Context, id string) error
}

// Recorder observes every request the client performs.
//
// Recorder 观察客户端执行的每个请求。
type Recorder interface {
	RecordRequest(op string, latency time.Duration, err error)
}
