package catalogsvc

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/shopadmin/internal/metrics"
	"github.com/yourusername/shopadmin/internal/middleware"
	"github.com/yourusername/shopadmin/pkg/cache"
	"github.com/yourusername/shopadmin/pkg/catalog"
	apperrors "github.com/yourusername/shopadmin/pkg/errors"
)

// Handler serves the product API over gin.
type Handler struct {
	service *ProductService
	logger  *zap.Logger
}

// NewHandler creates a handler for service.
func NewHandler(service *ProductService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the product routes on r, normally the /api/product group.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("", h.ListProducts)
	r.GET("/page", h.ListPage)
	r.GET("/:id", h.GetProduct)
	r.POST("", h.CreateProduct)
	r.PUT("/:id", h.UpdateProduct)
	r.DELETE("/:id", h.DeleteProduct)
}

// ListProducts handles GET /api/product.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ListPage handles GET /api/product/page?page=&category=&size=.
func (h *Handler) ListPage(c *gin.Context) {
	if raw := c.Query(catalog.ParamPage); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
	}
	page, filter := catalog.ParseQuery(c.Request.URL.Query())

	result, err := h.service.ListPage(c.Request.Context(), page, filter)
	if err != nil {
		h.fail(c, "page", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProduct handles GET /api/product/:id.
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /api/product.
func (h *Handler) CreateProduct(c *gin.Context) {
	var product catalog.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), product)
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/product/:id.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var product catalog.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), c.Param("id"), product)
	if err != nil {
		h.fail(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/product/:id.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("product request failed", zap.String("op", op), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewRouter assembles the product API engine: request logging, recovery,
// cache headers, the /api/product routes, /healthz, /cache/stats and
// /metrics.
func NewRouter(service *ProductService, c cache.ICache, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger))

	api := r.Group("/api/product")
	api.Use(middleware.CacheMetrics(c))
	NewHandler(service, logger).Register(api)

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/cache/stats", func(ctx *gin.Context) {
		if c == nil {
			ctx.JSON(http.StatusOK, gin.H{"enabled": false})
			return
		}
		stats, err := c.Stats(ctx.Request.Context())
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"enabled": true, "stats": stats})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(metrics.NewPrometheusExporter(m, "catalog")))
	}
	return r
}
