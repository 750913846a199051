// Package middleware holds the gin middleware shared by the web UI and the
// reference product API.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/shopadmin/pkg/cache"
)

// RequestLogger logs one line per request with method, path, status, latency
// and client IP.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// Recovery turns a panic into a 500 and logs it with the request path.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// CacheMetrics adds the page cache counters to the response headers.
// Headers are written before the handler runs, so they describe the cache as
// the request found it.
func CacheMetrics(cacheInstance cache.ICache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cacheInstance == nil {
			c.Next()
			return
		}

		stats, err := cacheInstance.Stats(c.Request.Context())
		if err == nil {
			c.Header("X-Cache-Hits", fmt.Sprintf("%d", stats.Hits))
			c.Header("X-Cache-Misses", fmt.Sprintf("%d", stats.Misses))
			c.Header("X-Cache-Hit-Ratio", fmt.Sprintf("%.2f", stats.HitRatio()))
			c.Header("X-Cache-Entries", fmt.Sprintf("%d", stats.EntryCount))
		}

		c.Next()
	}
}
