// Package web serves the admin dashboard and the public storefront as
// server-rendered HTML. Every browser session gets its own dashboard
// controller and store; form posts drive the controller and redirect back.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/shopadmin/configs"
	"github.com/yourusername/shopadmin/internal/dashboard"
	"github.com/yourusername/shopadmin/internal/httpserver"
	"github.com/yourusername/shopadmin/internal/metrics"
	"github.com/yourusername/shopadmin/internal/middleware"
	"github.com/yourusername/shopadmin/internal/store"
	"github.com/yourusername/shopadmin/internal/storefront"
	"github.com/yourusername/shopadmin/pkg/client"
)

// Server is the browser UI.
type Server struct {
	config   *configs.Config
	api      client.ProductAPI
	logger   *zap.Logger
	metrics  *metrics.Metrics
	engine   *gin.Engine
	sessions *sessionStore
}

// NewServer builds the gin engine and its routes. m may be nil.
func NewServer(cfg *configs.Config, api client.ProductAPI, logger *zap.Logger, m *metrics.Metrics) (*Server, error) {
	if cfg == nil {
		cfg = configs.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:  cfg,
		api:     api,
		logger:  logger.Named("web"),
		metrics: m,
	}
	s.sessions = newSessionStore(sessionIdle, s.newSession)

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(s.logger), middleware.Recovery(s.logger))
	r.SetHTMLTemplate(tmpl)
	s.routes(r)
	s.engine = r
	return s, nil
}

func (s *Server) newSession(id string) *session {
	logger := s.logger.With(zap.String("session", id))
	st := store.New(store.WithDiscardHook(func(a store.Action, latest uint64) {
		s.metrics.RecordDiscard()
		logger.Debug("discarded stale response", zap.String("action", a.Name()), zap.Uint64("latest", latest))
	}))
	return &session{
		id: id,
		controller: dashboard.New(s.api, st, logger,
			dashboard.WithInitialPage(s.config.Dashboard.InitialPage),
			dashboard.WithStrictSizes(s.config.Dashboard.StrictSizes),
		),
		storefront: storefront.New(s.api, logger),
	}
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil && s.config.Metrics.Enable {
		path := s.config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(metrics.NewPrometheusExporter(s.metrics, "web")))
	}

	ui := r.Group("/", s.withSession)
	ui.GET("/", s.storefrontPage)

	admin := ui.Group("/admin")
	admin.GET("", s.dashboardPage)
	admin.POST("/refresh", s.refresh)
	admin.POST("/page", s.changePage)
	admin.POST("/filters", s.setFilters)
	admin.POST("/products/:id/delete", s.requestDelete)
	admin.POST("/delete/confirm", s.confirmDelete)
	admin.POST("/delete/cancel", s.cancelDelete)
	admin.POST("/products/:id/edit", s.startEdit)
	admin.POST("/products/:id/save", s.saveEdit)
	admin.POST("/edit/cancel", s.cancelEdit)
}

// withSession attaches the caller's session, issuing a cookie when the
// browser has none or an expired one.
func (s *Server) withSession(c *gin.Context) {
	id, _ := c.Cookie(sessionCookie)
	sess, created := s.sessions.acquire(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, sess.id, int(sessionIdle/time.Second), "/", "", false, true)
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func sessionOf(c *gin.Context) *session {
	return c.MustGet(sessionKey).(*session)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Server.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}
	return httpserver.Run(ctx, srv, s.config.Server.ShutdownTimeout, s.logger)
}
