package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/shopadmin/internal/catalogsvc"
	"github.com/yourusername/shopadmin/internal/dashboard"
	"github.com/yourusername/shopadmin/internal/httpserver"
	"github.com/yourusername/shopadmin/internal/store"
	"github.com/yourusername/shopadmin/internal/tui"
	"github.com/yourusername/shopadmin/internal/web"
	"github.com/yourusername/shopadmin/pkg/client"
)

func newServeCmd(a *app) *cobra.Command {
	var withAPI bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront and the admin dashboard",
		Long: `Serves the public storefront at / and the admin dashboard at /admin.

With --with-api the reference product API runs in the same process on
backend.addr and the pages use it directly instead of api.base_url.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := a.config.Get()
			m := a.newMetrics()
			g, ctx := errgroup.WithContext(ctx)

			var api client.ProductAPI
			if withAPI {
				backend, err := catalogsvc.Open(ctx, cfg.Backend, a.logger, m)
				if err != nil {
					return err
				}
				defer func() {
					if err := backend.Close(); err != nil {
						a.logger.Warn("failed to close backend", zap.Error(err))
					}
				}()
				api = backend.Service

				srv := &http.Server{
					Addr:    cfg.Backend.Addr,
					Handler: catalogsvc.NewRouter(backend.Service, backend.Cache, m, a.logger),
				}
				g.Go(func() error {
					return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, a.logger)
				})
			} else {
				c, err := a.apiClient(m)
				if err != nil {
					return err
				}
				api = c
			}

			server, err := web.NewServer(cfg, api, a.logger, m)
			if err != nil {
				return err
			}
			g.Go(func() error { return server.Run(ctx) })
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&withAPI, "with-api", false, "run the reference product API in the same process")
	return cmd
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the admin dashboard in the terminal",
		Long: `Runs the admin dashboard in the terminal against api.base_url.
Logs go to ` + tuiLogFile + ` unless log.output is "file".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := a.config.Get()
			m := a.newMetrics()
			c, err := a.apiClient(m)
			if err != nil {
				return err
			}

			st := store.New(store.WithDiscardHook(func(store.Action, uint64) {
				m.RecordDiscard()
			}))
			ctrl := dashboard.New(c, st, a.logger,
				dashboard.WithInitialPage(cfg.Dashboard.InitialPage),
				dashboard.WithStrictSizes(cfg.Dashboard.StrictSizes),
			)
			return tui.Run(ctx, ctrl)
		},
	}
}

func newAPICmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve the reference product API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := a.config.Get()
			if addr == "" {
				addr = cfg.Backend.Addr
			}
			m := a.newMetrics()

			backend, err := catalogsvc.Open(ctx, cfg.Backend, a.logger, m)
			if err != nil {
				return err
			}
			defer func() {
				if err := backend.Close(); err != nil {
					a.logger.Warn("failed to close backend", zap.Error(err))
				}
			}()

			srv := &http.Server{
				Addr:         addr,
				Handler:      catalogsvc.NewRouter(backend.Service, backend.Cache, m, a.logger),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}
			return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout, a.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default backend.addr)")
	return cmd
}
