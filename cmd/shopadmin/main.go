// Command shopadmin runs the product dashboard in a browser or a terminal,
// prints the public product list and serves the reference product API.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yourusername/shopadmin/configs"
	"github.com/yourusername/shopadmin/internal/logging"
	"github.com/yourusername/shopadmin/internal/metrics"
	"github.com/yourusername/shopadmin/pkg/client"
)

// tuiLogFile receives the logs of the terminal dashboard unless the
// configuration already names a log file.
const tuiLogFile = "shopadmin-tui.log"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	configFile string
	envFiles   []string
	hotReload  bool
	verbose    bool

	config *configs.ViperConfig
	logger *zap.Logger
	level  zap.AtomicLevel
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "shopadmin",
		Short: "Product dashboard, storefront and reference product API",
		Long: `shopadmin talks to a product API and offers:

  serve     the public storefront and the admin dashboard in a browser
  tui       the admin dashboard in the terminal
  products  the public product list on stdout
  api       the reference product API (memory or PostgreSQL, page cache)

Configuration comes from --config, SHOPADMIN_* environment variables and
.env files, in increasing order of precedence for the environment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "configuration file (yaml or json)")
	flags.StringSliceVar(&a.envFiles, "env-file", []string{".env"}, "dotenv files loaded before the configuration")
	flags.BoolVar(&a.hotReload, "watch", false, "reload the configuration file when it changes")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newTUICmd(a),
		newAPICmd(a),
		newProductsCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := loadEnvFiles(a.envFiles); err != nil {
		return err
	}

	vc, err := configs.LoadViperConfig(a.configFile, a.hotReload)
	if err != nil {
		return err
	}
	cfg := vc.Get()

	logCfg := cfg.Log
	if cmd.Name() == "tui" && logCfg.Output != "file" {
		logCfg.Output = "file"
		logCfg.FilePath = tuiLogFile
	}
	logger, level, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if a.verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	vc.SetLogger(logger)
	vc.Subscribe(func(c *configs.Config) {
		if a.verbose {
			return
		}
		if err := logging.ApplyLevel(level, c.Log.Level); err != nil {
			logger.Warn("ignoring reloaded log level", zap.String("level", c.Log.Level), zap.Error(err))
		}
	})

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	a.config, a.logger, a.level = vc, logger, level
	return nil
}

// loadEnvFiles loads each dotenv file that exists. Variables already set in
// the environment win.
func loadEnvFiles(files []string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// newMetrics returns nil when metrics are disabled.
func (a *app) newMetrics() *metrics.Metrics {
	cfg := a.config.Get().Metrics
	if !cfg.Enable {
		return nil
	}
	return metrics.New(metrics.Config{
		Level:            metrics.Detailed,
		HistogramBuckets: cfg.HistogramBuckets,
	})
}

func (a *app) apiClient(m *metrics.Metrics) (*client.HTTPClient, error) {
	cfg := a.config.Get().API
	opts := []client.Option{client.WithTimeout(cfg.Timeout)}
	if cfg.ListPath != "" {
		opts = append(opts, client.WithListPath(cfg.ListPath))
	}
	if cfg.PagePath != "" {
		opts = append(opts, client.WithPagePath(cfg.PagePath))
	}
	if m != nil {
		opts = append(opts, client.WithRecorder(m))
	}
	c, err := client.New(cfg.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create product API client: %w", err)
	}
	return c, nil
}
