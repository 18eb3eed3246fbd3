package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/proxymock/proxymock/pkg/admin"
	"github.com/proxymock/proxymock/pkg/config"
	"github.com/proxymock/proxymock/pkg/logging"
	"github.com/proxymock/proxymock/pkg/mockapi"
	"github.com/proxymock/proxymock/pkg/proxy"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

var serveFlags struct {
	config      string
	listen      string
	adminListen string
	logLevel    string
	logFormat   string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intercepting proxy",
	Long: `Start the proxy. Requests matching an action in the API definition are
answered from the in-memory dataset; everything else is forwarded upstream.

The API definition file is watched for changes and reloaded on the fly.`,
	Example: `  # Serve with defaults (api.json in the working directory)
  proxymock serve

  # Serve with a host config file
  proxymock serve --config proxymock.yaml`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVarP(&serveFlags.config, "config", "c", "", "host config file (YAML or JSON)")
	f.StringVarP(&serveFlags.listen, "listen", "l", "", "listen address (overrides config)")
	f.StringVar(&serveFlags.adminListen, "admin-listen", "", "admin API listen address (empty disables it)")
	f.StringVar(&serveFlags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&serveFlags.logFormat, "log-format", "", "log format: text or json")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if serveFlags.config != "" {
		var err error
		cfg, err = config.Load(serveFlags.config)
		if err != nil {
			return err
		}
	}
	if serveFlags.listen != "" {
		cfg.Listen = serveFlags.listen
	}
	if serveFlags.adminListen != "" {
		cfg.AdminListen = serveFlags.adminListen
	}
	if serveFlags.logLevel != "" {
		cfg.LogLevel = serveFlags.logLevel
	}
	if serveFlags.logFormat != "" {
		cfg.LogFormat = serveFlags.logFormat
	}

	logger := logging.New(logging.Options{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})

	loader := mockapi.NewLoader(cfg, logger)
	table, store := loader.Load()
	engine := mockapi.New(mockapi.Options{
		Table:  table,
		Store:  store,
		Logger: logger,
	})

	stopWatch := loader.Watch(engine)
	defer stopWatch()

	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: proxy.New(proxy.Options{Interceptor: engine, Logger: logger}),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()
	logger.Info("proxy listening", "addr", cfg.Listen, "api", loader.APIPath())

	var adminAPI *admin.API
	var adminErrCh <-chan error // nil when the admin API is disabled
	if cfg.AdminListen != "" {
		adminAPI = admin.New(admin.Options{
			Listen:  cfg.AdminListen,
			Engine:  engine,
			Loader:  loader,
			Version: Version,
			Logger:  logger,
		})
		adminErrCh = adminAPI.Start()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	shutdown := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if adminAPI != nil {
			if err := adminAPI.Shutdown(ctx); err != nil {
				logger.Error("admin API shutdown failed", "error", err)
			}
		}
		return server.Shutdown(ctx)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-adminErrCh:
		logger.Error("admin API failed", "error", err)
		return shutdown()
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		return shutdown()
	}
}
