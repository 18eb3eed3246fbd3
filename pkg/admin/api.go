// Package admin exposes a small REST API for inspecting the running mock
// engine: health, active routes, recorded outcomes, and a reload trigger.
// It listens on its own address, separate from the proxy listener.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/proxymock/proxymock/pkg/logging"
	"github.com/proxymock/proxymock/pkg/mockapi"
)

// API serves the admin endpoints.
type API struct {
	engine  *mockapi.Engine
	loader  *mockapi.Loader
	version string

	httpServer *http.Server
	startTime  time.Time
	log        *slog.Logger
}

// Options configures the admin API.
type Options struct {
	// Listen is the address the admin server binds to.
	Listen string
	// Engine is the running mock engine. Required.
	Engine *mockapi.Engine
	// Loader rebuilds the route table for POST /reload. Optional; without
	// it reload answers 503.
	Loader *mockapi.Loader
	// Version reported by GET /status.
	Version string
	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// New creates the admin API.
func New(opts Options) *API {
	a := &API{
		engine:    opts.Engine,
		loader:    opts.Loader,
		version:   opts.Version,
		startTime: time.Now(),
		log:       opts.Logger,
	}
	if a.log == nil {
		a.log = logging.Nop()
	}

	mux := http.NewServeMux()
	a.registerRoutes(mux)
	a.httpServer = &http.Server{
		Addr:    opts.Listen,
		Handler: mux,
	}
	return a
}

// registerRoutes sets up the admin routes.
func (a *API) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /status", a.handleStatus)
	mux.HandleFunc("GET /routes", a.handleListRoutes)
	mux.HandleFunc("GET /outcomes", a.handleListOutcomes)
	mux.HandleFunc("DELETE /outcomes", a.handleClearOutcomes)
	mux.HandleFunc("POST /reload", a.handleReload)
}

// Handler returns the admin handler, for serving on an existing listener.
func (a *API) Handler() http.Handler {
	return a.httpServer.Handler
}

// Start begins serving in a background goroutine. Errors other than
// graceful shutdown are reported on the returned channel.
func (a *API) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("admin API listening", "addr", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// Shutdown gracefully stops the admin server.
func (a *API) Shutdown(ctx context.Context) error {
	return a.httpServer.Shutdown(ctx)
}

// Uptime reports how long the admin API has been up.
func (a *API) Uptime() string {
	return time.Since(a.startTime).Round(time.Second).String()
}
