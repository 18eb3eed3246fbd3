// Package proxy provides the intercepting HTTP proxy that hosts the mock
// engine. Each request is offered to the interceptor before forwarding;
// if the interceptor produces a response, the upstream never sees the
// request.
//
// TLS interception is out of scope: CONNECT tunnels are refused.
package proxy

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/proxymock/proxymock/pkg/logging"
)

// DefaultUpstreamTimeout bounds one forwarded request.
const DefaultUpstreamTimeout = 30 * time.Second

// Interceptor is the hook consulted before forwarding each request. It
// reports whether it produced a response; declining passes the request
// through untouched.
type Interceptor interface {
	Intercept(w http.ResponseWriter, r *http.Request) bool
}

// Options configures a Proxy.
type Options struct {
	// Interceptor is offered every request before forwarding. Optional.
	Interceptor Interceptor
	// Client forwards upstream requests. Defaults to a client with
	// DefaultUpstreamTimeout.
	Client *http.Client
	// Logger for traffic logging. Defaults to a no-op logger.
	Logger *slog.Logger
}

// Proxy is a forwarding HTTP proxy with an interception hook.
type Proxy struct {
	interceptor Interceptor
	client      *http.Client
	log         *slog.Logger
}

// New creates a Proxy with the given options.
func New(opts Options) *Proxy {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultUpstreamTimeout}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Proxy{
		interceptor: opts.Interceptor,
		client:      client,
		log:         log,
	}
}

// ServeHTTP implements http.Handler for the proxy.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodConnect {
		p.log.Warn("CONNECT refused; TLS interception is not supported", "host", r.Host)
		http.Error(w, "CONNECT tunneling not supported", http.StatusNotImplemented)
		return
	}
	p.handleHTTP(w, r)
}
