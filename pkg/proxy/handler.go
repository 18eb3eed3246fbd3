package proxy

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

// MaxBodySize is the maximum request body the proxy buffers (10MB).
const MaxBodySize = 10 * 1024 * 1024

// handleHTTP offers the request to the interceptor and forwards it when
// the interceptor declines.
func (p *Proxy) handleHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// Buffer the body so the interceptor and the forwarder can both read it.
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize))
		if err != nil {
			p.log.Error("failed to read request body", "error", err)
			http.Error(w, "error reading request", http.StatusBadGateway)
			return
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	if p.interceptor != nil && p.interceptor.Intercept(w, r) {
		p.log.Debug("request intercepted",
			"method", r.Method, "host", r.Host, "path", r.URL.Path,
			"duration", time.Since(start))
		return
	}

	resp, err := p.forward(r)
	if err != nil {
		p.log.Error("failed to forward request",
			"method", r.Method, "host", r.Host, "error", err)
		http.Error(w, "error forwarding request: "+err.Error(), http.StatusBadGateway)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		p.log.Error("failed to copy upstream response", "error", err)
		return
	}

	p.log.Debug("request forwarded",
		"method", r.Method, "host", r.Host, "path", r.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start))
}

// forward sends the request to its upstream target.
func (p *Proxy) forward(r *http.Request) (*http.Response, error) {
	targetURL := r.URL.String()
	if r.URL.Host == "" {
		targetURL = "http://" + r.Host + r.URL.RequestURI()
	}

	out, err := http.NewRequestWithContext(r.Context(), r.Method, targetURL, r.Body)
	if err != nil {
		return nil, err
	}

	copyHeaders(out.Header, r.Header)
	removeHopByHopHeaders(out.Header)
	out.Header.Set("X-Forwarded-For", r.RemoteAddr)
	out.Header.Set("X-Forwarded-Host", r.Host)

	return p.client.Do(out)
}

// copyHeaders copies headers from src to dst.
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
}

// removeHopByHopHeaders removes headers that must not be forwarded.
func removeHopByHopHeaders(h http.Header) {
	for _, header := range []string{
		"Connection",
		"Keep-Alive",
		"Proxy-Authenticate",
		"Proxy-Authorization",
		"Proxy-Connection",
		"TE",
		"Trailers",
		"Transfer-Encoding",
		"Upgrade",
	} {
		h.Del(header)
	}
}
