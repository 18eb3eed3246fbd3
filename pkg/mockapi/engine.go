package mockapi

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/proxymock/proxymock/pkg/config"
	"github.com/proxymock/proxymock/pkg/document"
	"github.com/proxymock/proxymock/pkg/logging"
	"github.com/proxymock/proxymock/pkg/routing"
)

// handlerFunc executes one CRUD operation. The query expression arrives
// with placeholders already substituted.
type handlerFunc func(query string, body []byte) *Response

// Engine matches intercepted requests against the route table and
// answers them from the document store.
type Engine struct {
	log      *slog.Logger
	store    *document.Store
	table    atomic.Pointer[routing.Table]
	outcomes *OutcomeLog
	handlers map[config.Op]handlerFunc
}

// Options configures an Engine.
type Options struct {
	// Table is the initial route table. Defaults to an empty table.
	Table *routing.Table
	// Store is the document store. Defaults to an unset store.
	Store *document.Store
	// Logger receives outcome log lines. Defaults to a no-op logger.
	Logger *slog.Logger
	// OutcomeCapacity bounds the in-memory outcome log.
	OutcomeCapacity int
}

// New creates an Engine. The operation-kind dispatch table is resolved
// here, once, not per request.
func New(opts Options) *Engine {
	e := &Engine{
		log:      opts.Logger,
		store:    opts.Store,
		outcomes: NewOutcomeLog(opts.OutcomeCapacity),
	}
	if e.log == nil {
		e.log = logging.Nop()
	}
	if e.store == nil {
		e.store = document.New()
	}
	table := opts.Table
	if table == nil {
		table = routing.Empty()
	}
	e.table.Store(table)

	e.handlers = map[config.Op]handlerFunc{
		config.OpCreate:  e.create,
		config.OpGetAll:  e.getAll,
		config.OpGetOne:  e.getOne,
		config.OpGetMany: e.getMany,
		config.OpMerge:   e.merge,
		config.OpUpdate:  e.update,
		config.OpDelete:  e.remove,
	}
	return e
}

// Store returns the engine's document store.
func (e *Engine) Store() *document.Store {
	return e.store
}

// Table returns the active route table.
func (e *Engine) Table() *routing.Table {
	return e.table.Load()
}

// SwapTable atomically replaces the route table. In-flight matches keep
// the table they loaded; no request sees a mix of old and new routes.
func (e *Engine) SwapTable(t *routing.Table) {
	if t == nil {
		t = routing.Empty()
	}
	e.table.Store(t)
}

// Outcomes returns the in-memory outcome log.
func (e *Engine) Outcomes() *OutcomeLog {
	return e.outcomes
}

// Intercept implements the proxy hook: it reports whether the engine
// produced a response for the request. Unmatched requests decline and
// pass through to the upstream.
func (e *Engine) Intercept(w http.ResponseWriter, r *http.Request) bool {
	resp := e.Handle(r)
	if resp == nil {
		return false
	}
	if err := resp.Write(w); err != nil {
		e.log.Error("failed to write mocked response", "error", err)
	}
	return true
}

// Handle matches the request and, on a match, executes the action and
// synthesizes the response. It returns nil when no route matches.
func (e *Engine) Handle(r *http.Request) *Response {
	route, params, ok := e.table.Load().Match(r.Method, requestURL(r))
	if !ok {
		return nil
	}

	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	resp := e.execute(route, params, body)

	if r.Header.Get("Origin") != "" {
		resp.Header.Set("Access-Control-Allow-Origin", "*")
	}

	e.record(r.Method, route, resp)
	return resp
}

// execute runs the route's handler. A panic in query resolution or
// mutation is contained to this request and answered as 500.
func (e *Engine) execute(route *routing.Route, params routing.Params, body []byte) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = errorResponse(fmt.Errorf("internal error: %v", rec))
		}
	}()

	handler := e.handlers[route.Action.Op]
	if handler == nil {
		return errorResponse(fmt.Errorf("unknown action kind %q", route.Action.Op))
	}
	return handler(params.Expand(route.Action.Query), body)
}

// record emits the outcome log line and appends to the outcome ring.
// Deliberate 404s count as mocked; only 5xx answers are failures.
func (e *Engine) record(method string, route *routing.Route, resp *Response) {
	outcome := OutcomeMocked
	if resp.StatusCode >= http.StatusInternalServerError {
		outcome = OutcomeFailed
	}

	entry := &Entry{
		Method:  method,
		URL:     route.Pattern().String(),
		Op:      route.Action.Op,
		Status:  resp.StatusCode,
		Outcome: outcome,
		Error:   resp.err,
	}
	e.outcomes.Add(entry)

	if outcome == OutcomeFailed {
		e.log.Error("request failed",
			"url", entry.URL, "op", entry.Op, "status", entry.Status, "error", entry.Error)
		return
	}
	e.log.Info("request mocked",
		"url", entry.URL, "op", entry.Op, "status", entry.Status)
}

func (e *Engine) getAll(string, []byte) *Response {
	body, err := e.store.All()
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(http.StatusOK, body)
}

func (e *Engine) getOne(query string, _ []byte) *Response {
	body, err := e.store.One(query)
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(http.StatusOK, body)
}

func (e *Engine) getMany(query string, _ []byte) *Response {
	body, err := e.store.Many(query)
	if err != nil {
		return errorResponse(err)
	}
	return jsonResponse(http.StatusOK, body)
}

func (e *Engine) create(_ string, body []byte) *Response {
	if err := e.store.Append(body); err != nil {
		return errorResponse(err)
	}
	return jsonResponse(http.StatusCreated, body)
}

func (e *Engine) merge(query string, body []byte) *Response {
	if err := e.store.Merge(query, body); err != nil {
		return errorResponse(err)
	}
	return emptyResponse(http.StatusNoContent)
}

func (e *Engine) update(query string, body []byte) *Response {
	if err := e.store.Replace(query, body); err != nil {
		return errorResponse(err)
	}
	return emptyResponse(http.StatusNoContent)
}

func (e *Engine) remove(query string, _ []byte) *Response {
	if err := e.store.Remove(query); err != nil {
		return errorResponse(err)
	}
	return emptyResponse(http.StatusNoContent)
}

// requestURL reconstructs the full URL the client requested. Proxied
// requests carry an absolute URL already; direct requests rebuild it from
// the host header.
func requestURL(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
