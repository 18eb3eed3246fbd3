package routing

import (
	"fmt"
	"strings"

	"github.com/proxymock/proxymock/pkg/config"
)

// Route is one configured action with its compiled URL pattern.
type Route struct {
	Action  config.Action
	pattern *Pattern
}

// Pattern returns the compiled URL pattern for this route.
func (r *Route) Pattern() *Pattern {
	return r.pattern
}

// Table is the active ordered collection of routes. It is immutable
// after Build; a reload builds a new Table and swaps the reference.
type Table struct {
	routes []*Route
}

// Empty returns a table with no routes. Nothing matches against it.
func Empty() *Table {
	return &Table{}
}

// Build compiles every action of the API definition into a route table.
// Declaration order is preserved; it decides match precedence. A template
// that fails to compile rejects the whole definition.
func Build(api *config.APIConfig) (*Table, error) {
	if api == nil {
		return Empty(), nil
	}

	t := &Table{routes: make([]*Route, 0, len(api.Actions))}
	for i, action := range api.Actions {
		p, err := Compile(absoluteURL(api.BaseURL, action.URL))
		if err != nil {
			return nil, fmt.Errorf("action %d (%s %s): %w", i, action.Method, action.URL, err)
		}
		t.routes = append(t.routes, &Route{Action: action, pattern: p})
	}
	return t, nil
}

// absoluteURL joins the base URL and an action's URL template into the
// canonical route: both parts slash-trimmed, joined with a single slash,
// and the result stripped of any trailing slash.
func absoluteURL(baseURL, url string) string {
	abs := strings.Trim(baseURL, "/") + "/" + strings.Trim(url, "/")
	return strings.TrimRight(abs, "/")
}

// Len returns the number of routes in the table.
func (t *Table) Len() int {
	return len(t.routes)
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []*Route {
	return t.routes
}

// Match finds the first route whose method and compiled pattern match the
// request. The URL is compared with its trailing slash trimmed. Earlier
// declared routes win when several would match.
func (t *Table) Match(method, url string) (*Route, Params, bool) {
	url = strings.TrimRight(url, "/")
	for _, route := range t.routes {
		if route.Action.Method != method {
			continue
		}
		if params, ok := route.pattern.Match(url); ok {
			return route, params, true
		}
	}
	return nil, nil, false
}
