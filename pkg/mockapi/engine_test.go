package mockapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxymock/proxymock/pkg/config"
	"github.com/proxymock/proxymock/pkg/document"
	"github.com/proxymock/proxymock/pkg/routing"
)

func testActions() []config.Action {
	return []config.Action{
		{Op: config.OpGetAll, URL: "/users", Method: "GET", Query: "$"},
		{Op: config.OpGetOne, URL: "/users/{id}", Method: "GET", Query: "$[?(@.id == {id})]"},
		{Op: config.OpGetMany, URL: "/users?name={name}", Method: "GET", Query: "$[?(@.name == '{name}')]"},
		{Op: config.OpCreate, URL: "/users", Method: "POST"},
		{Op: config.OpMerge, URL: "/users/{id}", Method: "PATCH", Query: "$[?(@.id == {id})]"},
		{Op: config.OpUpdate, URL: "/users/{id}", Method: "PUT", Query: "$[?(@.id == {id})]"},
		{Op: config.OpDelete, URL: "/users/{id}", Method: "DELETE", Query: "$[?(@.id == {id})]"},
	}
}

func testData() []any {
	return []any{
		map[string]any{"id": int64(1), "name": "alice"},
		map[string]any{"id": int64(2), "name": "bob"},
	}
}

func testEngine(t *testing.T, actions []config.Action, data []any) *Engine {
	t.Helper()
	table, err := routing.Build(&config.APIConfig{
		BaseURL:  "http://api.test/v1",
		DataFile: "data.json",
		Actions:  actions,
	})
	require.NoError(t, err)
	return New(Options{Table: table, Store: document.FromData(data)})
}

func TestHandleNoMatch(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	tests := []struct {
		method string
		url    string
	}{
		{"GET", "http://api.test/v1/unknown"},
		{"GET", "http://api.test/v1/users/42/extra"},
		{"PATCH", "http://api.test/v1/users"},
		{"GET", "http://other.test/v1/users"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.url, nil)
		assert.Nil(t, e.Handle(r), "%s %s should pass through", tt.method, tt.url)
	}
}

func TestHandleGetAll(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	resp := e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users", nil))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ContentTypeJSON, resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `[{"id":1,"name":"alice"},{"id":2,"name":"bob"}]`, string(resp.Body))
}

func TestHandleGetOne(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	resp := e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users/2", nil))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":2,"name":"bob"}`, string(resp.Body))
}

func TestHandleGetOneNotFound(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	resp := e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users/99", nil))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Empty(t, resp.Header.Get("Content-Type"), "body-less 404 must carry no content type")
}

func TestHandleGetManyEmpty(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	resp := e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users?name=nobody", nil))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "GetMany never answers 404")
	assert.JSONEq(t, `[]`, string(resp.Body))
}

func TestHandleCreateThenGetOne(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	resp := e.Handle(httptest.NewRequest("POST", "http://api.test/v1/users",
		strings.NewReader(`{"id":3,"name":"carol"}`)))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":3,"name":"carol"}`, string(resp.Body), "Create echoes the body")

	resp = e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users/3", nil))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":3,"name":"carol"}`, string(resp.Body))
}

func TestHandleCreateMalformedBody(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	resp := e.Handle(httptest.NewRequest("POST", "http://api.test/v1/users",
		strings.NewReader(`{"id":3,`)))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "error")
	assert.Equal(t, 2, e.Store().Len(), "failed Create must not partially append")
}

func TestHandleMerge(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	resp := e.Handle(httptest.NewRequest("PATCH", "http://api.test/v1/users/1",
		strings.NewReader(`{"role":"admin"}`)))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Empty(t, resp.Header.Get("Content-Type"))

	got := e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users/1", nil))
	assert.JSONEq(t, `{"id":1,"name":"alice","role":"admin"}`, string(got.Body))
}

func TestHandleUpdate(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	resp := e.Handle(httptest.NewRequest("PUT", "http://api.test/v1/users/1",
		strings.NewReader(`{"id":1,"name":"alicia"}`)))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	got := e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users/1", nil))
	assert.JSONEq(t, `{"id":1,"name":"alicia"}`, string(got.Body),
		"Update replaces the node wholesale")
}

func TestHandleDeleteThenGetOne(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	resp := e.Handle(httptest.NewRequest("DELETE", "http://api.test/v1/users/1", nil))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	got := e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users/1", nil))
	require.NotNil(t, got)
	assert.Equal(t, http.StatusNotFound, got.StatusCode)
}

func TestHandleUpdateNotFound(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	for _, method := range []string{"PATCH", "PUT", "DELETE"} {
		resp := e.Handle(httptest.NewRequest(method, "http://api.test/v1/users/99",
			strings.NewReader(`{"x":1}`)))
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "method %s", method)
	}
}

func TestHandleCORS(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	r := httptest.NewRequest("GET", "http://api.test/v1/users/1", nil)
	r.Header.Set("Origin", "http://app.test")
	resp := e.Handle(r)
	require.NotNil(t, resp)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users/1", nil))
	require.NotNil(t, resp)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"),
		"no Origin header, no CORS header")
}

func TestHandleUnsetStore(t *testing.T) {
	table, err := routing.Build(&config.APIConfig{
		BaseURL:  "http://api.test/v1",
		DataFile: "data.json",
		Actions:  testActions(),
	})
	require.NoError(t, err)
	e := New(Options{Table: table}) // no store: data file failed to load

	resp := e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users", nil))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestSwapTable(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	require.NotNil(t, e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users", nil)))

	replacement, err := routing.Build(&config.APIConfig{
		BaseURL:  "http://api.test/v1",
		DataFile: "data.json",
		Actions: []config.Action{
			{Op: config.OpGetAll, URL: "/items", Method: "GET", Query: "$"},
		},
	})
	require.NoError(t, err)
	e.SwapTable(replacement)

	assert.Nil(t, e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users", nil)),
		"old routes must be gone after the swap")
	assert.NotNil(t, e.Handle(httptest.NewRequest("GET", "http://api.test/v1/items", nil)))
}

func TestIntercept(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	w := httptest.NewRecorder()
	handled := e.Intercept(w, httptest.NewRequest("GET", "http://api.test/v1/users/1", nil))
	assert.True(t, handled)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"alice"}`, w.Body.String())

	w = httptest.NewRecorder()
	handled = e.Intercept(w, httptest.NewRequest("GET", "http://api.test/v1/unknown", nil))
	assert.False(t, handled, "unmatched requests must decline")
}

func TestOutcomeRecording(t *testing.T) {
	e := testEngine(t, testActions(), testData())

	e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users/1", nil))
	e.Handle(httptest.NewRequest("GET", "http://api.test/v1/users/99", nil))
	e.Handle(httptest.NewRequest("POST", "http://api.test/v1/users", strings.NewReader(`{`)))

	entries := e.Outcomes().List()
	require.Len(t, entries, 3)

	// Newest first: the failed Create, the 404, the 200.
	assert.Equal(t, OutcomeFailed, entries[0].Outcome)
	assert.Equal(t, http.StatusInternalServerError, entries[0].Status)
	assert.NotEmpty(t, entries[0].Error)

	assert.Equal(t, OutcomeMocked, entries[1].Outcome, "a deliberate 404 is a mocked outcome")
	assert.Equal(t, http.StatusNotFound, entries[1].Status)

	assert.Equal(t, OutcomeMocked, entries[2].Outcome)
	assert.Equal(t, http.StatusOK, entries[2].Status)
	assert.Equal(t, "http://api.test/v1/users/{id}", entries[2].URL,
		"outcomes log the action's URL template")
}

func TestHandleInvalidQueryExpression(t *testing.T) {
	e := testEngine(t, []config.Action{
		{Op: config.OpGetOne, URL: "/broken", Method: "GET", Query: "$[?(@.id =="},
	}, testData())

	resp := e.Handle(httptest.NewRequest("GET", "http://api.test/v1/broken", nil))
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "error")
}
