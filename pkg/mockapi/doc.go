// Package mockapi is the CRUD mock engine: it matches intercepted
// requests against the route table and synthesizes REST-like responses
// from the in-memory document store.
//
// The engine plugs into the proxy through the Interceptor hook. A matched
// request is answered locally and never forwarded; an unmatched request
// passes through untouched. Every produced response is logged as an
// outcome, categorized mocked or failed.
package mockapi
