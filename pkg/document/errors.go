package document

import (
	"fmt"
	"net/http"
)

// NotFoundError is returned when a query expression locates no node.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no node matches query %q", e.Query)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// QueryError is returned when a query expression cannot be parsed or
// evaluated.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status code for this error.
func (e *QueryError) StatusCode() int {
	return http.StatusInternalServerError
}

// BodyError is returned when a request body does not parse as JSON.
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Err)
}

func (e *BodyError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status code for this error.
func (e *BodyError) StatusCode() int {
	return http.StatusInternalServerError
}

// MutationError is returned when an in-place mutation cannot be applied
// to the located node.
type MutationError struct {
	Msg string
}

func (e *MutationError) Error() string {
	return e.Msg
}

// StatusCode returns the HTTP status code for this error.
func (e *MutationError) StatusCode() int {
	return http.StatusInternalServerError
}

// UnavailableError is returned when the store was never loaded, e.g.
// because the data file failed to parse at activation.
type UnavailableError struct{}

func (e *UnavailableError) Error() string {
	return "document store is not loaded"
}

// StatusCode returns the HTTP status code for this error.
func (e *UnavailableError) StatusCode() int {
	return http.StatusInternalServerError
}

// StatusCodeError is implemented by errors that map to an HTTP status.
type StatusCodeError interface {
	error
	StatusCode() int
}
