package mockapi

import (
	"errors"
	"net/http"

	"github.com/ohler55/ojg/oj"

	"github.com/proxymock/proxymock/pkg/document"
)

// ContentTypeJSON is set on every body-bearing response.
const ContentTypeJSON = "application/json; charset=utf-8"

// Response is a synthesized HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// err carries the failure for outcome logging; empty on success.
	err string
}

// jsonResponse builds a body-bearing response.
func jsonResponse(status int, body []byte) *Response {
	h := http.Header{}
	h.Set("Content-Type", ContentTypeJSON)
	return &Response{StatusCode: status, Header: h, Body: body}
}

// emptyResponse builds a response with no body and no content type.
func emptyResponse(status int) *Response {
	return &Response{StatusCode: status, Header: http.Header{}}
}

// errorResponse maps a handler error to a response. Not-found resolves to
// an empty 404; everything else answers 500 with the serialized error.
func errorResponse(err error) *Response {
	status := http.StatusInternalServerError
	var sce document.StatusCodeError
	if errors.As(err, &sce) {
		status = sce.StatusCode()
	}

	var resp *Response
	if status == http.StatusNotFound {
		resp = emptyResponse(status)
	} else {
		resp = jsonResponse(status, []byte(oj.JSON(map[string]any{"error": err.Error()})))
	}
	resp.err = err.Error()
	return resp
}

// Write sends the response on w.
func (resp *Response) Write(w http.ResponseWriter) error {
	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) == 0 {
		return nil
	}
	_, err := w.Write(resp.Body)
	return err
}
