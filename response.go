package trellis

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Response is a fully built HTTP response returned by a handler. The
// zero status writes 200 OK.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewResponse returns an empty response with the given status code.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: make(http.Header)}
}

// SetHeader sets a response header and returns the response for
// chaining.
func (resp *Response) SetHeader(key, value string) *Response {
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	resp.Header.Set(key, value)
	return resp
}

// JSON builds a response with v encoded as JSON and the Content-Type
// header set to "application/json". Encoding happens eagerly, so an
// unencodable value fails here instead of after headers are written.
func JSON(status int, v any) (*Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "application/json")
	resp.Body = buf.Bytes()
	return resp, nil
}

// Text builds a plain-text response.
func Text(status int, body string) *Response {
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp.Body = []byte(body)
	return resp
}

// NoContent builds an empty 204 No Content response.
func NoContent() *Response {
	return NewResponse(http.StatusNoContent)
}

func (resp *Response) write(w http.ResponseWriter) {
	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if len(resp.Body) > 0 {
		w.Write(resp.Body)
	}
}

// writeJSON encodes v as JSON and writes it with the given status. If
// encoding fails, an HTTP 500 Internal Server Error is written instead.
func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}
