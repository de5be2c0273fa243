package trellis

import (
	"encoding/json"
	"net/http"

	"github.com/trellisdev/trellis/tree"
)

// JSONBody returns an attribute extractor that decodes the request
// body as JSON into a map. The body is read at most once per request,
// on first injection. Requests larger than maxBytes or with malformed
// JSON produce a 400 ClientError.
//
//	trellis.WithAttribute("json_body", trellis.JSONBody(1<<20))
func JSONBody(maxBytes int64) AttributeFunc {
	return func(r *http.Request) (any, error) {
		defer r.Body.Close()
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBytes))
		var v map[string]any
		if err := dec.Decode(&v); err != nil {
			return nil, tree.NewClientError(http.StatusBadRequest, "malformed JSON body")
		}
		return v, nil
	}
}

// QueryParam returns an attribute extractor for a single URL query
// parameter. A missing parameter injects the empty string.
func QueryParam(name string) AttributeFunc {
	return func(r *http.Request) (any, error) {
		return r.URL.Query().Get(name), nil
	}
}

// HeaderValue returns an attribute extractor for a request header.
func HeaderValue(name string) AttributeFunc {
	return func(r *http.Request) (any, error) {
		return r.Header.Get(name), nil
	}
}
