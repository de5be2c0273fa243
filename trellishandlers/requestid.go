package trellishandlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/trellisdev/trellis"
	"github.com/trellisdev/trellis/inject"
)

// RequestIDConfig configures the RequestID wrapper behaviour.
type RequestIDConfig struct {
	// HeaderName overrides the header used to propagate the request ID.
	// Defaults to "X-Request-ID" when empty.
	HeaderName string

	// GenerateFunc is an optional callback that returns a new unique ID.
	// Defaults to GenerateUUIDv4.
	GenerateFunc func(r *http.Request) string

	// TrustIncoming, when true, reuses an existing request ID from the
	// incoming request header instead of generating a new one.
	TrustIncoming bool
}

// RequestID wraps a handler, providing a "request_id" parameter the
// handler may declare. When the handler returns a *trellis.Response,
// the ID is also set as a response header for the caller.
func RequestID(inner *inject.Handler, cfg RequestIDConfig) *inject.Handler {
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = "X-Request-ID"
	}

	generate := cfg.GenerateFunc
	if generate == nil {
		generate = GenerateUUIDv4
	}

	trustIncoming := cfg.TrustIncoming

	return inject.Wrap(inner, func(args inject.Args, next inject.Next) (any, error) {
		r, _ := args["request"].(*http.Request)

		id := ""
		if trustIncoming && r != nil {
			id = r.Header.Get(headerName)
		}
		if id == "" {
			id = generate(r)
		}

		value, err := next(inject.Args{"request_id": id})
		if resp, ok := value.(*trellis.Response); ok && resp != nil {
			resp.SetHeader(headerName, id)
		}
		return value, err
	}, inject.Optional("request", nil), inject.Provides("request_id"))
}

// GenerateUUIDv4 returns a new UUID v4 string.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.4
func GenerateUUIDv4(_ *http.Request) string {
	return uuid.New().String()
}

// GenerateUUIDv7 returns a new UUID v7 string. UUIDs are time-ordered:
// IDs generated later sort lexicographically after earlier ones.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc9562#section-5.7
func GenerateUUIDv7(_ *http.Request) string {
	return uuid.Must(uuid.NewV7()).String()
}
