package trellishandlers

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/trellisdev/trellis"
	"github.com/trellisdev/trellis/inject"
)

// ErrNoAuthSource is returned when BasicAuthConfig has neither
// ValidateFunc nor Credentials configured.
var ErrNoAuthSource = errors.New("basic auth: at least one of ValidateFunc or Credentials must be set")

// BasicAuthConfig configures the BasicAuth wrapper behaviour.
//
// Spec reference: https://www.rfc-editor.org/rfc/rfc7617
type BasicAuthConfig struct {
	// Realm is the authentication realm sent in the WWW-Authenticate
	// header. Defaults to "Restricted" when empty.
	Realm string

	// ValidateFunc is called to validate credentials dynamically.
	// Takes priority over Credentials when both are set.
	ValidateFunc func(username, password string) bool

	// Credentials is a static map of username -> password pairs.
	// Compared using SHA-256 hashed constant-time comparison to prevent
	// timing attacks, including length-based leaks.
	Credentials map[string]string
}

// BasicAuth wraps a handler with HTTP Basic Authentication per
// RFC 7617. Missing or invalid credentials produce a 401 response with
// the WWW-Authenticate header; on success the authenticated username
// is provided to the handler under the "username" parameter.
//
// It returns ErrNoAuthSource if both ValidateFunc and Credentials are
// nil/empty.
func BasicAuth(inner *inject.Handler, cfg BasicAuthConfig) (*inject.Handler, error) {
	if cfg.ValidateFunc == nil && len(cfg.Credentials) == 0 {
		return nil, ErrNoAuthSource
	}

	realm := cfg.Realm
	if realm == "" {
		realm = "Restricted"
	}

	wwwAuthenticate := fmt.Sprintf("Basic realm=%q", realm)

	validate := cfg.ValidateFunc
	credentials := cfg.Credentials

	return inject.Wrap(inner, func(args inject.Args, next inject.Next) (any, error) {
		r, ok := args["request"].(*http.Request)
		if !ok {
			return unauthorized(wwwAuthenticate), nil
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			return unauthorized(wwwAuthenticate), nil
		}

		if validate != nil {
			if !validate(username, password) {
				return unauthorized(wwwAuthenticate), nil
			}
		} else {
			expectedPassword, exists := credentials[username]
			// Always perform the password comparison to prevent timing
			// leaks that reveal whether a username exists in the map.
			passwordMatch := constantTimeEqual(password, expectedPassword)
			if !exists || !passwordMatch {
				return unauthorized(wwwAuthenticate), nil
			}
		}

		return next(inject.Args{"username": username})
	}, inject.Required("request"), inject.Provides("username")), nil
}

// constantTimeEqual compares two strings in constant time by first
// hashing them with SHA-256. This prevents both value leaks and
// length-based timing leaks that raw ConstantTimeCompare would allow on
// different-length inputs.
func constantTimeEqual(a, b string) bool {
	aHash := sha256.Sum256([]byte(a))
	bHash := sha256.Sum256([]byte(b))

	return subtle.ConstantTimeCompare(aHash[:], bHash[:]) == 1
}

// unauthorized builds a 401 response with the WWW-Authenticate header
// and an empty body.
func unauthorized(wwwAuthenticate string) *trellis.Response {
	return trellis.NewResponse(http.StatusUnauthorized).
		SetHeader("WWW-Authenticate", wwwAuthenticate)
}
