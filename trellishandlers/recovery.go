package trellishandlers

import (
	"fmt"
	"net/http"

	"github.com/trellisdev/trellis/inject"
)

// RecoveryConfig configures the Recovery wrapper behaviour.
type RecoveryConfig struct {
	// LogFunc is an optional callback invoked with the request and the
	// recovered value when a panic occurs. When nil, no logging is
	// performed.
	LogFunc func(r *http.Request, v any)
}

// Recovery wraps a handler, converting a panic in the handler or in
// anything it wraps into an ordinary handler error. The controller
// translates the error into a 500 response, so one panicking handler
// cannot take the server down.
func Recovery(inner *inject.Handler, cfg RecoveryConfig) *inject.Handler {
	return inject.Wrap(inner, func(args inject.Args, next inject.Next) (value any, err error) {
		defer func() {
			if v := recover(); v != nil {
				if cfg.LogFunc != nil {
					r, _ := args["request"].(*http.Request)
					cfg.LogFunc(r, v)
				}
				value = nil
				err = fmt.Errorf("trellishandlers: recovered panic: %v", v)
			}
		}()

		return next(nil)
	}, inject.Optional("request", nil))
}
