package inject

// Next calls the wrapped handler. The provided arguments override and
// extend the arguments already resolved for the wrapper; only the names
// the wrapped handler declares are passed through.
type Next func(provided Args) (any, error)

// WrapFunc is the body of a handler wrapper. It receives the arguments
// resolved for the composed manifest and a Next to invoke the wrapped
// handler.
type WrapFunc func(args Args, next Next) (any, error)

// Wrap composes a wrapper around a handler, producing a new Handler
// whose manifest merges the wrapper's declarations with the wrapped
// handler's. Names declared with Provides are satisfied by the wrapper
// itself: they disappear from the composed manifest and must be passed
// to Next.
//
// Wrapping must go through this function: building a wrapper by hand
// hides the wrapped handler's manifest from the injector and argument
// resolution silently breaks. A route registration must wrap the final,
// fully composed handler.
func Wrap(inner *Handler, fn WrapFunc, opts ...Option) *Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	man := merge(&o.man, inner.man, o.provides)
	return &Handler{
		man: man,
		fn: func(args Args) (any, error) {
			next := func(provided Args) (any, error) {
				return inner.call(args, provided)
			}
			return fn(args, next)
		},
	}
}
