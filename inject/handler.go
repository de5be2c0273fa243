package inject

// Args holds the resolved arguments for a single handler invocation,
// keyed by parameter name. An Args map contains exactly the names the
// handler's manifest declares.
type Args map[string]any

// String returns the named argument as a string. It returns the empty
// string when the argument is absent or not a string.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Func is the signature of an injectable handler function. It receives
// only the arguments its manifest declares and returns a result value
// and an error.
type Func func(args Args) (any, error)

// Handler couples a function with its parameter manifest. Handlers are
// built once at registration time and are safe for concurrent use; the
// per-request state lives entirely in the Injector and the Args map.
type Handler struct {
	fn  Func
	man *Manifest
}

// NewHandler constructs a Handler from a function and its parameter
// declarations.
func NewHandler(fn Func, opts ...Option) *Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Handler{fn: fn, man: &o.man}
}

// Wants reports whether the handler declares the given parameter name.
func (h *Handler) Wants(name string) bool {
	return h.man.Wants(name)
}

// Manifest returns the handler's parameter manifest.
func (h *Handler) Manifest() *Manifest {
	return h.man
}

// call invokes the handler with arguments drawn from overrides first
// and base second, restricted to the manifest. Optional names fall back
// to their declared defaults; a missing required name is an
// InjectionError.
func (h *Handler) call(base, overrides Args) (any, error) {
	args := make(Args, len(h.man.required)+len(h.man.optional))
	for name := range h.man.required {
		if v, ok := overrides[name]; ok {
			args[name] = v
			continue
		}
		v, ok := base[name]
		if !ok {
			return nil, &InjectionError{Name: name}
		}
		args[name] = v
	}
	for name, def := range h.man.optional {
		if v, ok := overrides[name]; ok {
			args[name] = v
			continue
		}
		if v, ok := base[name]; ok {
			args[name] = v
			continue
		}
		args[name] = def
	}
	return h.fn(args)
}
