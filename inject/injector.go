package inject

import "sort"

// Resolver produces a deferred value. It receives the injector so it can
// request other values during resolution.
type Resolver func(inj *Injector) (any, error)

// Injector is the per-request resolution context mapping parameter names
// to values. Values are either set directly or registered as deferred
// resolvers; a deferred value is computed on first request and memoized
// for the lifetime of the injector.
//
// An Injector belongs to exactly one request and is not safe for
// concurrent use. Shared state across requests lives in the immutable
// routing tree, never here.
type Injector struct {
	values   map[string]any
	deferred map[string]Resolver
}

// New returns an empty Injector.
func New() *Injector {
	return &Injector{
		values:   make(map[string]any),
		deferred: make(map[string]Resolver),
	}
}

// Set associates a value with a parameter name, masking any deferred
// resolver registered for the same name.
func (i *Injector) Set(name string, value any) {
	i.values[name] = value
}

// SetDeferred registers a resolver for a parameter name. The resolver
// runs at most once, the first time the name is looked up, and its
// result is cached. Use this when producing the value is expensive and
// most handlers do not declare the name.
func (i *Injector) SetDeferred(name string, r Resolver) {
	i.deferred[name] = r
}

// Has reports whether a value or a deferred resolver exists for the
// given name.
func (i *Injector) Has(name string) bool {
	if _, ok := i.values[name]; ok {
		return true
	}
	_, ok := i.deferred[name]
	return ok
}

// Lookup resolves the value for a name. The boolean reports whether the
// name is known to the injector; the error carries a deferred resolver
// failure.
func (i *Injector) Lookup(name string) (any, bool, error) {
	if v, ok := i.values[name]; ok {
		return v, true, nil
	}
	r, ok := i.deferred[name]
	if !ok {
		return nil, false, nil
	}
	v, err := r(i)
	if err != nil {
		return nil, true, err
	}
	i.values[name] = v
	return v, true, nil
}

// Delete removes the value and any deferred resolver for a name.
func (i *Injector) Delete(name string) {
	delete(i.values, name)
	delete(i.deferred, name)
}

// Keys returns all known parameter names in sorted order.
func (i *Injector) Keys() []string {
	keys := make([]string, 0, len(i.values)+len(i.deferred))
	seen := make(map[string]struct{}, len(i.values))
	for name := range i.values {
		keys = append(keys, name)
		seen[name] = struct{}{}
	}
	for name := range i.deferred {
		if _, ok := seen[name]; !ok {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys
}

// Scope snapshots the current key set and returns a release function
// that deletes every key added after the snapshot. Values that merely
// changed are kept. This scopes mount-level configuration to the
// subtree it belongs to.
func (i *Injector) Scope() func() {
	keep := make(map[string]struct{}, len(i.values)+len(i.deferred))
	for name := range i.values {
		keep[name] = struct{}{}
	}
	for name := range i.deferred {
		keep[name] = struct{}{}
	}
	return func() {
		for name := range i.values {
			if _, ok := keep[name]; !ok {
				delete(i.values, name)
			}
		}
		for name := range i.deferred {
			if _, ok := keep[name]; !ok {
				delete(i.deferred, name)
			}
		}
	}
}

// Call invokes a handler, resolving each declared parameter from extra
// first and the injector second. Optional parameters fall back to their
// defaults; a required parameter with no value fails with an
// InjectionError. Arguments the handler does not declare are never
// passed.
func (i *Injector) Call(h *Handler, extra Args) (any, error) {
	args := make(Args, len(h.man.required)+len(h.man.optional))
	for name := range h.man.required {
		if v, ok := extra[name]; ok {
			args[name] = v
			continue
		}
		v, ok, err := i.Lookup(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &InjectionError{Name: name}
		}
		args[name] = v
	}
	for name, def := range h.man.optional {
		if v, ok := extra[name]; ok {
			args[name] = v
			continue
		}
		v, ok, err := i.Lookup(name)
		if err != nil {
			return nil, err
		}
		if ok {
			args[name] = v
		} else {
			args[name] = def
		}
	}
	return h.fn(args)
}
