package inject

import "sort"

// Manifest describes the parameters a handler function declares: the
// names that must be resolvable when the handler is called, and the
// names that are filled with a default value when no binding, attribute,
// or injected value is available.
//
// A name is never both required and optional; later declarations win.
type Manifest struct {
	required map[string]struct{}
	optional map[string]any // name -> default value
}

// Wants reports whether the manifest declares the given parameter name,
// either as required or as optional.
func (m *Manifest) Wants(name string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.required[name]; ok {
		return true
	}
	_, ok := m.optional[name]
	return ok
}

// Names returns all declared parameter names in sorted order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.required)+len(m.optional))
	for name := range m.required {
		names = append(names, name)
	}
	for name := range m.optional {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) setRequired(name string) {
	if m.required == nil {
		m.required = make(map[string]struct{})
	}
	delete(m.optional, name)
	m.required[name] = struct{}{}
}

func (m *Manifest) setOptional(name string, def any) {
	if m.optional == nil {
		m.optional = make(map[string]any)
	}
	delete(m.required, name)
	m.optional[name] = def
}

// merge combines a wrapper manifest with the manifest of the handler it
// wraps. The wrapped handler's required names stay required; optional
// names survive unless the other side requires them; names the wrapper
// provides are satisfied internally and removed from the result.
func merge(wrapper, inner *Manifest, provides []string) *Manifest {
	out := &Manifest{
		required: make(map[string]struct{}),
		optional: make(map[string]any),
	}
	for name, def := range inner.optional {
		if _, ok := wrapper.required[name]; !ok {
			out.optional[name] = def
		}
	}
	for name, def := range wrapper.optional {
		if _, ok := inner.required[name]; !ok {
			out.optional[name] = def
		}
	}
	for name := range inner.required {
		delete(out.optional, name)
		out.required[name] = struct{}{}
	}
	for name := range wrapper.required {
		delete(out.optional, name)
		out.required[name] = struct{}{}
	}
	for _, name := range provides {
		delete(out.required, name)
		delete(out.optional, name)
	}
	return out
}

// Option configures the manifest of a handler being constructed by
// NewHandler or Wrap.
type Option func(*options)

type options struct {
	man      Manifest
	provides []string
}

// Required declares parameter names that must be resolvable when the
// handler is called. A missing required name fails the call with an
// InjectionError.
func Required(names ...string) Option {
	return func(o *options) {
		for _, name := range names {
			o.man.setRequired(name)
		}
	}
}

// Optional declares a parameter name with a default value. The default
// is passed when no value for the name is available.
func Optional(name string, def any) Option {
	return func(o *options) {
		o.man.setOptional(name, def)
	}
}

// Provides declares parameter names a wrapper satisfies for the handler
// it wraps. The names are removed from the composed manifest; the
// wrapper must pass their values to Next. Provides is only meaningful
// with Wrap and is ignored by NewHandler.
func Provides(names ...string) Option {
	return func(o *options) {
		o.provides = append(o.provides, names...)
	}
}
