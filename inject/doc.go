// Package inject implements named-parameter dependency injection for
// request handlers.
//
// A Handler couples a function with an explicit parameter manifest: the
// set of parameter names the function requires, plus optional names with
// default values. An Injector is a per-request mapping from parameter
// names to values; calling a handler through the injector passes exactly
// the arguments the manifest declares and nothing else.
//
//	show := inject.NewHandler(func(args inject.Args) (any, error) {
//	    return "user " + args["user_id"].(string), nil
//	}, inject.Required("user_id"), inject.Optional("verbose", false))
//
//	inj := inject.New()
//	inj.Set("user_id", "42")
//	out, err := inj.Call(show, nil)
//
// Values may be registered lazily with SetDeferred; a deferred resolver
// runs at most once per injector, the first time the value is requested.
// This is used for request attributes that are expensive to produce,
// such as a parsed request body.
//
// Wrap composes handlers the way middleware composes http.Handlers,
// while keeping parameter manifests accurate: a wrapper declares the
// names it provides to the wrapped handler and the names it needs for
// itself, and the composed manifest is what the injector resolves
// against. Without this merging, wrapping a handler would silently break
// argument resolution.
package inject
