// Package trellis glues the routing tree and the injection machinery
// into an http.Handler: a Controller owns a frozen tree, constructs a
// child controller for every mounted tree, seeds a fresh injector per
// request, and renders handler return values as HTTP responses.
//
// # Building a controller
//
//	t := tree.New()
//	t.Path("books").Route(listBooks, "GET")
//	t.Path("books").Bind("book_id").Route(getBook, "GET")
//
//	c := trellis.New(t,
//		trellis.WithConfig(map[string]any{"store": store}),
//		trellis.WithAttribute("json_body", trellis.JSONBody(1<<20)),
//	)
//	http.ListenAndServe(":8080", c)
//
// New freezes the tree; all declaration conflicts have already
// panicked with a tree.ConfigurationError by then. The resulting
// controller graph is immutable and safe for concurrent use.
//
// # Injection
//
// Handlers receive exactly the parameters their manifest declares.
// Three names are provided by the controller itself: "request" (the
// *http.Request), "controller" (the root *Controller), and "path_info"
// (the unconsumed path remainder, for handlers that declare it).
// Binding values captured during routing, constant configuration
// values, and lazily extracted request attributes are injected under
// their declared names.
//
// # Mounts
//
// A mounted tree gets its own child controller, constructed once at
// New time with the constant arguments declared at the mount point.
// During a request, the child's configuration is seeded inside an
// injector scope, so a mount's values are visible to its own handlers
// and validators but not to the rest of the tree.
//
// # Responses
//
// A handler may return nil (204), a string (200 text/plain), a []byte
// (200 octet-stream), a *Response built with JSON, Text, NewResponse
// or NoContent, or any other value, which is encoded as JSON with a
// 200 status. Returning a *tree.ClientError produces its status code;
// any other error goes through the ErrorHandler hook or a plain 500.
package trellis
