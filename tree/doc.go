// Package tree implements the routing core: a tree of path elements
// that maps request methods and URL paths to injectable handlers.
//
// The routing semantics follow:
//   - RFC 9110 (HTTP Semantics): method handling, HEAD, OPTIONS, Allow
//   - RFC 3986 (URIs): path segment structure
//
// A tree is composed of three kinds of elements:
//   - literal segments, declared with Path
//   - bindings, declared with Bind, which capture one path segment as
//     a named parameter with an optional validator and formatter
//   - mounts, declared with Mount, which delegate the rest of the path
//     to another tree
//
// # Composition
//
// Trees are built with a chaining builder and frozen before serving:
//
//	t := tree.New()
//	books := t.Path("books")
//	books.Route(listBooks, "GET")
//	book := books.Bind("book_id")
//	book.Validator(bookIDValidator)
//	book.Route(getBook, "GET")
//	book.Route(deleteBook, "DELETE")
//	t.Freeze()
//
// Composition mistakes (a duplicate route, a second binding on the
// same node, declarations beneath a mount, mutating a frozen tree)
// panic with a ConfigurationError. They are programming errors and
// surface at startup, never while serving requests.
//
// # Dispatch
//
// Dispatch walks the path one segment at a time. At each node a
// literal child is preferred over the binding child. Binding segments
// run their validator through the supplied injector; the validated
// value is stored under the binding's name so later validators and the
// handler can declare it as a parameter.
//
// At the end of the path the method selects the handler. A HEAD
// request with no HEAD handler falls back to the GET handler. An
// OPTIONS request with no explicit OPTIONS handler produces a
// synthesized Allow list. A node routed with no methods at all acts as
// a catch-all for methods without an explicit handler.
//
// A handler that declares the "path_info" parameter also matches when
// path segments remain beyond its node, and receives the unconsumed
// remainder.
//
// # Mounts
//
// Dispatch stops at a mount point and returns a KindMounted result
// with the unconsumed path; the caller resumes dispatch against the
// mounted tree. This keeps each tree self-contained and lets the
// controller layer scope per-mount state.
//
// # Reverse lookup
//
// PathFor rebuilds the URL path for a routed handler, formatting
// binding values with the binding's formatter or the value's canonical
// string form.
package tree
