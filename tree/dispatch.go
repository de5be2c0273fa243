package tree

import (
	"errors"
	"sort"
	"strings"

	"github.com/trellisdev/trellis/inject"
)

// Kind classifies the outcome of a Dispatch call.
type Kind int

const (
	// KindNotFound means no route matched the path.
	KindNotFound Kind = iota

	// KindMatched means a handler was selected for the request.
	KindMatched

	// KindOptions means the method was OPTIONS, no explicit OPTIONS
	// handler exists, and the Allow list was synthesized from the
	// methods routed at the matched node.
	KindOptions

	// KindMethodNotAllowed means the path matched a node with handlers
	// but none for the requested method.
	KindMethodNotAllowed

	// KindMounted means dispatch reached a mount point. The caller
	// resumes dispatch against the mounted tree with the remainder.
	KindMounted

	// KindError means a validator failed with a non-skip error.
	KindError
)

// String returns a short name for the kind, mostly for logs and tests.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindMatched:
		return "matched"
	case KindOptions:
		return "options"
	case KindMethodNotAllowed:
		return "method-not-allowed"
	case KindMounted:
		return "mounted"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// BoundValue records one validated binding in match order.
type BoundValue struct {
	Name  string
	Value any
}

// Result is the outcome of dispatching a method and path against a
// frozen tree. Which fields are meaningful depends on Kind.
type Result struct {
	Kind Kind

	// Handler is the selected handler for KindMatched.
	Handler *inject.Handler

	// Method is the method the handler was selected for. It stays
	// "HEAD" even when the GET handler is serving the request.
	Method string

	// Bindings holds the validated binding values in path order, for
	// KindMatched and KindMounted.
	Bindings []BoundValue

	// Allowed is the Allow header value for KindOptions and
	// KindMethodNotAllowed.
	Allowed string

	// Remainder is the unconsumed path for KindMounted, and the
	// trailing path for a KindMatched handler that wants "path_info".
	Remainder string

	// Mount is the mount point reached, for KindMounted.
	Mount *Mount

	// Err is the validator error for KindError. An error wrapping
	// ClientError maps to its status code; anything else is a server
	// error.
	Err error
}

// Dispatch walks the tree for a request method and path. Validators
// run through inj, and each validated value is stored in inj under the
// binding's name so later validators and the final handler can declare
// it. Dispatch never descends into mounted trees itself; it stops with
// KindMounted and lets the caller continue with a fresh scope.
func (t *Tree) Dispatch(method, path string, inj *inject.Injector) Result {
	method = strings.ToUpper(method)
	segs := splitPath(path)
	node := t.root
	var bound []BoundValue

	for {
		if node.mount != nil {
			return Result{
				Kind:      KindMounted,
				Method:    method,
				Bindings:  bound,
				Remainder: strings.Join(segs, "/"),
				Mount:     node.mount,
			}
		}
		if len(segs) == 0 {
			return node.resolveMethod(method, bound)
		}

		seg := segs[0]
		if child, ok := node.children[seg]; ok {
			node, segs = child, segs[1:]
			continue
		}
		if node.bindChild != nil {
			child := node.bindChild
			value, err := child.binding.validate(inj, seg)
			switch {
			case err == nil:
				inj.Set(child.binding.name, value)
				bound = append(bound, BoundValue{Name: child.binding.name, Value: value})
				node, segs = child, segs[1:]
				continue
			case errors.Is(err, ErrSkipBinding):
				return Result{Kind: KindNotFound, Method: method, Bindings: bound}
			default:
				return Result{Kind: KindError, Method: method, Bindings: bound, Err: err}
			}
		}

		return node.remainderMatch(method, segs, bound)
	}
}

// resolveMethod picks a handler at a fully consumed node.
func (n *Node) resolveMethod(method string, bound []BoundValue) Result {
	if h, ok := n.handlers[method]; ok {
		return Result{Kind: KindMatched, Handler: h, Method: method, Bindings: bound}
	}
	if method == "HEAD" {
		if h, ok := n.handlers["GET"]; ok {
			return Result{Kind: KindMatched, Handler: h, Method: method, Bindings: bound}
		}
	}
	if n.fallback != nil {
		return Result{Kind: KindMatched, Handler: n.fallback, Method: method, Bindings: bound}
	}
	if len(n.handlers) == 0 {
		return Result{Kind: KindNotFound, Method: method, Bindings: bound}
	}
	allowed := n.allowedMethods()
	if method == "OPTIONS" {
		return Result{Kind: KindOptions, Method: method, Bindings: bound, Allowed: allowed}
	}
	return Result{Kind: KindMethodNotAllowed, Method: method, Bindings: bound, Allowed: allowed}
}

// remainderMatch handles a node with unconsumed segments left over. A
// handler that declares the "path_info" parameter claims the trailing
// path; everything else is a miss.
func (n *Node) remainderMatch(method string, segs []string, bound []BoundValue) Result {
	h, hm, ok := n.remainderHandler(method)
	if !ok {
		return Result{Kind: KindNotFound, Method: method, Bindings: bound}
	}
	if !h.Wants(ParamPathInfo) {
		return Result{Kind: KindNotFound, Method: method, Bindings: bound}
	}
	return Result{
		Kind:      KindMatched,
		Handler:   h,
		Method:    hm,
		Bindings:  bound,
		Remainder: strings.Join(segs, "/"),
	}
}

func (n *Node) remainderHandler(method string) (*inject.Handler, string, bool) {
	if h, ok := n.handlers[method]; ok {
		return h, method, true
	}
	if method == "HEAD" {
		if h, ok := n.handlers["GET"]; ok {
			return h, method, true
		}
	}
	if n.fallback != nil {
		return n.fallback, method, true
	}
	return nil, "", false
}

// allowedMethods builds the Allow header value: the routed methods in
// sorted order, HEAD added when GET is routed, and OPTIONS always last.
func (n *Node) allowedMethods() string {
	methods := make([]string, 0, len(n.handlers)+2)
	for m := range n.handlers {
		if m == "OPTIONS" {
			continue
		}
		methods = append(methods, m)
	}
	if _, ok := n.handlers["GET"]; ok {
		if _, head := n.handlers["HEAD"]; !head {
			methods = append(methods, "HEAD")
		}
	}
	sort.Strings(methods)
	methods = append(methods, "OPTIONS")
	return strings.Join(methods, ",")
}

// splitPath breaks a URL path into segments, dropping empty ones so
// that "/a//b/" and "a/b" walk the same nodes.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}
