package tree

import (
	"regexp"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/trellisdev/trellis/inject"
)

var identRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Node is one position in the path tree. Literal children are keyed by
// their exact segment string; at most one binding child may exist, so a
// path position never branches into two differently named variables.
// Handlers are attached per HTTP method. A node carrying a mount is
// terminal: the rest of the path space below it belongs to the mounted
// tree.
//
// Node methods form the declaration API. They panic with a
// ConfigurationError on shape conflicts and after the tree is frozen.
type Node struct {
	tree   *Tree
	parent *Node

	// ident is the literal segment for literal children and the binding
	// name for binding children; empty at the root.
	ident string

	// binding is the descriptor when this node is a binding child.
	binding *Binding

	children  map[string]*Node
	bindChild *Node

	handlers map[string]*inject.Handler

	// fallback handles all methods with no explicit handler at this
	// node, when set.
	fallback *inject.Handler

	mount *Mount
}

// Path declares a literal path element beneath this node and returns
// its node. Declaring the same literal twice returns the existing node,
// so separate route declarations can share a prefix.
func (n *Node) Path(ident string) *Node {
	n.tree.checkMutable()
	if n.mount != nil {
		configPanic("cannot declare path %q beneath a mount", ident)
	}
	if ident == "" || strings.Contains(ident, "/") {
		configPanic("invalid path element %q", ident)
	}
	if child, ok := n.children[ident]; ok {
		return child
	}
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	child := &Node{tree: n.tree, parent: n, ident: ident}
	n.children[ident] = child
	return child
}

// Bind declares a variable path element beneath this node and returns
// its node. A node may have at most one binding child; declaring a
// binding with the name of the existing one returns it, declaring a
// second distinct binding panics. The name must be an identifier and
// may not shadow a reserved parameter name.
func (n *Node) Bind(name string) *Node {
	n.tree.checkMutable()
	if n.mount != nil {
		configPanic("cannot declare binding %q beneath a mount", name)
	}
	if !identRegexp.MatchString(name) {
		configPanic("invalid binding name %q", name)
	}
	if _, ok := reservedParams[name]; ok {
		configPanic("binding name %q is reserved", name)
	}
	if n.bindChild != nil {
		if n.bindChild.ident == name {
			return n.bindChild
		}
		configPanic("binding %q already exists, cannot add binding %q",
			n.bindChild.ident, name)
	}
	child := &Node{tree: n.tree, parent: n, ident: name}
	child.binding = &Binding{name: name, node: child}
	n.bindChild = child
	return child
}

// Route attaches a handler to this node for the given HTTP methods.
// Method names are canonicalized to uppercase and must be valid HTTP
// tokens. With no methods, the handler becomes the fallback for every
// method not explicitly routed at this node. Attaching a second handler
// for a method that already has one panics.
func (n *Node) Route(h *inject.Handler, methods ...string) *Node {
	n.tree.checkMutable()
	if h == nil {
		configPanic("cannot route a nil handler")
	}
	if n.mount != nil {
		configPanic("cannot route beneath a mount")
	}
	if len(methods) == 0 {
		if n.fallback != nil {
			configPanic("fallback route already exists")
		}
		n.fallback = h
	} else {
		seen := make(map[string]struct{}, len(methods))
		for _, m := range methods {
			m = strings.ToUpper(m)
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			if m == "" || !httpguts.ValidHeaderFieldName(m) {
				configPanic("invalid HTTP method %q", m)
			}
			if _, ok := n.handlers[m]; ok {
				configPanic("duplicate route for method %s", m)
			}
			if n.handlers == nil {
				n.handlers = make(map[string]*inject.Handler)
			}
			n.handlers[m] = h
		}
	}
	// First attachment wins for reverse lookup; routing the same
	// handler at a second node creates an alias that PathFor ignores.
	if _, ok := n.tree.nodes[h]; !ok {
		n.tree.nodes[h] = n
	}
	return n
}

// Validator sets the validator handler for this binding node. The
// validator is invoked through the injector with the raw segment bound
// to the "value" parameter; its return value becomes the binding value.
// It may return ErrSkipBinding to reject the segment, a ClientError to
// short-circuit with a 4xx result, or any other error for a 500-class
// result.
func (n *Node) Validator(h *inject.Handler) *Node {
	n.tree.checkMutable()
	if n.binding == nil {
		configPanic("cannot set a validator on a non-binding element")
	}
	if h == nil {
		configPanic("cannot set a nil validator")
	}
	if n.binding.validator != nil {
		configPanic("validator for binding %q already set", n.binding.name)
	}
	n.binding.validator = h
	return n
}

// Formatter sets the formatter for this binding node, used by reverse
// path lookup to turn a binding value back into a URL segment. Without
// a formatter, values with a canonical string form (strings, integers,
// fmt.Stringer) are converted directly.
func (n *Node) Formatter(f func(value any) (string, error)) *Node {
	n.tree.checkMutable()
	if n.binding == nil {
		configPanic("cannot set a formatter on a non-binding element")
	}
	if f == nil {
		configPanic("cannot set a nil formatter")
	}
	if n.binding.formatter != nil {
		configPanic("formatter for binding %q already set", n.binding.name)
	}
	n.binding.formatter = f
	return n
}

// Mount delegates everything at and below this node to a subordinate
// tree. The args map is copied and handed, constant, to the controller
// construction hook for the mounted tree. A mount is exclusive with
// handlers, children, and bindings at its node, and exactly one mount
// is allowed.
func (n *Node) Mount(sub *Tree, args map[string]any) *Mount {
	n.tree.checkMutable()
	if sub == nil {
		configPanic("cannot mount a nil tree")
	}
	if sub == n.tree {
		configPanic("cannot mount a tree on itself")
	}
	if n.mount != nil {
		configPanic("mount already exists")
	}
	if len(n.handlers) > 0 || n.fallback != nil || len(n.children) > 0 || n.bindChild != nil {
		configPanic("cannot mount on an element with routes or children")
	}
	copied := make(map[string]any, len(args))
	for k, v := range args {
		copied[k] = v
	}
	n.mount = &Mount{sub: sub, args: copied, node: n}
	return n.mount
}

// walk visits n and every descendant in depth-first order.
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.children {
		child.walk(fn)
	}
	if n.bindChild != nil {
		n.bindChild.walk(fn)
	}
}

// Mount is a delegation marker: the subordinate tree that owns the path
// space below a node, plus the constant arguments passed to the mounted
// controller's construction hook.
type Mount struct {
	sub  *Tree
	args map[string]any
	node *Node
}

// Tree returns the mounted subordinate tree.
func (m *Mount) Tree() *Tree {
	return m.sub
}

// Args returns the constant construction arguments declared at mount
// time. Callers must not modify the returned map.
func (m *Mount) Args() map[string]any {
	return m.args
}
