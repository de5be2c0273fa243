package tree

import (
	"github.com/trellisdev/trellis/inject"
)

// Reserved parameter names bound by the dispatch machinery. Bindings may
// not reuse them; handlers declare them to receive the corresponding
// framework value.
const (
	// ParamRequest names the opaque request object seeded by the
	// surrounding controller.
	ParamRequest = "request"

	// ParamController names the root controller reference.
	ParamController = "controller"

	// ParamPathInfo names the raw unconsumed path remainder. A handler
	// declaring it opts into matching even when segments remain below
	// its node; the remainder is passed verbatim as a single string.
	ParamPathInfo = "path_info"

	// ParamValue names the raw segment string passed to binding
	// validators.
	ParamValue = "value"
)

var reservedParams = map[string]struct{}{
	ParamRequest:    {},
	ParamController: {},
	ParamPathInfo:   {},
}

// Tree is the routing trie for one controller class: literal and binding
// path elements, per-method handlers, and mount points. A tree is built
// exactly once, by imperative declarations at startup, then frozen; a
// frozen tree is immutable and may be shared by any number of
// concurrently dispatching requests without synchronization.
type Tree struct {
	root   *Node
	frozen bool

	// nodes maps each routed handler to the node it was first attached
	// to, for reverse path lookup.
	nodes map[*inject.Handler]*Node
}

// New returns an empty, mutable tree.
func New() *Tree {
	t := &Tree{nodes: make(map[*inject.Handler]*Node)}
	t.root = &Node{tree: t}
	return t
}

// Root returns the root node of the tree.
func (t *Tree) Root() *Node {
	return t.root
}

// Path declares a literal path element under the root. See Node.Path.
func (t *Tree) Path(ident string) *Node {
	return t.root.Path(ident)
}

// Bind declares a binding path element under the root. See Node.Bind.
func (t *Tree) Bind(name string) *Node {
	return t.root.Bind(name)
}

// Route attaches a handler to the root node. See Node.Route.
func (t *Tree) Route(h *inject.Handler, methods ...string) *Node {
	return t.root.Route(h, methods...)
}

// Mount delegates the whole path space to a subordinate tree. See
// Node.Mount.
func (t *Tree) Mount(sub *Tree, args map[string]any) *Mount {
	return t.root.Mount(sub, args)
}

// Freeze makes the tree immutable. Any later declaration panics with a
// ConfigurationError. Freezing is what makes sharing the tree across
// concurrent requests safe; it is done by the controller during
// construction and cannot be undone.
func (t *Tree) Freeze() {
	t.frozen = true
}

// Frozen reports whether the tree has been frozen.
func (t *Tree) Frozen() bool {
	return t.frozen
}

// Mounts returns every mount point declared in the tree, in no
// particular order. Mounted subtrees are not descended into; each tree
// reports only its own mount nodes.
func (t *Tree) Mounts() []*Mount {
	var out []*Mount
	t.root.walk(func(n *Node) {
		if n.mount != nil {
			out = append(out, n.mount)
		}
	})
	return out
}

// Handlers returns every handler routed in the tree, deduplicated, in
// no particular order.
func (t *Tree) Handlers() []*inject.Handler {
	seen := make(map[*inject.Handler]struct{})
	var out []*inject.Handler
	t.root.walk(func(n *Node) {
		for _, h := range n.handlers {
			if _, ok := seen[h]; !ok {
				seen[h] = struct{}{}
				out = append(out, h)
			}
		}
		if n.fallback != nil {
			if _, ok := seen[n.fallback]; !ok {
				seen[n.fallback] = struct{}{}
				out = append(out, n.fallback)
			}
		}
	})
	return out
}

func (t *Tree) checkMutable() {
	if t.frozen {
		configPanic("cannot modify a frozen tree")
	}
}
