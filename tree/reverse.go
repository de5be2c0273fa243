package tree

import (
	"strings"

	"github.com/trellisdev/trellis/inject"
)

// PathFor builds the URL path that routes to a handler, substituting
// params for the bindings along its path. The handler must have been
// attached with Route on this tree; otherwise ErrNotRouted is
// returned. A handler routed at more than one node resolves to the
// node it was attached to first.
//
// PathFor covers a single tree. Resolving a handler that lives in a
// mounted tree, including the mount's own path prefix, is the
// controller layer's job.
func (t *Tree) PathFor(h *inject.Handler, params map[string]any) (string, error) {
	node, ok := t.nodes[h]
	if !ok {
		return "", ErrNotRouted
	}
	segs, err := node.pathSegments(params)
	if err != nil {
		return "", err
	}
	return "/" + strings.Join(segs, "/"), nil
}

// PathSegments renders the path from the parent tree's root to the
// mount point, substituting params for bindings along the way. The
// controller layer joins these with the mounted tree's own segments
// when resolving a cross-mount URL.
func (m *Mount) PathSegments(params map[string]any) ([]string, error) {
	return m.node.pathSegments(params)
}

// pathSegments walks from the node up to the root, formatting binding
// segments from params, and returns the segments in path order.
func (n *Node) pathSegments(params map[string]any) ([]string, error) {
	var segs []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		seg := cur.ident
		if cur.binding != nil {
			value, ok := params[cur.binding.name]
			if !ok {
				return nil, &MissingValueError{Binding: cur.binding.name}
			}
			formatted, err := cur.binding.format(value)
			if err != nil {
				return nil, err
			}
			seg = formatted
		}
		segs = append(segs, seg)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return segs, nil
}
