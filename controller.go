package trellis

import (
	"net/http"
	"strings"

	"github.com/trellisdev/trellis/inject"
	"github.com/trellisdev/trellis/tree"
)

// AttributeFunc extracts an injectable value from a request, for
// example a parsed JSON body. Attributes are resolved lazily and at
// most once per request.
type AttributeFunc func(r *http.Request) (any, error)

// ConstructFunc customizes construction of mounted controllers. It is
// called once per mount point, at New time, with the mounted tree and
// the constant arguments declared at the mount. The returned options
// configure the child controller. When nil, the mount arguments become
// the child's injectable configuration unchanged.
type ConstructFunc func(sub *tree.Tree, args map[string]any) []Option

// Option configures a Controller during construction.
type Option func(*options)

type options struct {
	config     map[string]any
	attributes map[string]AttributeFunc
	construct  ConstructFunc
}

// WithConfig declares constant values injectable by name into handlers
// and validators of this controller. Values apply to this controller's
// tree only; a mounted controller sees its own configuration, not its
// parent's. Repeated options merge, later values winning.
func WithConfig(values map[string]any) Option {
	return func(o *options) {
		if o.config == nil {
			o.config = make(map[string]any, len(values))
		}
		for k, v := range values {
			o.config[k] = v
		}
	}
}

// WithAttribute declares a lazily resolved, per-request injectable
// value. The extractor runs at most once per request, on first use by
// a handler or validator that declares the name.
func WithAttribute(name string, fn AttributeFunc) Option {
	return func(o *options) {
		if o.attributes == nil {
			o.attributes = make(map[string]AttributeFunc)
		}
		o.attributes[name] = fn
	}
}

// WithConstruct sets the construction hook for mounted controllers.
// The hook is inherited by nested mounts unless a child's options
// replace it.
func WithConstruct(fn ConstructFunc) Option {
	return func(o *options) {
		o.construct = fn
	}
}

// Controller owns a frozen routing tree and serves HTTP requests
// through it. Mounted trees get their own child controllers,
// constructed once at New time and reused for every request; the tree
// shape and the controller graph are immutable after construction, so
// one Controller may serve any number of concurrent requests.
type Controller struct {
	tree   *tree.Tree
	parent *Controller
	root   *Controller

	// mountPoint is the mount this controller hangs off in its
	// parent's tree; nil at the root.
	mountPoint *tree.Mount

	config     map[string]any
	attributes map[string]AttributeFunc
	mounts     map[*tree.Mount]*Controller

	// owner maps every routed handler, across all mounted trees, to
	// its owning controller. Populated on the root only.
	owner map[*inject.Handler]*Controller

	// NotFoundHandler, when set on the root controller, serves
	// requests no route matched. Defaults to http.NotFound.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler, when set on the root controller, serves
	// requests whose path matched but whose method did not. The Allow
	// header is already set when it runs.
	MethodNotAllowedHandler http.Handler

	// ErrorHandler, when set on the root controller, translates
	// handler and validator errors that are not ClientErrors. Defaults
	// to a plain 500 response.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

	// LogFunc is an optional callback for server-side error logging.
	// When nil, no logging is performed.
	LogFunc func(format string, args ...any)
}

// New builds the controller graph for a routing tree: the tree is
// frozen, and a child controller is constructed for every mount point,
// recursively. Tree-shape conflicts have already panicked with a
// ConfigurationError during declaration; New itself does not fail.
func New(t *tree.Tree, opts ...Option) *Controller {
	c := newController(t, nil, nil, opts)
	c.owner = make(map[*inject.Handler]*Controller)
	c.index(c.owner)
	return c
}

func newController(t *tree.Tree, parent *Controller, mountPoint *tree.Mount, opts []Option) *Controller {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t.Freeze()
	c := &Controller{
		tree:       t,
		parent:     parent,
		mountPoint: mountPoint,
		config:     o.config,
		attributes: o.attributes,
		mounts:     make(map[*tree.Mount]*Controller),
	}
	if parent == nil {
		c.root = c
	} else {
		c.root = parent.root
	}

	for _, m := range t.Mounts() {
		childOpts := []Option{WithConstruct(o.construct)}
		if o.construct != nil {
			childOpts = append(childOpts, o.construct(m.Tree(), m.Args())...)
		} else {
			childOpts = append(childOpts, WithConfig(m.Args()))
		}
		c.mounts[m] = newController(m.Tree(), c, m, childOpts)
	}
	return c
}

// index records handler ownership for reverse lookup. First attachment
// wins when a handler is routed in more than one tree.
func (c *Controller) index(owner map[*inject.Handler]*Controller) {
	for _, h := range c.tree.Handlers() {
		if _, ok := owner[h]; !ok {
			owner[h] = c
		}
	}
	for _, child := range c.mounts {
		child.index(owner)
	}
}

// Tree returns the controller's frozen routing tree.
func (c *Controller) Tree() *tree.Tree {
	return c.tree
}

// seed loads the controller's constant configuration and lazy request
// attributes into the injector. Called once per request per controller
// on the dispatch path.
func (c *Controller) seed(inj *inject.Injector, r *http.Request) {
	for k, v := range c.config {
		inj.Set(k, v)
	}
	for name, fn := range c.attributes {
		fn := fn
		inj.SetDeferred(name, func(_ *inject.Injector) (any, error) {
			return fn(r)
		})
	}
}

// URLFor builds the URL path that routes to a handler, anywhere in the
// controller graph, substituting params for the bindings along the
// way, including bindings on the path to the handler's mount point.
// It returns ErrNotRouted for a handler no tree routes.
func (c *Controller) URLFor(h *inject.Handler, params map[string]any) (string, error) {
	owner, ok := c.root.owner[h]
	if !ok {
		return "", tree.ErrNotRouted
	}
	path, err := owner.Tree().PathFor(h, params)
	if err != nil {
		return "", err
	}
	var segs []string
	for cur := owner; cur.mountPoint != nil; cur = cur.parent {
		prefix, err := cur.mountPoint.PathSegments(params)
		if err != nil {
			return "", err
		}
		segs = append(prefix, segs...)
	}
	if len(segs) == 0 {
		return path, nil
	}
	prefix := "/" + strings.Join(segs, "/")
	if path == "/" {
		return prefix, nil
	}
	return prefix + path, nil
}
