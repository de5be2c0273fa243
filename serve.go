package trellis

import (
	"errors"
	"net/http"
	"path"

	"github.com/trellisdev/trellis/inject"
	"github.com/trellisdev/trellis/tree"
)

// ServeHTTP dispatches the request through the routing tree, invokes
// the matched handler with its declared arguments, and renders the
// outcome. Each request gets a fresh injector seeded with the request
// object under "request", the root controller under "controller", and
// the controller's configuration and attributes.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	inj := inject.New()
	c.seed(inj, r)
	inj.Set(tree.ParamRequest, r)
	inj.Set(tree.ParamController, c.root)

	c.serve(w, r, inj, r.Method, cleanPath(r.URL.Path))
}

// serve runs dispatch for one controller level. Mounted results recurse
// into the child controller with the unconsumed path; the child's
// configuration is seeded inside an injector scope so it is visible
// only below the mount point.
func (c *Controller) serve(w http.ResponseWriter, r *http.Request, inj *inject.Injector, method, reqPath string) {
	res := c.tree.Dispatch(method, reqPath, inj)
	switch res.Kind {
	case tree.KindMounted:
		child, ok := c.mounts[res.Mount]
		if !ok {
			c.fail(w, r, errors.New("trellis: mount without a controller"))
			return
		}
		release := inj.Scope()
		defer release()
		child.seed(inj, r)
		child.serve(w, r, inj, method, "/"+res.Remainder)

	case tree.KindMatched:
		if res.Handler.Wants(tree.ParamPathInfo) {
			inj.Set(tree.ParamPathInfo, res.Remainder)
		}
		value, err := inj.Call(res.Handler, nil)
		if err != nil {
			c.fail(w, r, err)
			return
		}
		c.render(w, r, value)

	case tree.KindOptions:
		w.Header().Set("Allow", res.Allowed)
		w.WriteHeader(http.StatusNoContent)

	case tree.KindMethodNotAllowed:
		w.Header().Set("Allow", res.Allowed)
		if h := c.root.MethodNotAllowedHandler; h != nil {
			h.ServeHTTP(w, r)
			return
		}
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)

	case tree.KindError:
		c.fail(w, r, res.Err)

	default:
		if h := c.root.NotFoundHandler; h != nil {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	}
}

// fail renders an error from a validator or handler. ClientErrors keep
// their status code; everything else goes through the ErrorHandler
// hook or a plain 500.
func (c *Controller) fail(w http.ResponseWriter, r *http.Request, err error) {
	var cerr *tree.ClientError
	if errors.As(err, &cerr) {
		http.Error(w, cerr.Message, cerr.Code)
		return
	}
	if c.root.LogFunc != nil {
		c.root.LogFunc("trellis: %s %s: %v", r.Method, r.URL.Path, err)
	}
	if h := c.root.ErrorHandler; h != nil {
		h(w, r, err)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// render writes a handler's return value. Strings and byte slices are
// written verbatim with a 200 status, nil means 204 No Content, a
// *Response is written as built, and anything else is encoded as JSON.
func (c *Controller) render(w http.ResponseWriter, r *http.Request, value any) {
	switch v := value.(type) {
	case nil:
		w.WriteHeader(http.StatusNoContent)
	case *Response:
		if v == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		v.write(w)
	case string:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(v))
	case []byte:
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(v)
	default:
		writeJSON(w, http.StatusOK, v)
	}
}

// cleanPath returns the canonical path for p, eliminating . and ..
// elements per RFC 3986 Section 5.2.4 (remove dot segments).
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}
