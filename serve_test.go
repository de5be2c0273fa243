package trellis

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trellisdev/trellis/inject"
	"github.com/trellisdev/trellis/tree"
)

func textHandler(body string) *inject.Handler {
	return inject.NewHandler(func(_ inject.Args) (any, error) {
		return body, nil
	})
}

func do(t *testing.T, c *Controller, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServeBasics(t *testing.T) {
	t.Run("matched handler body", func(t *testing.T) {
		tr := tree.New()
		tr.Path("books").Route(textHandler("the shelf"), "GET")
		c := New(tr)

		rec := do(t, c, http.MethodGet, "/books")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "the shelf", rec.Body.String())
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		tr := tree.New()
		tr.Path("books").Route(textHandler(""), "GET")
		c := New(tr)

		rec := do(t, c, http.MethodGet, "/authors")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("dot segments are cleaned", func(t *testing.T) {
		tr := tree.New()
		tr.Path("books").Route(textHandler("ok"), "GET")
		c := New(tr)

		rec := do(t, c, http.MethodGet, "/a/../books/.")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("custom not found handler", func(t *testing.T) {
		tr := tree.New()
		tr.Path("books").Route(textHandler(""), "GET")
		c := New(tr)
		c.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusGone)
		})

		rec := do(t, c, http.MethodGet, "/authors")
		assert.Equal(t, http.StatusGone, rec.Code)
	})
}

func TestServeMethods(t *testing.T) {
	t.Run("method not allowed carries allow header", func(t *testing.T) {
		tr := tree.New()
		n := tr.Path("books")
		n.Route(textHandler(""), "GET")
		n.Route(textHandler(""), "DELETE")
		c := New(tr)

		rec := do(t, c, http.MethodPost, "/books")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "DELETE,GET,HEAD,OPTIONS", rec.Header().Get("Allow"))
	})

	t.Run("options is synthesized", func(t *testing.T) {
		tr := tree.New()
		n := tr.Path("books")
		n.Route(textHandler(""), "GET")
		n.Route(textHandler(""), "PUT")
		c := New(tr)

		rec := do(t, c, http.MethodOptions, "/books")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "GET,HEAD,PUT,OPTIONS", rec.Header().Get("Allow"))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("head is served by the get handler", func(t *testing.T) {
		tr := tree.New()
		tr.Path("books").Route(textHandler("the shelf"), "GET")
		c := New(tr)

		rec := do(t, c, http.MethodHead, "/books")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("custom method not allowed handler", func(t *testing.T) {
		tr := tree.New()
		tr.Path("books").Route(textHandler(""), "GET")
		c := New(tr)
		c.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotImplemented)
		})

		rec := do(t, c, http.MethodPost, "/books")
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Allow"))
	})
}

func TestServeInjection(t *testing.T) {
	t.Run("binding values are injected", func(t *testing.T) {
		h := inject.NewHandler(func(args inject.Args) (any, error) {
			return "book " + args.String("book_id"), nil
		}, inject.Required("book_id"))

		tr := tree.New()
		tr.Path("books").Bind("book_id").Route(h, "GET")
		c := New(tr)

		rec := do(t, c, http.MethodGet, "/books/42")
		assert.Equal(t, "book 42", rec.Body.String())
	})

	t.Run("request and controller are injectable", func(t *testing.T) {
		var gotReq *http.Request
		var gotCtrl any
		h := inject.NewHandler(func(args inject.Args) (any, error) {
			gotReq = args["request"].(*http.Request)
			gotCtrl = args["controller"]
			return nil, nil
		}, inject.Required("request", "controller"))

		tr := tree.New()
		tr.Path("whoami").Route(h, "GET")
		c := New(tr)

		do(t, c, http.MethodGet, "/whoami")
		require.NotNil(t, gotReq)
		assert.Equal(t, "/whoami", gotReq.URL.Path)
		assert.Same(t, c, gotCtrl)
	})

	t.Run("config values are injectable", func(t *testing.T) {
		h := inject.NewHandler(func(args inject.Args) (any, error) {
			return args.String("greeting"), nil
		}, inject.Required("greeting"))

		tr := tree.New()
		tr.Path("hello").Route(h, "GET")
		c := New(tr, WithConfig(map[string]any{"greeting": "hi there"}))

		rec := do(t, c, http.MethodGet, "/hello")
		assert.Equal(t, "hi there", rec.Body.String())
	})

	t.Run("attributes resolve lazily and once", func(t *testing.T) {
		calls := 0
		h := inject.NewHandler(func(args inject.Args) (any, error) {
			a := args["expensive"].(int)
			b := args["expensive"].(int)
			return strconv.Itoa(a + b), nil
		}, inject.Required("expensive"))

		tr := tree.New()
		tr.Path("sum").Route(h, "GET")
		tr.Path("skip").Route(textHandler("nothing"), "GET")
		c := New(tr, WithAttribute("expensive", func(_ *http.Request) (any, error) {
			calls++
			return 21, nil
		}))

		rec := do(t, c, http.MethodGet, "/sum")
		assert.Equal(t, "42", rec.Body.String())
		assert.Equal(t, 1, calls)

		do(t, c, http.MethodGet, "/skip")
		assert.Equal(t, 1, calls, "handler that does not declare the attribute must not resolve it")
	})

	t.Run("undeclared parameters are never passed", func(t *testing.T) {
		h := inject.NewHandler(func(args inject.Args) (any, error) {
			_, present := args["json_body"]
			assert.False(t, present)
			return nil, nil
		}, inject.Required("book_id"))

		tr := tree.New()
		tr.Path("books").Bind("book_id").Route(h, "POST")
		c := New(tr, WithAttribute("json_body", JSONBody(1<<20)))

		rec := do(t, c, http.MethodPost, "/books/1")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("path_info is injected", func(t *testing.T) {
		h := inject.NewHandler(func(args inject.Args) (any, error) {
			return args.String("path_info"), nil
		}, inject.Required("path_info"))

		tr := tree.New()
		tr.Path("static").Route(h, "GET")
		c := New(tr)

		rec := do(t, c, http.MethodGet, "/static/css/site.css")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "css/site.css", rec.Body.String())
	})
}

func TestServeErrors(t *testing.T) {
	t.Run("client error from a handler", func(t *testing.T) {
		h := inject.NewHandler(func(_ inject.Args) (any, error) {
			return nil, tree.NewClientError(http.StatusConflict, "already checked out")
		})

		tr := tree.New()
		tr.Path("books").Route(h, "POST")
		c := New(tr)

		rec := do(t, c, http.MethodPost, "/books")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already checked out")
	})

	t.Run("client error from a validator", func(t *testing.T) {
		v := inject.NewHandler(func(_ inject.Args) (any, error) {
			return nil, tree.NewClientError(http.StatusForbidden, "restricted shelf")
		}, inject.Required("value"))

		tr := tree.New()
		tr.Path("books").Bind("book_id").Validator(v).Route(textHandler(""), "GET")
		c := New(tr)

		rec := do(t, c, http.MethodGet, "/books/7")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unexpected errors are 500", func(t *testing.T) {
		h := inject.NewHandler(func(_ inject.Args) (any, error) {
			return nil, errors.New("the catalog is on fire")
		})

		tr := tree.New()
		tr.Path("books").Route(h, "GET")
		var logged string
		c := New(tr)
		c.LogFunc = func(format string, args ...any) {
			logged = format
		}

		rec := do(t, c, http.MethodGet, "/books")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotEmpty(t, logged)
	})

	t.Run("error handler hook overrides translation", func(t *testing.T) {
		h := inject.NewHandler(func(_ inject.Args) (any, error) {
			return nil, errors.New("boom")
		})

		tr := tree.New()
		tr.Path("books").Route(h, "GET")
		c := New(tr)
		c.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadGateway)
		}

		rec := do(t, c, http.MethodGet, "/books")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "boom")
	})

	t.Run("missing required parameter is 500", func(t *testing.T) {
		h := inject.NewHandler(func(_ inject.Args) (any, error) {
			return nil, nil
		}, inject.Required("no_such_value"))

		tr := tree.New()
		tr.Path("books").Route(h, "GET")
		c := New(tr)

		rec := do(t, c, http.MethodGet, "/books")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServeRender(t *testing.T) {
	t.Run("nil return is 204", func(t *testing.T) {
		h := inject.NewHandler(func(_ inject.Args) (any, error) {
			return nil, nil
		})
		tr := tree.New()
		tr.Path("ping").Route(h, "POST")
		c := New(tr)

		rec := do(t, c, http.MethodPost, "/ping")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("response return is written as built", func(t *testing.T) {
		h := inject.NewHandler(func(_ inject.Args) (any, error) {
			return Text(http.StatusCreated, "made it").SetHeader("Location", "/books/9"), nil
		})
		tr := tree.New()
		tr.Path("books").Route(h, "POST")
		c := New(tr)

		rec := do(t, c, http.MethodPost, "/books")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "made it", rec.Body.String())
		assert.Equal(t, "/books/9", rec.Header().Get("Location"))
	})

	t.Run("other values are encoded as json", func(t *testing.T) {
		h := inject.NewHandler(func(_ inject.Args) (any, error) {
			return map[string]int{"count": 3}, nil
		})
		tr := tree.New()
		tr.Path("stats").Route(h, "GET")
		c := New(tr)

		rec := do(t, c, http.MethodGet, "/stats")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"count": 3}`, rec.Body.String())
	})
}
