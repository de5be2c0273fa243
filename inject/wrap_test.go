package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest(t *testing.T) {
	t.Run("Wants covers required and optional names", func(t *testing.T) {
		h := NewHandler(func(Args) (any, error) { return nil, nil },
			Required("a"), Optional("b", nil))

		assert.True(t, h.Wants("a"))
		assert.True(t, h.Wants("b"))
		assert.False(t, h.Wants("c"))
	})

	t.Run("later declarations win", func(t *testing.T) {
		h := NewHandler(func(args Args) (any, error) {
			return args["a"], nil
		}, Required("a"), Optional("a", 7))

		// "a" became optional, so the call succeeds without a value.
		out, err := New().Call(h, nil)
		require.NoError(t, err)
		assert.Equal(t, 7, out)
	})

	t.Run("Names are sorted", func(t *testing.T) {
		h := NewHandler(func(Args) (any, error) { return nil, nil },
			Required("zeta", "alpha"), Optional("mid", nil))

		assert.Equal(t, []string{"alpha", "mid", "zeta"}, h.Manifest().Names())
	})
}

func TestWrap(t *testing.T) {
	t.Run("merged manifest is the union of wrapper and wrapped", func(t *testing.T) {
		inner := NewHandler(func(Args) (any, error) { return nil, nil },
			Required("sub_id"), Optional("page", 1))
		wrapped := Wrap(inner, func(args Args, next Next) (any, error) {
			return next(nil)
		}, Required("request"))

		assert.True(t, wrapped.Wants("sub_id"))
		assert.True(t, wrapped.Wants("page"))
		assert.True(t, wrapped.Wants("request"))
	})

	t.Run("provided names disappear from the merged manifest", func(t *testing.T) {
		inner := NewHandler(func(Args) (any, error) { return nil, nil },
			Required("request_id"))
		wrapped := Wrap(inner, func(args Args, next Next) (any, error) {
			return next(Args{"request_id": "generated"})
		}, Provides("request_id"))

		assert.False(t, wrapped.Wants("request_id"))
	})

	t.Run("wrapped required overrides wrapper optional", func(t *testing.T) {
		inner := NewHandler(func(Args) (any, error) { return nil, nil },
			Required("token"))
		wrapped := Wrap(inner, func(args Args, next Next) (any, error) {
			return next(nil)
		}, Optional("token", "anon"))

		inj := New()
		_, err := inj.Call(wrapped, nil)

		var injErr *InjectionError
		require.ErrorAs(t, err, &injErr)
		assert.Equal(t, "token", injErr.Name)
	})

	t.Run("wrapper provides the value through Next", func(t *testing.T) {
		inner := NewHandler(func(args Args) (any, error) {
			return args["request_id"], nil
		}, Required("request_id"))
		wrapped := Wrap(inner, func(args Args, next Next) (any, error) {
			return next(Args{"request_id": "abc-123"})
		}, Provides("request_id"))

		inj := New()
		out, err := inj.Call(wrapped, nil)
		require.NoError(t, err)
		assert.Equal(t, "abc-123", out)
	})

	t.Run("Next filters arguments to the wrapped manifest", func(t *testing.T) {
		inner := NewHandler(func(args Args) (any, error) {
			_, hasReq := args["request"]
			assert.False(t, hasReq)
			return args["sub_id"], nil
		}, Required("sub_id"))
		wrapped := Wrap(inner, func(args Args, next Next) (any, error) {
			return next(nil)
		}, Required("request"))

		inj := New()
		inj.Set("request", "opaque")
		inj.Set("sub_id", "1234")

		out, err := inj.Call(wrapped, nil)
		require.NoError(t, err)
		assert.Equal(t, "1234", out)
	})

	t.Run("wrapped optional default applies through Next", func(t *testing.T) {
		inner := NewHandler(func(args Args) (any, error) {
			return args["page"], nil
		}, Optional("page", 5))
		wrapped := Wrap(inner, func(args Args, next Next) (any, error) {
			return next(nil)
		})

		inj := New()
		out, err := inj.Call(wrapped, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, out)
	})

	t.Run("forgetting a provided value fails the wrapped call", func(t *testing.T) {
		inner := NewHandler(func(Args) (any, error) { return nil, nil },
			Required("request_id"))
		wrapped := Wrap(inner, func(args Args, next Next) (any, error) {
			return next(nil) // promised request_id but never passed it
		}, Provides("request_id"))

		inj := New()
		_, err := inj.Call(wrapped, nil)

		var injErr *InjectionError
		require.ErrorAs(t, err, &injErr)
		assert.Equal(t, "request_id", injErr.Name)
	})

	t.Run("wrappers nest", func(t *testing.T) {
		inner := NewHandler(func(args Args) (any, error) {
			return args.String("a") + args.String("b"), nil
		}, Required("a", "b"))
		mid := Wrap(inner, func(args Args, next Next) (any, error) {
			return next(Args{"b": "B"})
		}, Provides("b"))
		outer := Wrap(mid, func(args Args, next Next) (any, error) {
			return next(Args{"a": "A"})
		}, Provides("a"))

		assert.False(t, outer.Wants("a"))
		assert.False(t, outer.Wants("b"))

		inj := New()
		out, err := inj.Call(outer, nil)
		require.NoError(t, err)
		assert.Equal(t, "AB", out)
	})
}
