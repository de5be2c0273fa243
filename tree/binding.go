package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trellisdev/trellis/inject"
)

// Binding describes one variable path element: its name, an optional
// validator invoked during dispatch, and an optional formatter used by
// reverse lookup. A binding is created by Node.Bind, belongs to exactly
// one node, and is immutable once the tree is frozen.
type Binding struct {
	name      string
	validator *inject.Handler
	formatter func(value any) (string, error)
	node      *Node
}

// Name returns the binding's parameter name.
func (b *Binding) Name() string {
	return b.name
}

// validate runs the validator for a raw path segment. Without a
// validator the segment string itself is the binding value. The
// validator is dependency-injected, so it can declare previously bound
// parameters in addition to "value".
func (b *Binding) validate(inj *inject.Injector, value string) (any, error) {
	if b.validator == nil {
		return value, nil
	}
	return inj.Call(b.validator, inject.Args{ParamValue: value})
}

// format converts a binding value back into a URL path segment. The
// formatter wins when set; otherwise values with a canonical string
// form are converted directly and anything else is a FormattingError.
// A formatted segment must be non-empty and must not contain a slash.
func (b *Binding) format(value any) (string, error) {
	seg, err := b.formatValue(value)
	if err != nil {
		return "", err
	}
	if seg == "" || strings.Contains(seg, "/") {
		return "", &FormattingError{Binding: b.name, Value: value}
	}
	return seg, nil
}

func (b *Binding) formatValue(value any) (string, error) {
	if b.formatter != nil {
		return b.formatter(value)
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	default:
		return "", &FormattingError{Binding: b.name, Value: value}
	}
}
