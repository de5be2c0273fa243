package inject

import "fmt"

// InjectionError reports a declared required parameter that could not be
// resolved from the call overrides, the injector, or a wrapper. The
// surrounding dispatcher translates it into a 500-class response unless
// overridden.
type InjectionError struct {
	// Name is the parameter that had no available value.
	Name string
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("inject: no value available for parameter %q", e.Name)
}
