package swmedian

import "fmt"

// InvalidArgument reports that a filter was called with an argument
// outside its valid range. It is returned, never panicked, so callers
// can inspect Parameter/Detail programmatically via errors.As.
type InvalidArgument struct {
	Parameter string
	Detail    string
}

func (e *InvalidArgument) Error() string {
	return fmt.Sprintf("swmedian: invalid %s: %s", e.Parameter, e.Detail)
}

func invalidArgument(parameter, format string, args ...any) error {
	return &InvalidArgument{Parameter: parameter, Detail: fmt.Sprintf(format, args...)}
}
