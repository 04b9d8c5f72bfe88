package parse

import "fmt"

// UnknownEventTypeError is returned when a line's tag is not one of the
// recognized event kinds.
type UnknownEventTypeError struct {
	Tag string
}

func (e *UnknownEventTypeError) Error() string {
	return fmt.Sprintf("unknown event type %q", e.Tag)
}

// MalformedFieldError is returned when a line has the wrong number of
// fields or a field does not convert to its required type.
type MalformedFieldError struct {
	Tag    string
	Field  string // empty for arity errors
	Value  string
	Reason string
}

func (e *MalformedFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed %s event: %s", e.Tag, e.Reason)
	}
	return fmt.Sprintf("malformed %s event: field %s=%q: %s", e.Tag, e.Field, e.Value, e.Reason)
}

// LineError ties a parse failure to its 1-based line in the source log.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
