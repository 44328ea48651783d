package validation

import "fmt"

// Error is a problem with user input. Its message is safe to show as-is.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

func invalid(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}
