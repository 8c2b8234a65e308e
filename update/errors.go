package update

import "fmt"

// Error is returned by Apply when an action cannot be legally performed
// against the working item (type mismatch, out-of-bounds list write,
// and similar programmer-visible mistakes).
type Error struct {
	msg string
}

func (e *Error) Error() string { return "update: " + e.msg }

func errf(format string, a ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, a...)}
}
