// Package table implements the table engine: orchestration of item
// lifecycle, key validation, conditional mutation and secondary-index
// maintenance on top of the attr/keys/cond/update/query/index packages.
package table

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrCode enumerates the ways a table-engine operation can fail.
type ErrCode int

const (
	InvalidKey ErrCode = iota
	ItemNotFound
	ItemAlreadyExists
	IndexNotFound
	ConditionFailed
	ConditionError
	UpdateError
	Storage
	Encoding
)

// Error is the error type surfaced by every table-engine operation.
type Error struct {
	Code  ErrCode
	Name  string // index name, for IndexNotFound
	cause error
}

func (e *Error) Error() string {
	switch e.Code {
	case InvalidKey:
		return fmt.Sprintf("table: invalid key: %v", e.cause)
	case ItemNotFound:
		return "table: item not found"
	case ItemAlreadyExists:
		return "table: item already exists"
	case IndexNotFound:
		return fmt.Sprintf("table: index not found: %q", e.Name)
	case ConditionFailed:
		return "table: condition failed"
	case ConditionError:
		return fmt.Sprintf("table: condition evaluation error: %v", e.cause)
	case UpdateError:
		return fmt.Sprintf("table: update error: %v", e.cause)
	case Storage:
		return fmt.Sprintf("table: storage error: %v", e.cause)
	case Encoding:
		return fmt.Sprintf("table: encoding error: %v", e.cause)
	default:
		return "table: error"
	}
}

// Unwrap exposes the wrapped cause, if any, so callers can use
// errors.Is/errors.As against lower-layer error types (kv.Error,
// keys.ValidationError, cond.EvalError, update.Error).
func (e *Error) Unwrap() error { return e.cause }

func errInvalidKey(cause error) *Error {
	return &Error{Code: InvalidKey, cause: cause}
}

func errIndexNotFound(name string) *Error {
	return &Error{Code: IndexNotFound, Name: name}
}

func errConditionFailed() *Error {
	return &Error{Code: ConditionFailed}
}

func errItemAlreadyExists() *Error {
	return &Error{Code: ItemAlreadyExists}
}

func errConditionError(cause error) *Error {
	return &Error{Code: ConditionError, cause: errors.Wrap(cause, "evaluating condition")}
}

func errUpdateError(cause error) *Error {
	return &Error{Code: UpdateError, cause: cause}
}

func errUpdateMsg(msg string) *Error {
	return &Error{Code: UpdateError, cause: errors.New(msg)}
}

func errStorage(cause error) *Error {
	return &Error{Code: Storage, cause: errors.Wrap(cause, "backend")}
}

func errEncoding(cause error) *Error {
	return &Error{Code: Encoding, cause: cause}
}

func errf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// IsConditionFailed reports whether err is a ConditionFailed Error.
func IsConditionFailed(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Code == ConditionFailed
}

// IsItemAlreadyExists reports whether err is an ItemAlreadyExists Error.
func IsItemAlreadyExists(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Code == ItemAlreadyExists
}
