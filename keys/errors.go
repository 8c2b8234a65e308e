package keys

import "fmt"

// ValidationErrCode enumerates the ways an item can fail to satisfy a
// key schema.
type ValidationErrCode int

const (
	// MissingAttribute indicates a schema-required key attribute is not
	// present in the item.
	MissingAttribute ValidationErrCode = iota
	// TypeMismatch indicates a schema-required key attribute is present
	// but holds a value of the wrong type.
	TypeMismatch
)

// ValidationError is returned by Validate/Extract when an item does not
// satisfy a key schema.
type ValidationError struct {
	Code     ValidationErrCode
	Name     string
	Expected AttrType
	Actual   string
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case MissingAttribute:
		return fmt.Sprintf("keys: missing key attribute %q", e.Name)
	case TypeMismatch:
		return fmt.Sprintf("keys: key attribute %q expected type %s, got %s", e.Name, e.Expected, e.Actual)
	default:
		return "keys: validation error"
	}
}

func errMissing(name string) *ValidationError {
	return &ValidationError{Code: MissingAttribute, Name: name}
}

func errTypeMismatch(name string, expected AttrType, actual string) *ValidationError {
	return &ValidationError{Code: TypeMismatch, Name: name, Expected: expected, Actual: actual}
}
