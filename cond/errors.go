package cond

import (
	"fmt"

	"github.com/pradoz/nosquealdb/attr"
)

// EvalError is returned by Evaluate when a condition compares or
// combines values of incompatible types.
type EvalError struct {
	Left  attr.Kind
	Right attr.Kind
	msg   string
}

func (e *EvalError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("cond: %s (left=%s, right=%s)", e.msg, e.Left, e.Right)
	}
	return fmt.Sprintf("cond: type mismatch comparing %s and %s", e.Left, e.Right)
}

func typeMismatch(left, right attr.Kind) error {
	return &EvalError{Left: left, Right: right}
}

func unsupportedOp(msg string, left, right attr.Kind) error {
	return &EvalError{Left: left, Right: right, msg: msg}
}
