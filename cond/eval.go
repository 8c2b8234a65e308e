package cond

import (
	"bytes"
	"strings"

	"github.com/pradoz/nosquealdb/attr"
)

// Evaluate walks node against item and returns the boolean result. The
// only error it can return is *EvalError, raised when two operands of
// incompatible type are compared or an operator is not defined for the
// resolved value's type.
func Evaluate(node Node, item attr.M) (bool, error) {
	switch n := node.(type) {
	case Compare:
		return evalCompare(n, item)
	case Between:
		return evalBetween(n, item)
	case AttributeExists:
		_, ok := attr.Resolve(item, n.Path)
		return ok, nil
	case AttributeNotExists:
		_, ok := attr.Resolve(item, n.Path)
		return !ok, nil
	case BeginsWith:
		return evalBeginsWith(n, item)
	case Contains:
		return evalContains(n, item)
	case AttributeType:
		v, ok := attr.Resolve(item, n.Path)
		if !ok {
			return false, nil
		}
		return v.Kind() == n.Expected, nil
	case Size:
		return evalSize(n, item)
	case And:
		left, err := Evaluate(n.Left, item)
		if err != nil {
			return false, err
		}
		if !left {
			return false, nil
		}
		return Evaluate(n.Right, item)
	case Or:
		left, err := Evaluate(n.Left, item)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return Evaluate(n.Right, item)
	case Not:
		inner, err := Evaluate(n.Inner, item)
		if err != nil {
			return false, err
		}
		return !inner, nil
	default:
		return false, unsupportedOp("unknown condition node", 0, 0)
	}
}

func evalCompare(n Compare, item attr.M) (bool, error) {
	resolved, ok := attr.Resolve(item, n.Path)
	if !ok {
		return n.Op == Ne, nil
	}
	if resolved.Kind() != n.Value.Kind() {
		return false, typeMismatch(resolved.Kind(), n.Value.Kind())
	}
	// Eq/Ne are defined for every kind via Equal; only the ordering
	// operators need compareSameKind.
	switch n.Op {
	case Eq:
		return resolved.Equal(n.Value), nil
	case Ne:
		return !resolved.Equal(n.Value), nil
	}
	cmp, err := compareSameKind(resolved, n.Value)
	if err != nil {
		return false, err
	}
	switch n.Op {
	case Lt:
		return cmp < 0, nil
	case Le:
		return cmp <= 0, nil
	case Gt:
		return cmp > 0, nil
	case Ge:
		return cmp >= 0, nil
	default:
		return false, unsupportedOp("unknown compare operator", resolved.Kind(), n.Value.Kind())
	}
}

func evalBetween(n Between, item attr.M) (bool, error) {
	resolved, ok := attr.Resolve(item, n.Path)
	if !ok {
		return false, nil
	}
	if resolved.Kind() != n.Low.Kind() || resolved.Kind() != n.High.Kind() {
		return false, typeMismatch(resolved.Kind(), n.Low.Kind())
	}
	lowCmp, err := compareSameKind(resolved, n.Low)
	if err != nil {
		return false, err
	}
	highCmp, err := compareSameKind(resolved, n.High)
	if err != nil {
		return false, err
	}
	return lowCmp >= 0 && highCmp <= 0, nil
}

func evalBeginsWith(n BeginsWith, item attr.M) (bool, error) {
	resolved, ok := attr.Resolve(item, n.Path)
	if !ok {
		return false, nil
	}
	switch v := resolved.(type) {
	case attr.S:
		prefix, ok := n.Prefix.(attr.S)
		if !ok {
			return false, typeMismatch(resolved.Kind(), n.Prefix.Kind())
		}
		return strings.HasPrefix(string(v), string(prefix)), nil
	case attr.B:
		prefix, ok := n.Prefix.(attr.B)
		if !ok {
			return false, typeMismatch(resolved.Kind(), n.Prefix.Kind())
		}
		return bytes.HasPrefix([]byte(v), []byte(prefix)), nil
	default:
		return false, unsupportedOp("begins_with is only defined for S or B", resolved.Kind(), n.Prefix.Kind())
	}
}

func evalContains(n Contains, item attr.M) (bool, error) {
	resolved, ok := attr.Resolve(item, n.Path)
	if !ok {
		return false, nil
	}
	switch v := resolved.(type) {
	case attr.S:
		operand, ok := n.Operand.(attr.S)
		if !ok {
			return false, typeMismatch(resolved.Kind(), n.Operand.Kind())
		}
		return strings.Contains(string(v), string(operand)), nil
	case attr.B:
		operand, ok := n.Operand.(attr.B)
		if !ok {
			return false, typeMismatch(resolved.Kind(), n.Operand.Kind())
		}
		return bytes.Contains([]byte(v), []byte(operand)), nil
	case attr.L:
		for _, elem := range v {
			if elem.Equal(n.Operand) {
				return true, nil
			}
		}
		return false, nil
	case attr.SS:
		operand, ok := n.Operand.(attr.S)
		if !ok {
			return false, typeMismatch(resolved.Kind(), n.Operand.Kind())
		}
		for _, s := range v {
			if s == string(operand) {
				return true, nil
			}
		}
		return false, nil
	case attr.NS:
		operand, ok := n.Operand.(attr.N)
		if !ok {
			return false, typeMismatch(resolved.Kind(), n.Operand.Kind())
		}
		for _, s := range v {
			if attr.CompareNumeric(attr.N(s), operand) == 0 {
				return true, nil
			}
		}
		return false, nil
	case attr.BS:
		operand, ok := n.Operand.(attr.B)
		if !ok {
			return false, typeMismatch(resolved.Kind(), n.Operand.Kind())
		}
		for _, b := range v {
			if bytes.Equal(b, []byte(operand)) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, unsupportedOp("contains is not defined for this type", resolved.Kind(), n.Operand.Kind())
	}
}

func evalSize(n Size, item attr.M) (bool, error) {
	resolved, ok := attr.Resolve(item, n.Path)
	if !ok {
		return false, nil
	}
	size := attr.Size(resolved)
	switch n.Op {
	case Eq:
		return size == n.Value, nil
	case Ne:
		return size != n.Value, nil
	case Lt:
		return size < n.Value, nil
	case Le:
		return size <= n.Value, nil
	case Gt:
		return size > n.Value, nil
	case Ge:
		return size >= n.Value, nil
	default:
		return false, unsupportedOp("unknown size operator", resolved.Kind(), resolved.Kind())
	}
}

// compareSameKind orders two values already known to share a Kind.
// Numeric comparison uses exact int64 ordering when both operands
// parse, falling back to float64 and finally lexicographic order.
// String/binary comparison is lexicographic on code-units/bytes.
// Kinds without an ordering (Null, M, L, sets) report an error unless
// the operands are equal; Eq/Ne never reach here — evalCompare answers
// them via Equal.
func compareSameKind(a, b attr.Value) (int, error) {
	switch x := a.(type) {
	case attr.N:
		return attr.CompareNumeric(x, b.(attr.N)), nil
	case attr.S:
		return strings.Compare(string(x), string(b.(attr.S))), nil
	case attr.B:
		return bytes.Compare([]byte(x), []byte(b.(attr.B))), nil
	case attr.Bool:
		bb := bool(b.(attr.Bool))
		ab := bool(x)
		if ab == bb {
			return 0, nil
		}
		if !ab && bb {
			return -1, nil
		}
		return 1, nil
	default:
		if a.Equal(b) {
			return 0, nil
		}
		return 0, unsupportedOp("ordering is not supported for this type", a.Kind(), b.Kind())
	}
}
