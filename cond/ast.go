// Package cond implements the condition-expression language: a boolean
// tree over attribute paths, used to gate every conditional mutation
// the table engine performs.
package cond

import (
	"github.com/pradoz/nosquealdb/attr"
)

// CompareOp enumerates the relational operators Compare supports.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// SizeOp enumerates the relational operators Size supports. It is an
// alias of CompareOp, so the same constants apply; Size compares an int
// size rather than an attribute value.
type SizeOp = CompareOp

// Node is implemented by every condition AST node.
type Node interface {
	isCondition()
}

// Compare tests path against value using op.
type Compare struct {
	Path  attr.Path
	Op    CompareOp
	Value attr.Value
}

// Between tests whether path's value lies in [low, high] inclusive.
type Between struct {
	Path       attr.Path
	Low, High  attr.Value
}

// AttributeExists succeeds when path resolves to any value, including
// Null.
type AttributeExists struct {
	Path attr.Path
}

// AttributeNotExists succeeds when path does not resolve.
type AttributeNotExists struct {
	Path attr.Path
}

// BeginsWith tests whether an S or B attribute starts with prefix.
type BeginsWith struct {
	Path   attr.Path
	Prefix attr.Value
}

// Contains tests substring (S), subsequence (B), membership (L) or set
// membership (Ss/Ns/Bs).
type Contains struct {
	Path    attr.Path
	Operand attr.Value
}

// AttributeType tests path's runtime type against expected.
type AttributeType struct {
	Path     attr.Path
	Expected attr.Kind
}

// Size tests the Size() metric of path's value against value using op.
type Size struct {
	Path  attr.Path
	Op    SizeOp
	Value int
}

// And is true when both Left and Right are true; Right is not
// evaluated if Left is false.
type And struct{ Left, Right Node }

// Or is true when either Left or Right is true; Right is not evaluated
// if Left is true.
type Or struct{ Left, Right Node }

// Not negates Inner.
type Not struct{ Inner Node }

func (Compare) isCondition()            {}
func (Between) isCondition()            {}
func (AttributeExists) isCondition()    {}
func (AttributeNotExists) isCondition() {}
func (BeginsWith) isCondition()         {}
func (Contains) isCondition()           {}
func (AttributeType) isCondition()      {}
func (Size) isCondition()               {}
func (And) isCondition()                {}
func (Or) isCondition()                 {}
func (Not) isCondition()                {}
