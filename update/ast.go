// Package update implements the update-expression language: an ordered
// list of mutation actions applied left-to-right to a working copy of
// an item.
package update

import "github.com/pradoz/nosquealdb/attr"

// Action is implemented by every update action.
type Action interface {
	isAction()
}

// Set creates or replaces the value at Path. A list index equal to the
// list's length appends; there is no separate append action.
type Set struct {
	Path  attr.Path
	Value attr.Value
}

// SetIfNotExists behaves like Set but only when Path currently resolves
// to nothing.
type SetIfNotExists struct {
	Path  attr.Path
	Value attr.Value
}

// Remove deletes Path; a no-op if it is already absent.
type Remove struct {
	Path attr.Path
}

// Add performs numeric addition (N) or set union (Ss/Ns/Bs) at Path,
// creating the attribute if absent.
type Add struct {
	Path  attr.Path
	Value attr.Value
}

// Delete performs set subtraction at Path; a no-op if Path is absent.
type Delete struct {
	Path  attr.Path
	Value attr.Value
}

func (Set) isAction()            {}
func (SetIfNotExists) isAction() {}
func (Remove) isAction()         {}
func (Add) isAction()            {}
func (Delete) isAction()         {}

// Expression is an ordered list of actions, applied left to right.
type Expression []Action
