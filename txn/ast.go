// Package txn implements the transaction executor: a two-phase,
// all-or-nothing group of writes (validate every item, then apply
// every item) built on top of the table engine, plus a simple
// multi-item read transaction.
package txn

import (
	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/cond"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/update"
)

// WriteItem is implemented by every transaction write item.
type WriteItem interface {
	isWriteItem()
	targetKey(schema keys.Schema) (keys.PrimaryKey, error)
}

// Put writes Item, subject to an optional Condition.
type Put struct {
	Item      attr.M
	Condition cond.Node
}

// Update applies Expression to the item at Key, subject to an optional
// Condition. The target item must already exist.
type Update struct {
	Key        keys.PrimaryKey
	Expression update.Expression
	Condition  cond.Node
}

// Delete removes the item at Key, subject to an optional Condition.
type Delete struct {
	Key       keys.PrimaryKey
	Condition cond.Node
}

// ConditionCheck evaluates Condition against the item at Key (or empty,
// if absent) without writing anything; it only participates in phase 1.
type ConditionCheck struct {
	Key       keys.PrimaryKey
	Condition cond.Node
}

func (Put) isWriteItem()            {}
func (Update) isWriteItem()         {}
func (Delete) isWriteItem()         {}
func (ConditionCheck) isWriteItem() {}

func (p Put) targetKey(schema keys.Schema) (keys.PrimaryKey, error) {
	return keys.Extract(p.Item, schema)
}

func (u Update) targetKey(schema keys.Schema) (keys.PrimaryKey, error) {
	return u.Key, nil
}

func (d Delete) targetKey(schema keys.Schema) (keys.PrimaryKey, error) {
	return d.Key, nil
}

func (c ConditionCheck) targetKey(schema keys.Schema) (keys.PrimaryKey, error) {
	return c.Key, nil
}
