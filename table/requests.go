package table

import (
	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/cond"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/query"
	"github.com/pradoz/nosquealdb/update"
)

// ReturnValue selects what a mutation hands back to the caller.
type ReturnValue int

const (
	ReturnNone ReturnValue = iota
	ReturnAllOld
	ReturnAllNew
)

// PutRequest writes item wholesale, replacing whatever the target key
// currently holds.
type PutRequest struct {
	Item attr.M
	// Condition gates the write against the current item (or an empty
	// item, if none exists). Nil means unconditional.
	Condition cond.Node
	// IfNotExists is equivalent to ANDing Condition with
	// attribute_not_exists(partition key); set by the CLI's put
	// --if-not-exists flag.
	IfNotExists bool
	ReturnValue ReturnValue
}

// GetRequest reads a single item by key.
type GetRequest struct {
	Key keys.PrimaryKey
}

// GetResult is the outcome of Get.
type GetResult struct {
	Item  attr.M
	Found bool
}

// UpdateRequest applies expr's actions to the item at Key.
type UpdateRequest struct {
	Key         keys.PrimaryKey
	Expression  update.Expression
	Condition   cond.Node
	ReturnValue ReturnValue
}

// DeleteRequest removes the item at Key.
type DeleteRequest struct {
	Key         keys.PrimaryKey
	Condition   cond.Node
	ReturnValue ReturnValue
}

// MutationResult is the outcome of Put/Update/Delete.
type MutationResult struct {
	// Existed reports whether an item occupied the key before this
	// mutation ran.
	Existed bool
	// Attributes holds the item snapshot requested via ReturnValue; nil
	// when ReturnValue is ReturnNone or there is nothing to return.
	Attributes attr.M
}

// QueryRequest scans a single partition (optionally on a named index)
// for items matching an optional filter on top of the key condition.
type QueryRequest struct {
	IndexName string // empty selects the table's own primary key
	Condition query.KeyCondition
	Filter    cond.Node
	Options   query.Options
}

// QueryResult is the outcome of Query.
type QueryResult struct {
	Items        []attr.M
	ScannedCount int
	Count        int
}

// ScanRequest walks every item in the table (or a named index),
// applying an optional filter, with keyset pagination.
type ScanRequest struct {
	IndexName         string
	Filter            cond.Node
	Limit             *int
	ExclusiveStartKey *keys.PrimaryKey
}

// ScanResult is the outcome of Scan; LastEvaluatedKey is the key of the
// last returned item whenever the page stopped because it reached
// Limit (even if no further items remain), and nil otherwise.
type ScanResult struct {
	Items            []attr.M
	ScannedCount     int
	Count            int
	LastEvaluatedKey *keys.PrimaryKey
}
