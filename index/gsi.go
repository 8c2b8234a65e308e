package index

import "github.com/pradoz/nosquealdb/keys"

// NewGSI builds a global secondary index: its key schema is entirely
// independent of the table's, so callers supply it directly.
func NewGSI(name string, tableSchema, indexSchema keys.Schema, proj Projection) *Index {
	return New(name, tableSchema, indexSchema, proj)
}
