package index

import "github.com/pradoz/nosquealdb/keys"

// NewLSI builds a local secondary index: it shares the table's
// partition key and introduces an alternative sort attribute.
func NewLSI(name string, tableSchema keys.Schema, sortName string, sortType keys.AttrType, proj Projection) *Index {
	indexSchema := keys.Schema{
		Partition: tableSchema.Partition,
		Sort:      &keys.AttrDef{Name: sortName, Type: sortType},
	}
	return New(name, tableSchema, indexSchema, proj)
}
