// Package index implements secondary indexes (global and local): derived,
// sparse, projected views of a table maintained incrementally as items
// are written.
package index

import (
	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/keys"
)

// ProjectionKind enumerates the ways an index can select which
// attributes it stores per item.
type ProjectionKind int

const (
	// ProjectAll copies every attribute.
	ProjectAll ProjectionKind = iota
	// ProjectKeysOnly keeps the union of table-schema and index-schema
	// key names.
	ProjectKeysOnly
	// ProjectInclude keeps the KeysOnly union plus Attributes.
	ProjectInclude
)

// Projection selects which attributes an index stores for each item.
type Projection struct {
	Kind       ProjectionKind
	Attributes []string // only meaningful when Kind == ProjectInclude
}

// AllAttributes returns the All projection.
func AllAttributes() Projection { return Projection{Kind: ProjectAll} }

// KeysOnly returns the KeysOnly projection.
func KeysOnly() Projection { return Projection{Kind: ProjectKeysOnly} }

// Include returns an Include projection over the given extra attribute
// names.
func Include(names ...string) Projection {
	return Projection{Kind: ProjectInclude, Attributes: names}
}

func apply(item attr.M, proj Projection, tableSchema, indexSchema keys.Schema) attr.M {
	if proj.Kind == ProjectAll {
		return item
	}
	keep := keyNameSet(tableSchema)
	for k := range keyNameSet(indexSchema) {
		keep[k] = struct{}{}
	}
	if proj.Kind == ProjectInclude {
		for _, name := range proj.Attributes {
			keep[name] = struct{}{}
		}
	}
	out := attr.M{}
	for name := range keep {
		if v, ok := item.Get(name); ok {
			out = out.Set(name, v)
		}
	}
	return out
}

func keyNameSet(schema keys.Schema) map[string]struct{} {
	out := map[string]struct{}{schema.Partition.Name: {}}
	if schema.Sort != nil {
		out[schema.Sort.Name] = struct{}{}
	}
	return out
}
