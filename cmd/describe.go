package cmd

import (
	"github.com/pradoz/nosquealdb/database"
	"github.com/pradoz/nosquealdb/keys"
)

// JSON-friendly mirrors of the database description types, so the CLI
// prints attribute types as "S"/"N"/"B" instead of integer enums.

type schemaJSON struct {
	Partition attrDefJSON  `json:"partition"`
	Sort      *attrDefJSON `json:"sort,omitempty"`
}

type attrDefJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type indexDescJSON struct {
	Name   string     `json:"name"`
	Kind   string     `json:"kind"`
	Schema schemaJSON `json:"schema"`
}

type tableDescJSON struct {
	Name      string          `json:"name"`
	Schema    schemaJSON      `json:"schema"`
	ItemCount int             `json:"item_count"`
	Indexes   []indexDescJSON `json:"indexes,omitempty"`
}

func schemaToJSON(s keys.Schema) schemaJSON {
	out := schemaJSON{
		Partition: attrDefJSON{Name: s.Partition.Name, Type: s.Partition.Type.String()},
	}
	if s.Sort != nil {
		out.Sort = &attrDefJSON{Name: s.Sort.Name, Type: s.Sort.Type.String()}
	}
	return out
}

func describeJSON(desc database.TableDescription) tableDescJSON {
	out := tableDescJSON{
		Name:      desc.Name,
		Schema:    schemaToJSON(desc.Schema),
		ItemCount: desc.ItemCount,
	}
	for _, idx := range desc.Indexes {
		out.Indexes = append(out.Indexes, indexDescJSON{
			Name:   idx.Name,
			Kind:   idx.Kind,
			Schema: schemaToJSON(idx.Schema),
		})
	}
	return out
}
