// Package database is the supplemented registry layer above a single
// table: it owns a set of named tables, each backed by its own
// in-memory store, and exposes CreateTable/DeleteTable/DescribeTable —
// operations the core spec leaves to the caller but that any real
// deployment of this engine needs.
package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pradoz/nosquealdb/config"
	"github.com/pradoz/nosquealdb/index"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/kv/memkv"
	"github.com/pradoz/nosquealdb/table"
)

// ErrCode enumerates the ways a database-level operation can fail.
type ErrCode int

const (
	TableAlreadyExists ErrCode = iota
	TableNotFound
	InvalidDefinition
)

// Error is the error type returned by Database operations.
type Error struct {
	Code ErrCode
	Name string
	msg  string
}

func (e *Error) Error() string {
	switch e.Code {
	case TableAlreadyExists:
		return fmt.Sprintf("database: table already exists: %q", e.Name)
	case TableNotFound:
		return fmt.Sprintf("database: table not found: %q", e.Name)
	default:
		return fmt.Sprintf("database: invalid table definition %q: %s", e.Name, e.msg)
	}
}

// IndexDescription summarizes one attached secondary index.
type IndexDescription struct {
	Name   string
	Kind   string // "GSI" or "LSI"
	Schema keys.Schema
}

// TableDescription summarizes a table's shape, mirroring the
// DescribeTable-style introspection callers expect from a document
// store even though the core spec does not require it.
type TableDescription struct {
	Name       string
	Schema     keys.Schema
	ItemCount  int
	Indexes    []IndexDescription
}

// Database is a named registry of tables. The zero value is not usable;
// construct with New.
type Database struct {
	mu     sync.Mutex
	tables map[string]*entry
}

type entry struct {
	table   *table.Table
	indexes []IndexDescription
}

// New returns an empty Database.
func New() *Database {
	return &Database{tables: map[string]*entry{}}
}

// CreateTable builds a table from def and its attached indexes,
// registering it under def.Name. It fails if the name is already taken
// or the definition does not parse into a valid schema.
func (d *Database) CreateTable(def config.TableDef) (*table.Table, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.tables[def.Name]; ok {
		return nil, &Error{Code: TableAlreadyExists, Name: def.Name}
	}

	schema, err := def.Schema()
	if err != nil {
		return nil, &Error{Code: InvalidDefinition, Name: def.Name, msg: err.Error()}
	}

	tbl := table.New(def.Name, schema, memkv.New())
	var descriptions []IndexDescription
	for _, idxDef := range def.Indexes {
		idx, desc, err := buildIndex(schema, idxDef)
		if err != nil {
			return nil, &Error{Code: InvalidDefinition, Name: def.Name, msg: err.Error()}
		}
		switch desc.Kind {
		case "GSI":
			tbl.AttachGSI(idx)
		case "LSI":
			tbl.AttachLSI(idx)
		}
		descriptions = append(descriptions, desc)
	}

	d.tables[def.Name] = &entry{table: tbl, indexes: descriptions}
	return tbl, nil
}

func buildIndex(tableSchema keys.Schema, def config.IndexDef) (*index.Index, IndexDescription, error) {
	proj, err := projectionFor(def)
	if err != nil {
		return nil, IndexDescription{}, err
	}

	switch def.Kind {
	case "gsi", "GSI":
		if def.Partition == nil {
			return nil, IndexDescription{}, fmt.Errorf("gsi %q requires a partition key", def.Name)
		}
		pkType, err := def.Partition.ToKeysAttrType()
		if err != nil {
			return nil, IndexDescription{}, err
		}
		indexSchema := keys.NewSchema(def.Partition.Name, pkType)
		if def.Sort != nil {
			skType, err := def.Sort.ToKeysAttrType()
			if err != nil {
				return nil, IndexDescription{}, err
			}
			indexSchema = indexSchema.WithSort(def.Sort.Name, skType)
		}
		idx := index.NewGSI(def.Name, tableSchema, indexSchema, proj)
		return idx, IndexDescription{Name: def.Name, Kind: "GSI", Schema: indexSchema}, nil
	case "lsi", "LSI":
		if def.Sort == nil {
			return nil, IndexDescription{}, fmt.Errorf("lsi %q requires a sort key", def.Name)
		}
		skType, err := def.Sort.ToKeysAttrType()
		if err != nil {
			return nil, IndexDescription{}, err
		}
		idx := index.NewLSI(def.Name, tableSchema, def.Sort.Name, skType, proj)
		return idx, IndexDescription{Name: def.Name, Kind: "LSI", Schema: idx.Schema}, nil
	default:
		return nil, IndexDescription{}, fmt.Errorf("index %q has unknown kind %q", def.Name, def.Kind)
	}
}

func projectionFor(def config.IndexDef) (index.Projection, error) {
	switch def.Projection {
	case "", "all":
		return index.AllAttributes(), nil
	case "keys_only":
		return index.KeysOnly(), nil
	case "include":
		return index.Include(def.Include...), nil
	default:
		return index.Projection{}, fmt.Errorf("index %q has unknown projection %q", def.Name, def.Projection)
	}
}

// DeleteTable removes a table from the registry.
func (d *Database) DeleteTable(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.tables[name]; !ok {
		return &Error{Code: TableNotFound, Name: name}
	}
	delete(d.tables, name)
	return nil
}

// Table returns the named table, if registered.
func (d *Database) Table(name string) (*table.Table, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.tables[name]
	if !ok {
		return nil, false
	}
	return e.table, true
}

// TableNames returns every registered table name, sorted.
func (d *Database) TableNames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.tables))
	for name := range d.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DescribeTable summarizes a registered table's shape.
func (d *Database) DescribeTable(name string) (TableDescription, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.tables[name]
	if !ok {
		return TableDescription{}, &Error{Code: TableNotFound, Name: name}
	}
	return TableDescription{
		Name:      name,
		Schema:    e.table.Schema,
		ItemCount: e.table.Backend.Len(),
		Indexes:   e.indexes,
	}, nil
}
