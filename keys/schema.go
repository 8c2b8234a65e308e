// Package keys implements primary-key schemas, key extraction and
// validation, and the canonical storage-key string format used as the
// identity of an item in the backend and in every secondary index.
package keys

import (
	"fmt"

	"github.com/pradoz/nosquealdb/attr"
)

// AttrType is the subset of attr.Kind legal for a key attribute.
type AttrType int

const (
	TypeS AttrType = iota + 1
	TypeN
	TypeB
)

func (t AttrType) String() string {
	switch t {
	case TypeS:
		return "S"
	case TypeN:
		return "N"
	case TypeB:
		return "B"
	default:
		return "?"
	}
}

// Matches reports whether v is a legal value for a key attribute of
// type t.
func (t AttrType) Matches(v attr.Value) bool {
	return t.matches(v)
}

func (t AttrType) matches(v attr.Value) bool {
	switch t {
	case TypeS:
		_, ok := v.(attr.S)
		return ok
	case TypeN:
		_, ok := v.(attr.N)
		return ok
	case TypeB:
		_, ok := v.(attr.B)
		return ok
	default:
		return false
	}
}

// AttrDef names one key attribute and its required type.
type AttrDef struct {
	Name string
	Type AttrType
}

// Schema is the static, immutable key contract for a table: the
// partition-key definition and an optional sort-key definition.
type Schema struct {
	Partition AttrDef
	Sort      *AttrDef
}

// NewSchema builds a partition-key-only schema.
func NewSchema(pkName string, pkType AttrType) Schema {
	return Schema{Partition: AttrDef{Name: pkName, Type: pkType}}
}

// WithSort returns a copy of the schema with a sort key attached.
func (s Schema) WithSort(skName string, skType AttrType) Schema {
	s.Sort = &AttrDef{Name: skName, Type: skType}
	return s
}

// HasSort reports whether the schema declares a sort key.
func (s Schema) HasSort() bool { return s.Sort != nil }

func (s Schema) String() string {
	if s.Sort == nil {
		return fmt.Sprintf("{%s:%s}", s.Partition.Name, s.Partition.Type)
	}
	return fmt.Sprintf("{%s:%s,%s:%s}", s.Partition.Name, s.Partition.Type, s.Sort.Name, s.Sort.Type)
}
