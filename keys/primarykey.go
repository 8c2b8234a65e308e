package keys

import (
	"github.com/pradoz/nosquealdb/attr"
)

// PrimaryKey is the tuple identifying an item: a required partition-key
// value and an optional sort-key value. Values are restricted to the
// S/N/B attribute variants.
type PrimaryKey struct {
	Pk attr.Value
	Sk attr.Value // nil when the schema has no sort key
}

// Extract pulls the primary key out of item according to schema,
// failing with a *ValidationError if a required key attribute is
// missing or of the wrong type.
func Extract(item attr.M, schema Schema) (PrimaryKey, error) {
	pkVal, ok := item.Get(schema.Partition.Name)
	if !ok {
		return PrimaryKey{}, errMissing(schema.Partition.Name)
	}
	if !schema.Partition.Type.matches(pkVal) {
		return PrimaryKey{}, errTypeMismatch(schema.Partition.Name, schema.Partition.Type, pkVal.Kind().String())
	}
	pk := PrimaryKey{Pk: pkVal}
	if schema.Sort != nil {
		skVal, ok := item.Get(schema.Sort.Name)
		if !ok {
			return PrimaryKey{}, errMissing(schema.Sort.Name)
		}
		if !schema.Sort.Type.matches(skVal) {
			return PrimaryKey{}, errTypeMismatch(schema.Sort.Name, schema.Sort.Type, skVal.Kind().String())
		}
		pk.Sk = skVal
	}
	return pk, nil
}

// Validate reports whether item satisfies schema without returning the
// extracted key.
func Validate(item attr.M, schema Schema) error {
	_, err := Extract(item, schema)
	return err
}

// WithKeyAttributes returns a copy of item with the key attribute(s)
// from pk set according to schema. The table engine's Update uses it as
// the starting item when the key holds no item; conditions on a missing
// item are evaluated against an empty item, not this one.
func WithKeyAttributes(schema Schema, pk PrimaryKey) attr.M {
	item := attr.M{}
	item = item.Set(schema.Partition.Name, pk.Pk)
	if schema.Sort != nil && pk.Sk != nil {
		item = item.Set(schema.Sort.Name, pk.Sk)
	}
	return item
}

// Equal reports whether two primary keys refer to the same item.
func (k PrimaryKey) Equal(other PrimaryKey) bool {
	if !k.Pk.Equal(other.Pk) {
		return false
	}
	if (k.Sk == nil) != (other.Sk == nil) {
		return false
	}
	if k.Sk == nil {
		return true
	}
	return k.Sk.Equal(other.Sk)
}
