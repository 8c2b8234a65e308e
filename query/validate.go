package query

import (
	"fmt"

	"github.com/pradoz/nosquealdb/keys"
)

// InvalidKeyErrCode enumerates the ways a KeyCondition can fail to
// match a schema.
type InvalidKeyErrCode int

const (
	// TypeMismatch indicates the condition's partition-key value does
	// not match the schema's partition-key type.
	TypeMismatch InvalidKeyErrCode = iota
	// MissingAttribute indicates the condition carries a sort-key
	// operator but the schema declares no sort key.
	MissingAttribute
)

// InvalidKeyError is returned by ValidateCondition.
type InvalidKeyError struct {
	Code InvalidKeyErrCode
	msg  string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("query: invalid key condition: %s", e.msg)
}

// ValidateCondition checks cond against schema before any candidates
// are inspected: the partition-key value's type must match the schema,
// and a sort-key operator may only be supplied if the schema declares a
// sort key.
func ValidateCondition(cond KeyCondition, schema keys.Schema) error {
	if !schema.Partition.Type.Matches(cond.Pk) {
		return &InvalidKeyError{Code: TypeMismatch, msg: fmt.Sprintf("partition key must be %s", schema.Partition.Type)}
	}
	if cond.Sk != nil && schema.Sort == nil {
		return &InvalidKeyError{Code: MissingAttribute, msg: "schema has no sort key"}
	}
	return nil
}
