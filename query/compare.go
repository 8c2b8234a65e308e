package query

import (
	"bytes"
	"strings"

	"github.com/pradoz/nosquealdb/attr"
)

// compare orders two key values of the same Kind. It returns ok=false
// if the kinds differ (callers only ever feed it schema-validated
// values, so this should not happen in practice).
func compare(a, b attr.Value) (int, bool) {
	switch x := a.(type) {
	case attr.N:
		y, ok := b.(attr.N)
		if !ok {
			return 0, false
		}
		return attr.CompareNumeric(x, y), true
	case attr.S:
		y, ok := b.(attr.S)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(x), string(y)), true
	case attr.B:
		y, ok := b.(attr.B)
		if !ok {
			return 0, false
		}
		return bytes.Compare([]byte(x), []byte(y)), true
	default:
		return 0, false
	}
}

func beginsWith(v, prefix attr.Value) bool {
	switch x := v.(type) {
	case attr.S:
		p, ok := prefix.(attr.S)
		return ok && strings.HasPrefix(string(x), string(p))
	case attr.B:
		p, ok := prefix.(attr.B)
		return ok && bytes.HasPrefix([]byte(x), []byte(p))
	default:
		return false
	}
}
