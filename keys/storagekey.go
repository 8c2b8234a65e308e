package keys

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pradoz/nosquealdb/attr"
)

// ToStorageKey renders pk as the canonical storage-key string used as
// the backend's lookup key:
//
//	storage_key = encode(pk) ["#" encode(sk)]?
//	encode(S:x) = "S:" + escape(x)
//	encode(N:x) = "N:" + x
//	encode(B:x) = "B:" + base64(x)
//
// escape prefixes '#', ':' and '\' with a leading '\', making the
// encoding of S components injective over arbitrary input.
func ToStorageKey(pk PrimaryKey) string {
	var b strings.Builder
	encodeKeyValue(&b, pk.Pk)
	if pk.Sk != nil {
		b.WriteByte('#')
		encodeKeyValue(&b, pk.Sk)
	}
	return b.String()
}

func encodeKeyValue(b *strings.Builder, v attr.Value) {
	switch x := v.(type) {
	case attr.S:
		b.WriteString("S:")
		b.WriteString(escape(string(x)))
	case attr.N:
		b.WriteString("N:")
		b.WriteString(string(x))
	case attr.B:
		b.WriteString("B:")
		b.WriteString(base64.StdEncoding.EncodeToString([]byte(x)))
	default:
		panic(fmt.Sprintf("keys: %s is not a valid key value type", v.Kind()))
	}
}

func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '#', ':', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
