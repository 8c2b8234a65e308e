// Package attr implements the typed attribute value model used to
// represent item contents: a small recursive sum type (S, N, B, Bool,
// Null, M, L, Ss, Ns, Bs) plus the binary codec and attribute-path
// addressing built on top of it.
package attr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant of Value a concrete type implements.
type Kind int

const (
	KindS Kind = iota + 1
	KindN
	KindB
	KindBool
	KindNull
	KindM
	KindL
	KindSS
	KindNS
	KindBS
)

func (k Kind) String() string {
	switch k {
	case KindS:
		return "S"
	case KindN:
		return "N"
	case KindB:
		return "B"
	case KindBool:
		return "BOOL"
	case KindNull:
		return "NULL"
	case KindM:
		return "M"
	case KindL:
		return "L"
	case KindSS:
		return "SS"
	case KindNS:
		return "NS"
	case KindBS:
		return "BS"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the common interface implemented by every attribute variant:
// a closed set of concrete types with equality and a human readable
// form.
type Value interface {
	Kind() Kind
	Equal(other Value) bool
	String() string
}

// S is a UTF-8 string attribute.
type S string

func (S) Kind() Kind      { return KindS }
func (s S) String() string { return string(s) }
func (s S) Equal(other Value) bool {
	o, ok := other.(S)
	return ok && s == o
}

// N is a decimal-string number attribute. Exact integers are preserved;
// arithmetic prefers int64 and falls back to float64.
type N string

func (N) Kind() Kind       { return KindN }
func (n N) String() string { return string(n) }
func (n N) Equal(other Value) bool {
	o, ok := other.(N)
	if !ok {
		return false
	}
	cmp, err := compareNumeric(string(n), string(o))
	return err == nil && cmp == 0
}

// B is a raw byte-sequence attribute.
type B []byte

func (B) Kind() Kind { return KindB }
func (b B) String() string {
	return fmt.Sprintf("%x", []byte(b))
}
func (b B) Equal(other Value) bool {
	o, ok := other.(B)
	if !ok || len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// Bool is a boolean attribute.
type Bool bool

func (Bool) Kind() Kind      { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

// Null is the unit value, distinct from an attribute being absent.
type Null struct{}

func (Null) Kind() Kind       { return KindNull }
func (Null) String() string  { return "null" }
func (Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}

// MEntry is one name/value pair of an M (map) attribute.
type MEntry struct {
	Key   string
	Value Value
}

// M is an ordered mapping name->value. Construction via NewM canonicalises
// key order (lexicographic); direct struct literals are also valid but are
// not guaranteed canonical until passed through Canonical().
type M []MEntry

func (M) Kind() Kind { return KindM }

// NewM builds a canonically-ordered M from a native Go map.
func NewM(fields map[string]Value) M {
	out := make(M, 0, len(fields))
	for k, v := range fields {
		out = append(out, MEntry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Canonical returns m with its entries sorted lexicographically by key.
// Duplicate keys are resolved in favor of the last occurrence.
func (m M) Canonical() M {
	dedup := make(map[string]Value, len(m))
	order := make([]string, 0, len(m))
	for _, e := range m {
		if _, seen := dedup[e.Key]; !seen {
			order = append(order, e.Key)
		}
		dedup[e.Key] = e.Value
	}
	sort.Strings(order)
	out := make(M, 0, len(order))
	for _, k := range order {
		out = append(out, MEntry{Key: k, Value: dedup[k]})
	}
	return out
}

// Get returns the value stored under name, and whether it was present.
func (m M) Get(name string) (Value, bool) {
	for _, e := range m {
		if e.Key == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Set returns a new M with name bound to value, replacing any existing
// entry for name. The receiver is left unmodified.
func (m M) Set(name string, value Value) M {
	out := make(M, 0, len(m)+1)
	replaced := false
	for _, e := range m {
		if e.Key == name {
			out = append(out, MEntry{Key: name, Value: value})
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, MEntry{Key: name, Value: value})
	}
	return out.Canonical()
}

// Remove returns a new M with name deleted, a no-op if absent.
func (m M) Remove(name string) M {
	out := make(M, 0, len(m))
	for _, e := range m {
		if e.Key != name {
			out = append(out, e)
		}
	}
	return out
}

func (m M) String() string {
	parts := make([]string, 0, len(m))
	for _, e := range m.Canonical() {
		parts = append(parts, fmt.Sprintf("%s=%s", e.Key, e.Value.String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (m M) Equal(other Value) bool {
	o, ok := other.(M)
	if !ok {
		return false
	}
	a, b := m.Canonical(), o.Canonical()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}
	return true
}

// L is an ordered sequence of values. Insertion order is meaningful and
// preserved verbatim; it is never reordered.
type L []Value

func (L) Kind() Kind { return KindL }
func (l L) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l L) Equal(other Value) bool {
	o, ok := other.(L)
	if !ok || len(l) != len(o) {
		return false
	}
	for i := range l {
		if !l[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// SS is a set of distinct strings in canonical (sorted) order.
type SS []string

func (SS) Kind() Kind { return KindSS }
func (s SS) String() string { return "[" + strings.Join(s, ", ") + "]" }
func (s SS) Equal(other Value) bool { return equalStringSlices(s, toSS(other)) }

// NS is a set of distinct number-strings in canonical order.
type NS []string

func (NS) Kind() Kind { return KindNS }
func (n NS) String() string { return "[" + strings.Join(n, ", ") + "]" }
func (n NS) Equal(other Value) bool { return equalStringSlices(n, toNS(other)) }

// BS is a set of distinct byte-sequences in canonical order.
type BS [][]byte

func (BS) Kind() Kind { return KindBS }
func (b BS) String() string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%x", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (b BS) Equal(other Value) bool {
	o, ok := other.(BS)
	if !ok || len(b) != len(o) {
		return false
	}
	for i := range b {
		if len(b[i]) != len(o[i]) {
			return false
		}
		for j := range b[i] {
			if b[i][j] != o[i][j] {
				return false
			}
		}
	}
	return true
}

func toSS(v Value) []string {
	if s, ok := v.(SS); ok {
		return s
	}
	return nil
}

func toNS(v Value) []string {
	if n, ok := v.(NS); ok {
		return n
	}
	return nil
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ErrEmptySet is returned by NewSS/NewNS/NewBS for an empty input: sets
// are never representable empty on the wire, callers must remove the
// attribute instead of writing an empty set.
var ErrEmptySet = fmt.Errorf("attr: sets cannot be empty")

// ErrDuplicateElement is returned by NewSS/NewNS/NewBS when the input
// contains a repeated element.
var ErrDuplicateElement = fmt.Errorf("attr: set elements must be unique")

// NewSS builds a canonical SS, rejecting empty input and duplicates.
func NewSS(items []string) (SS, error) {
	if len(items) == 0 {
		return nil, ErrEmptySet
	}
	out := append(SS(nil), items...)
	sort.Strings(out)
	if err := requireNoDupStrings([]string(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// NewNS builds a canonical NS, rejecting empty input and duplicates.
// Canonical order is numeric ascending where every element parses,
// falling back to lexicographic order otherwise.
func NewNS(items []string) (NS, error) {
	if len(items) == 0 {
		return nil, ErrEmptySet
	}
	out := append(NS(nil), items...)
	sort.Slice(out, func(i, j int) bool {
		cmp, err := compareNumeric(out[i], out[j])
		if err != nil {
			return out[i] < out[j]
		}
		return cmp < 0
	})
	if err := requireNoDupStrings([]string(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// NewBS builds a canonical BS, rejecting empty input and duplicates.
func NewBS(items [][]byte) (BS, error) {
	if len(items) == 0 {
		return nil, ErrEmptySet
	}
	out := make(BS, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool {
		return string(out[i]) < string(out[j])
	})
	for i := 1; i < len(out); i++ {
		if string(out[i]) == string(out[i-1]) {
			return nil, ErrDuplicateElement
		}
	}
	return out, nil
}

func requireNoDupStrings(s []string) error {
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			return ErrDuplicateElement
		}
	}
	return nil
}

// Size returns the size metric used by the Size condition operator: byte
// length for S/B, element count for L/M/sets, 1 for Bool, 0 for Null and
// digit count for N.
func Size(v Value) int {
	switch x := v.(type) {
	case S:
		return len(string(x))
	case B:
		return len(x)
	case Bool:
		return 1
	case Null:
		return 0
	case M:
		return len(x)
	case L:
		return len(x)
	case SS:
		return len(x)
	case NS:
		return len(x)
	case BS:
		return len(x)
	case N:
		return len(digitsOnly(string(x)))
	default:
		return 0
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
