package attr

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of an attribute path: either a map key or a list
// index. The zero value is not a valid segment; use KeySeg/IndexSeg.
type Segment struct {
	name    string
	index   int
	isIndex bool
}

// KeySeg builds a map-key path segment.
func KeySeg(name string) Segment { return Segment{name: name} }

// IndexSeg builds a list-index path segment.
func IndexSeg(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether the segment addresses a list element.
func (s Segment) IsIndex() bool { return s.isIndex }

// Name returns the map key this segment addresses; empty for index
// segments.
func (s Segment) Name() string { return s.name }

// Index returns the list index this segment addresses; meaningless for
// key segments.
func (s Segment) Index() int { return s.index }

func (s Segment) String() string {
	if s.isIndex {
		return fmt.Sprintf("[%d]", s.index)
	}
	return s.name
}

// Path is a non-empty sequence of segments rooted at a top-level
// attribute name. The first segment must be a Key segment.
type Path []Segment

// NewPath builds a Path from a single top-level attribute name plus
// optional further segments.
func NewPath(name string, rest ...Segment) Path {
	return append(Path{KeySeg(name)}, rest...)
}

func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(p[0].String())
	for _, seg := range p[1:] {
		if seg.isIndex {
			b.WriteString(seg.String())
		} else {
			b.WriteByte('.')
			b.WriteString(seg.String())
		}
	}
	return b.String()
}

// ErrEmptyPath is returned by ParsePath for an empty input string.
var ErrEmptyPath = fmt.Errorf("attr: path must not be empty")

// ErrInvalidPath is returned by ParsePath when the syntax cannot be
// parsed into key/index segments.
var ErrInvalidPath = fmt.Errorf("attr: invalid path syntax")

// ParsePath parses a dotted/bracketed path string such as
// "address.lines[0].zip" into a Path. This is a convenience used by the
// CLI's update command; it is not itself part of
// the core addressing contract (resolution only ever walks a Path).
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, ErrEmptyPath
	}
	var path Path
	var tok strings.Builder
	flush := func(mustBeFirst bool) error {
		if tok.Len() == 0 {
			if mustBeFirst {
				return ErrInvalidPath
			}
			return nil
		}
		path = append(path, KeySeg(tok.String()))
		tok.Reset()
		return nil
	}
	i := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case '.':
			if err := flush(false); err != nil {
				return nil, err
			}
			i++
		case '[':
			if err := flush(false); err != nil {
				return nil, err
			}
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, ErrInvalidPath
			}
			idxStr := s[i+1 : i+end]
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 0 {
				return nil, ErrInvalidPath
			}
			path = append(path, IndexSeg(idx))
			i += end + 1
		default:
			tok.WriteByte(c)
			i++
		}
	}
	if err := flush(false); err != nil {
		return nil, err
	}
	if len(path) == 0 || path[0].isIndex {
		return nil, ErrInvalidPath
	}
	return path, nil
}

// Resolve walks path against item, returning the addressed value and
// whether it was found. Each Key segment requires a map (M) at the
// current position; each Index segment requires a list (L). Any
// mismatch — wrong container kind, missing key, out-of-range index —
// yields (nil, false) rather than an error: absence is not an error
// condition for condition/update evaluation.
func Resolve(item M, path Path) (Value, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var cur Value = item
	for _, seg := range path {
		if seg.isIndex {
			list, ok := cur.(L)
			if !ok || seg.index < 0 || seg.index >= len(list) {
				return nil, false
			}
			cur = list[seg.index]
		} else {
			m, ok := cur.(M)
			if !ok {
				return nil, false
			}
			v, found := m.Get(seg.name)
			if !found {
				return nil, false
			}
			cur = v
		}
	}
	return cur, true
}
