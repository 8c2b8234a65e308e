package attr

import (
	"encoding/binary"
	"unicode/utf8"
)

const (
	tagS    byte = 1
	tagN    byte = 2
	tagB    byte = 3
	tagBool byte = 4
	tagNull byte = 5
	tagM    byte = 6
	tagL    byte = 7
	tagSS   byte = 8
	tagNS   byte = 9
	tagBS   byte = 10
)

// Encode serialises v into the self-describing binary wire format
// described by the codec: a one-byte type tag followed by a
// variable-length-prefixed payload. Map and set elements are written in
// their canonical order so that decode(encode(v)) round-trips and equal
// values always produce byte-identical output.
func Encode(v Value) []byte {
	var buf []byte
	encodeInto(&buf, v)
	return buf
}

func encodeInto(buf *[]byte, v Value) {
	switch x := v.(type) {
	case S:
		*buf = append(*buf, tagS)
		writeBytes(buf, []byte(x))
	case N:
		*buf = append(*buf, tagN)
		writeBytes(buf, []byte(x))
	case B:
		*buf = append(*buf, tagB)
		writeBytes(buf, []byte(x))
	case Bool:
		*buf = append(*buf, tagBool)
		if x {
			*buf = append(*buf, 1)
		} else {
			*buf = append(*buf, 0)
		}
	case Null:
		*buf = append(*buf, tagNull)
	case M:
		*buf = append(*buf, tagM)
		canon := x.Canonical()
		writeLen(buf, len(canon))
		for _, e := range canon {
			writeBytes(buf, []byte(e.Key))
			encodeInto(buf, e.Value)
		}
	case L:
		*buf = append(*buf, tagL)
		writeLen(buf, len(x))
		for _, elem := range x {
			encodeInto(buf, elem)
		}
	case SS:
		*buf = append(*buf, tagSS)
		writeLen(buf, len(x))
		for _, s := range x {
			writeBytes(buf, []byte(s))
		}
	case NS:
		*buf = append(*buf, tagNS)
		writeLen(buf, len(x))
		for _, s := range x {
			writeBytes(buf, []byte(s))
		}
	case BS:
		*buf = append(*buf, tagBS)
		writeLen(buf, len(x))
		for _, b := range x {
			writeBytes(buf, b)
		}
	}
}

func writeLen(buf *[]byte, n int) {
	if n < 128 {
		*buf = append(*buf, byte(n))
		return
	}
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(n)|0x80000000)
	*buf = append(*buf, tmp[:]...)
}

func writeBytes(buf *[]byte, b []byte) {
	writeLen(buf, len(b))
	*buf = append(*buf, b...)
}

// Decode parses the self-describing binary wire format back into a
// Value. It returns a DecodeError describing the first point of
// failure; there is no partial-success result.
func Decode(data []byte) (Value, error) {
	v, n, err := decodeFrom(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, errUnexpectedEOF()
	}
	return v, nil
}

func decodeFrom(data []byte) (Value, int, error) {
	if len(data) < 1 {
		return nil, 0, errUnexpectedEOF()
	}
	tag := data[0]
	rest := data[1:]
	consumed := 1

	switch tag {
	case tagS:
		b, n, err := readBytes(rest)
		if err != nil {
			return nil, 0, err
		}
		if !utf8.Valid(b) {
			return nil, 0, errInvalidUTF8()
		}
		return S(b), consumed + n, nil
	case tagN:
		b, n, err := readBytes(rest)
		if err != nil {
			return nil, 0, err
		}
		return N(b), consumed + n, nil
	case tagB:
		b, n, err := readBytes(rest)
		if err != nil {
			return nil, 0, err
		}
		return B(append([]byte(nil), b...)), consumed + n, nil
	case tagBool:
		if len(rest) < 1 {
			return nil, 0, errUnexpectedEOF()
		}
		switch rest[0] {
		case 0:
			return Bool(false), consumed + 1, nil
		case 1:
			return Bool(true), consumed + 1, nil
		default:
			return nil, 0, errInvalidBool(rest[0])
		}
	case tagNull:
		return Null{}, consumed, nil
	case tagM:
		count, n, err := readLen(rest)
		if err != nil {
			return nil, 0, err
		}
		off := n
		entries := make(M, 0, count)
		for i := 0; i < count; i++ {
			key, kn, err := readBytes(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += kn
			val, vn, err := decodeFrom(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += vn
			entries = append(entries, MEntry{Key: string(key), Value: val})
		}
		return entries, consumed + off, nil
	case tagL:
		count, n, err := readLen(rest)
		if err != nil {
			return nil, 0, err
		}
		off := n
		list := make(L, 0, count)
		for i := 0; i < count; i++ {
			val, vn, err := decodeFrom(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += vn
			list = append(list, val)
		}
		return list, consumed + off, nil
	case tagSS:
		items, n, err := readStringSet(rest)
		if err != nil {
			return nil, 0, err
		}
		return SS(items), consumed + n, nil
	case tagNS:
		items, n, err := readStringSet(rest)
		if err != nil {
			return nil, 0, err
		}
		return NS(items), consumed + n, nil
	case tagBS:
		count, n, err := readLen(rest)
		if err != nil {
			return nil, 0, err
		}
		off := n
		out := make(BS, 0, count)
		for i := 0; i < count; i++ {
			b, bn, err := readBytes(rest[off:])
			if err != nil {
				return nil, 0, err
			}
			off += bn
			out = append(out, append([]byte(nil), b...))
		}
		return out, consumed + off, nil
	default:
		return nil, 0, errInvalidTypeTag(tag)
	}
}

func readStringSet(data []byte) ([]string, int, error) {
	count, n, err := readLen(data)
	if err != nil {
		return nil, 0, err
	}
	off := n
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		b, bn, err := readBytes(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += bn
		out = append(out, string(b))
	}
	return out, off, nil
}

// readLen reads a variable-length length prefix and returns the decoded
// length plus the number of bytes it occupied.
func readLen(data []byte) (int, int, error) {
	if len(data) < 1 {
		return 0, 0, errUnexpectedEOF()
	}
	if data[0]&0x80 == 0 {
		return int(data[0]), 1, nil
	}
	if len(data) < 4 {
		return 0, 0, errUnexpectedEOF()
	}
	v := binary.BigEndian.Uint32(data[:4]) & 0x7fffffff
	return int(v), 4, nil
}

func readBytes(data []byte) ([]byte, int, error) {
	length, n, err := readLen(data)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < n+length {
		return nil, 0, errUnexpectedEOF()
	}
	return data[n : n+length], n + length, nil
}
