package attr

import (
	"bytes"
	"testing"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	encoded := Encode(v)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode(encode(%v)) failed: %v", v, err)
	}
	return decoded
}

func TestCodecRoundTrip(t *testing.T) {
	ss, err := NewSS([]string{"b", "a", "a"})
	if err == nil {
		t.Fatalf("expected duplicate error, got %v", ss)
	}
	ss, err = NewSS([]string{"b", "a"})
	if err != nil {
		t.Fatal(err)
	}
	ns, err := NewNS([]string{"10", "2", "-5"})
	if err != nil {
		t.Fatal(err)
	}
	bs, err := NewBS([][]byte{[]byte("z"), []byte("a")})
	if err != nil {
		t.Fatal(err)
	}

	values := []Value{
		S("hello"),
		S(""),
		N("42"),
		N("-3.14"),
		B([]byte{0, 1, 2, 255}),
		B([]byte{}),
		Bool(true),
		Bool(false),
		Null{},
		ss,
		ns,
		bs,
		L{S("a"), N("1"), Bool(true), Null{}},
		NewM(map[string]Value{"x": N("1"), "y": S("z")}),
		NewM(map[string]Value{
			"nested": NewM(map[string]Value{"a": Bool(true)}),
			"list":   L{N("1"), N("2")},
		}),
	}

	for _, v := range values {
		got := roundTrip(t, v)
		if !got.Equal(v) {
			t.Errorf("round trip mismatch: got %v, want %v", got, v)
		}
	}
}

func TestCodecDeterministicEncoding(t *testing.T) {
	a := NewM(map[string]Value{"b": N("2"), "a": N("1")})
	b := M{{Key: "a", Value: N("1")}, {Key: "b", Value: N("2")}}
	if !bytes.Equal(Encode(a), Encode(b)) {
		t.Fatalf("equal maps with different insertion order encoded differently")
	}
}

func TestCodecLongStringLengthPrefix(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	v := S(long)
	got := roundTrip(t, v)
	if !got.Equal(v) {
		t.Fatalf("long string did not round trip")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Fatal("expected error decoding empty input")
	}
	if _, err := Decode([]byte{99}); err == nil {
		t.Fatal("expected invalid type tag error")
	}
	if _, err := Decode([]byte{tagBool, 5}); err == nil {
		t.Fatal("expected invalid bool error")
	}
	if _, err := Decode([]byte{tagS, 10, 'a'}); err == nil {
		t.Fatal("expected unexpected eof error")
	}
	if _, err := Decode([]byte{tagS, 1, 0xff}); err == nil {
		t.Fatal("expected invalid utf8 error")
	}
}

func TestSizeOperator(t *testing.T) {
	cases := []struct {
		v    Value
		want int
	}{
		{S("abc"), 3},
		{B([]byte{1, 2}), 2},
		{Bool(true), 1},
		{Null{}, 0},
		{L{N("1"), N("2")}, 2},
		{N("-12.50"), 4},
	}
	for _, c := range cases {
		if got := Size(c.v); got != c.want {
			t.Errorf("Size(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}
