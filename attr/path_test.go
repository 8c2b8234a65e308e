package attr

import "testing"

func TestParsePath(t *testing.T) {
	p, err := ParsePath("address.lines[0].zip")
	if err != nil {
		t.Fatal(err)
	}
	want := Path{KeySeg("address"), KeySeg("lines"), IndexSeg(0), KeySeg("zip")}
	if len(p) != len(want) {
		t.Fatalf("got %v, want %v", p, want)
	}
	for i := range p {
		if p[i] != want[i] {
			t.Errorf("segment %d: got %v, want %v", i, p[i], want[i])
		}
	}
}

func TestParsePathErrors(t *testing.T) {
	cases := []string{"", "[0]", "a[", "a[x]"}
	for _, c := range cases {
		if _, err := ParsePath(c); err == nil {
			t.Errorf("ParsePath(%q) expected error", c)
		}
	}
}

func TestResolve(t *testing.T) {
	item := NewM(map[string]Value{
		"name": S("alice"),
		"tags": L{S("a"), S("b")},
		"address": NewM(map[string]Value{
			"zip": S("12345"),
		}),
	})

	if v, ok := Resolve(item, NewPath("name")); !ok || !v.Equal(S("alice")) {
		t.Errorf("resolve name failed: %v %v", v, ok)
	}
	if v, ok := Resolve(item, NewPath("tags", IndexSeg(1))); !ok || !v.Equal(S("b")) {
		t.Errorf("resolve tags[1] failed: %v %v", v, ok)
	}
	if v, ok := Resolve(item, NewPath("address", KeySeg("zip"))); !ok || !v.Equal(S("12345")) {
		t.Errorf("resolve address.zip failed: %v %v", v, ok)
	}
	if _, ok := Resolve(item, NewPath("missing")); ok {
		t.Errorf("expected missing attribute to be absent")
	}
	if _, ok := Resolve(item, NewPath("tags", IndexSeg(5))); ok {
		t.Errorf("expected out-of-range index to be absent")
	}
	if _, ok := Resolve(item, NewPath("name", KeySeg("x"))); ok {
		t.Errorf("expected key-segment-into-scalar to be absent")
	}
}
