package update

import (
	"testing"

	"github.com/pradoz/nosquealdb/attr"
)

func TestSetCreatesNestedMaps(t *testing.T) {
	item := attr.M{}
	expr := Expression{Set{Path: attr.NewPath("address", attr.KeySeg("zip")), Value: attr.S("12345")}}
	out, err := Apply(expr, item)
	if err != nil {
		t.Fatal(err)
	}
	v, ok := attr.Resolve(out, attr.NewPath("address", attr.KeySeg("zip")))
	if !ok || !v.Equal(attr.S("12345")) {
		t.Fatalf("got %v %v", v, ok)
	}
}

func TestListAppendAndOutOfBounds(t *testing.T) {
	item := attr.NewM(map[string]attr.Value{"tags": attr.L{attr.S("a")}})

	expr := Expression{Set{Path: attr.NewPath("tags", attr.IndexSeg(1)), Value: attr.S("b")}}
	out, err := Apply(expr, item)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := attr.Resolve(out, attr.NewPath("tags"))
	if !v.Equal(attr.L{attr.S("a"), attr.S("b")}) {
		t.Fatalf("got %v", v)
	}

	expr = Expression{Set{Path: attr.NewPath("tags", attr.IndexSeg(5)), Value: attr.S("z")}}
	if _, err := Apply(expr, item); err == nil {
		t.Fatalf("expected out-of-bounds write to fail")
	}
}

func TestSetIfNotExists(t *testing.T) {
	item := attr.NewM(map[string]attr.Value{"x": attr.N("1")})
	expr := Expression{SetIfNotExists{Path: attr.NewPath("x"), Value: attr.N("99")}}
	out, err := Apply(expr, item)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := attr.Resolve(out, attr.NewPath("x"))
	if !v.Equal(attr.N("1")) {
		t.Fatalf("expected existing value preserved, got %v", v)
	}

	expr = Expression{SetIfNotExists{Path: attr.NewPath("y"), Value: attr.N("99")}}
	out, err = Apply(expr, item)
	if err != nil {
		t.Fatal(err)
	}
	v, _ = attr.Resolve(out, attr.NewPath("y"))
	if !v.Equal(attr.N("99")) {
		t.Fatalf("expected y set, got %v", v)
	}
}

func TestRemoveNoopOnAbsent(t *testing.T) {
	item := attr.NewM(map[string]attr.Value{"x": attr.N("1")})
	out, err := Apply(Expression{Remove{Path: attr.NewPath("missing")}}, item)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(item) {
		t.Fatalf("expected no-op, got %v", out)
	}
}

func TestAddNumeric(t *testing.T) {
	item := attr.NewM(map[string]attr.Value{"balance": attr.N("100")})
	out, err := Apply(Expression{Add{Path: attr.NewPath("balance"), Value: attr.N("-50")}}, item)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := attr.Resolve(out, attr.NewPath("balance"))
	if !v.Equal(attr.N("50")) {
		t.Fatalf("got %v", v)
	}
}

func TestAddOnAbsentCreates(t *testing.T) {
	item := attr.M{}
	out, err := Apply(Expression{Add{Path: attr.NewPath("counter"), Value: attr.N("5")}}, item)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := attr.Resolve(out, attr.NewPath("counter"))
	if !v.Equal(attr.N("5")) {
		t.Fatalf("got %v", v)
	}
}

func TestAddTypeMismatch(t *testing.T) {
	item := attr.NewM(map[string]attr.Value{"name": attr.S("x")})
	if _, err := Apply(Expression{Add{Path: attr.NewPath("name"), Value: attr.N("1")}}, item); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestDeleteSetSubtraction(t *testing.T) {
	ss, _ := attr.NewSS([]string{"a", "b", "c"})
	item := attr.NewM(map[string]attr.Value{"tags": ss})
	del, _ := attr.NewSS([]string{"b"})
	out, err := Apply(Expression{Delete{Path: attr.NewPath("tags"), Value: del}}, item)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := attr.Resolve(out, attr.NewPath("tags"))
	want, _ := attr.NewSS([]string{"a", "c"})
	if !v.Equal(want) {
		t.Fatalf("got %v want %v", v, want)
	}
}

func TestDeleteEmptiesSetRemovesAttribute(t *testing.T) {
	ss, _ := attr.NewSS([]string{"a"})
	item := attr.NewM(map[string]attr.Value{"tags": ss})
	out, err := Apply(Expression{Delete{Path: attr.NewPath("tags"), Value: ss}}, item)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := attr.Resolve(out, attr.NewPath("tags")); ok {
		t.Fatalf("expected tags attribute to be removed once emptied")
	}
}

func TestSequentialActionsSeeEachOther(t *testing.T) {
	item := attr.NewM(map[string]attr.Value{"version": attr.N("1")})
	expr := Expression{
		Set{Path: attr.NewPath("content"), Value: attr.S("y")},
		Add{Path: attr.NewPath("version"), Value: attr.N("1")},
	}
	out, err := Apply(expr, item)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := attr.Resolve(out, attr.NewPath("version"))
	if !v.Equal(attr.N("2")) {
		t.Fatalf("got %v", v)
	}
}
