package cmd

import (
	"testing"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/update"
)

func TestBuildExpression(t *testing.T) {
	expr, err := buildExpression(
		[]string{`content={"S": "y"}`},
		[]string{`created={"S": "2026-08-02"}`},
		[]string{"draft"},
		[]string{`version={"N": "1"}`},
		[]string{`tags={"SS": ["old"]}`},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(expr) != 5 {
		t.Fatalf("expected 5 actions, got %d", len(expr))
	}

	set, ok := expr[0].(update.Set)
	if !ok {
		t.Fatalf("expected Set first, got %T", expr[0])
	}
	if set.Path.String() != "content" || !set.Value.Equal(attr.S("y")) {
		t.Errorf("set: got %v = %v", set.Path, set.Value)
	}
	if _, ok := expr[1].(update.SetIfNotExists); !ok {
		t.Errorf("expected SetIfNotExists second, got %T", expr[1])
	}
	if _, ok := expr[2].(update.Remove); !ok {
		t.Errorf("expected Remove third, got %T", expr[2])
	}
	add, ok := expr[3].(update.Add)
	if !ok {
		t.Fatalf("expected Add fourth, got %T", expr[3])
	}
	if !add.Value.Equal(attr.N("1")) {
		t.Errorf("add value: got %v", add.Value)
	}
	if _, ok := expr[4].(update.Delete); !ok {
		t.Errorf("expected Delete fifth, got %T", expr[4])
	}
}

func TestBuildExpressionNested(t *testing.T) {
	expr, err := buildExpression([]string{`address.city={"S": "Oslo"}`, `tags[0]={"S": "a"}`}, nil, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := expr[0].(update.Set).Path.String(); got != "address.city" {
		t.Errorf("path: got %q", got)
	}
	if got := expr[1].(update.Set).Path.String(); got != "tags[0]" {
		t.Errorf("path: got %q", got)
	}
}

func TestBuildExpressionErrors(t *testing.T) {
	if _, err := buildExpression(nil, nil, nil, nil, nil); err == nil {
		t.Error("expected error for empty expression")
	}
	if _, err := buildExpression([]string{"no-equals-sign"}, nil, nil, nil, nil); err == nil {
		t.Error("expected error for malformed action")
	}
	if _, err := buildExpression([]string{`x=not json`}, nil, nil, nil, nil); err == nil {
		t.Error("expected error for bad value")
	}
}
