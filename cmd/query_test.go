package cmd

import (
	"testing"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/query"
)

func TestBuildSortKeyCondSingle(t *testing.T) {
	cond, err := buildSortKeyCond("", "", "", "", "", `{"S": "2026-"}`, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cond == nil || cond.Op != query.SkBeginsWith {
		t.Fatalf("got %+v", cond)
	}
	if !cond.Value.Equal(attr.S("2026-")) {
		t.Errorf("value: got %v", cond.Value)
	}
}

func TestBuildSortKeyCondBetween(t *testing.T) {
	cond, err := buildSortKeyCond("", "", "", "", "", "", []string{`{"N": "1"}`, `{"N": "9"}`})
	if err != nil {
		t.Fatal(err)
	}
	if cond == nil || cond.Op != query.SkBetween {
		t.Fatalf("got %+v", cond)
	}
	if !cond.Low.Equal(attr.N("1")) || !cond.High.Equal(attr.N("9")) {
		t.Errorf("bounds: got %v..%v", cond.Low, cond.High)
	}
}

func TestBuildSortKeyCondNone(t *testing.T) {
	cond, err := buildSortKeyCond("", "", "", "", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cond != nil {
		t.Errorf("expected nil, got %+v", cond)
	}
}

func TestBuildSortKeyCondConflicts(t *testing.T) {
	if _, err := buildSortKeyCond(`{"S": "a"}`, `{"S": "b"}`, "", "", "", "", nil); err == nil {
		t.Error("expected error for two conditions")
	}
	if _, err := buildSortKeyCond("", "", "", "", "", "", []string{`{"N": "1"}`}); err == nil {
		t.Error("expected error for one-armed between")
	}
}
