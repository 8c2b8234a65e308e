package table

import (
	"testing"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/cond"
	"github.com/pradoz/nosquealdb/index"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/kv/memkv"
	"github.com/pradoz/nosquealdb/query"
	"github.com/pradoz/nosquealdb/update"
)

func newOrdersTable() *Table {
	schema := keys.NewSchema("pk", keys.TypeS).WithSort("sk", keys.TypeS)
	return New("orders", schema, memkv.New())
}

func TestPutSimpleAndOverwriteReturnsOld(t *testing.T) {
	tbl := newOrdersTable()

	item := attr.NewM(map[string]attr.Value{
		"pk": attr.S("u#1"), "sk": attr.S("o#1"), "total": attr.N("10"),
	})
	res, err := tbl.Put(PutRequest{Item: item})
	if err != nil {
		t.Fatal(err)
	}
	if res.Existed {
		t.Fatal("expected Existed=false on first insert")
	}

	updated := attr.NewM(map[string]attr.Value{
		"pk": attr.S("u#1"), "sk": attr.S("o#1"), "total": attr.N("20"),
	})
	res, err = tbl.Put(PutRequest{Item: updated, ReturnValue: ReturnAllOld})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Existed {
		t.Fatal("expected Existed=true on overwrite")
	}
	old, _ := res.Attributes.Get("total")
	if old.(attr.N) != "10" {
		t.Fatalf("expected returned old total 10, got %v", old)
	}

	get, err := tbl.Get(GetRequest{Key: keys.PrimaryKey{Pk: attr.S("u#1"), Sk: attr.S("o#1")}})
	if err != nil {
		t.Fatal(err)
	}
	cur, _ := get.Item.Get("total")
	if cur.(attr.N) != "20" {
		t.Fatalf("expected stored total 20, got %v", cur)
	}
}

func TestPutIfNotExistsFailsOnExisting(t *testing.T) {
	tbl := newOrdersTable()
	item := attr.NewM(map[string]attr.Value{"pk": attr.S("u#1"), "sk": attr.S("o#1")})
	if _, err := tbl.Put(PutRequest{Item: item, IfNotExists: true}); err != nil {
		t.Fatal(err)
	}
	_, err := tbl.Put(PutRequest{Item: item, IfNotExists: true})
	if !IsItemAlreadyExists(err) {
		t.Fatalf("expected ItemAlreadyExists, got %v", err)
	}
}

func TestConditionalUpdateFailsThenSucceeds(t *testing.T) {
	tbl := newOrdersTable()
	item := attr.NewM(map[string]attr.Value{
		"pk": attr.S("u#1"), "sk": attr.S("o#1"), "version": attr.N("1"), "status": attr.S("pending"),
	})
	if _, err := tbl.Put(PutRequest{Item: item}); err != nil {
		t.Fatal(err)
	}

	key := keys.PrimaryKey{Pk: attr.S("u#1"), Sk: attr.S("o#1")}
	wrongVersion := cond.Compare{Path: attr.NewPath("version"), Op: cond.Eq, Value: attr.N("99")}
	expr := update.Expression{
		update.Set{Path: attr.NewPath("status"), Value: attr.S("shipped")},
		update.Set{Path: attr.NewPath("version"), Value: attr.N("2")},
	}

	_, err := tbl.Update(UpdateRequest{Key: key, Expression: expr, Condition: wrongVersion})
	if !IsConditionFailed(err) {
		t.Fatalf("expected ConditionFailed, got %v", err)
	}

	rightVersion := cond.Compare{Path: attr.NewPath("version"), Op: cond.Eq, Value: attr.N("1")}
	res, err := tbl.Update(UpdateRequest{Key: key, Expression: expr, Condition: rightVersion, ReturnValue: ReturnAllNew})
	if err != nil {
		t.Fatal(err)
	}
	status, _ := res.Attributes.Get("status")
	if status.(attr.S) != "shipped" {
		t.Fatalf("expected status shipped, got %v", status)
	}
}

func TestUpdateRejectsKeyMutation(t *testing.T) {
	tbl := newOrdersTable()
	item := attr.NewM(map[string]attr.Value{"pk": attr.S("u#1"), "sk": attr.S("o#1")})
	if _, err := tbl.Put(PutRequest{Item: item}); err != nil {
		t.Fatal(err)
	}

	key := keys.PrimaryKey{Pk: attr.S("u#1"), Sk: attr.S("o#1")}
	expr := update.Expression{update.Set{Path: attr.NewPath("pk"), Value: attr.S("u#2")}}
	_, err := tbl.Update(UpdateRequest{Key: key, Expression: expr})
	e, ok := err.(*Error)
	if !ok || e.Code != UpdateError {
		t.Fatalf("expected UpdateError, got %v", err)
	}
}

func TestDeleteRemovesItem(t *testing.T) {
	tbl := newOrdersTable()
	item := attr.NewM(map[string]attr.Value{"pk": attr.S("u#1"), "sk": attr.S("o#1")})
	if _, err := tbl.Put(PutRequest{Item: item}); err != nil {
		t.Fatal(err)
	}
	key := keys.PrimaryKey{Pk: attr.S("u#1"), Sk: attr.S("o#1")}
	res, err := tbl.Delete(DeleteRequest{Key: key, ReturnValue: ReturnAllOld})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Existed {
		t.Fatal("expected Existed=true")
	}
	get, err := tbl.Get(GetRequest{Key: key})
	if err != nil {
		t.Fatal(err)
	}
	if get.Found {
		t.Fatal("expected item gone after delete")
	}
}

func TestGSISparseOnStatusDrop(t *testing.T) {
	tbl := newOrdersTable()
	gsiSchema := keys.NewSchema("status", keys.TypeS)
	idx := index.NewGSI("by-status", tbl.Schema, gsiSchema, index.AllAttributes())
	tbl.AttachGSI(idx)

	item := attr.NewM(map[string]attr.Value{
		"pk": attr.S("u#1"), "sk": attr.S("o#1"), "status": attr.S("pending"),
	})
	if _, err := tbl.Put(PutRequest{Item: item}); err != nil {
		t.Fatal(err)
	}
	result, err := tbl.Query(QueryRequest{
		IndexName: "by-status",
		Condition: query.KeyCondition{Pk: attr.S("pending")},
		Options:   query.Options{ScanForward: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 1 {
		t.Fatalf("expected 1 item in by-status index, got %d", result.Count)
	}

	withoutStatus := attr.NewM(map[string]attr.Value{"pk": attr.S("u#1"), "sk": attr.S("o#1")})
	if _, err := tbl.Put(PutRequest{Item: withoutStatus}); err != nil {
		t.Fatal(err)
	}
	result, err = tbl.Query(QueryRequest{
		IndexName: "by-status",
		Condition: query.KeyCondition{Pk: attr.S("pending")},
		Options:   query.Options{ScanForward: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 0 {
		t.Fatalf("expected index entry removed once status dropped, got %d", result.Count)
	}
}

func TestQueryWithFilter(t *testing.T) {
	tbl := newOrdersTable()
	for _, o := range []struct {
		sk     string
		status string
	}{
		{"o#1", "pending"}, {"o#2", "shipped"}, {"o#3", "pending"},
	} {
		item := attr.NewM(map[string]attr.Value{
			"pk": attr.S("u#1"), "sk": attr.S(o.sk), "status": attr.S(o.status),
		})
		if _, err := tbl.Put(PutRequest{Item: item}); err != nil {
			t.Fatal(err)
		}
	}

	filter := cond.Compare{Path: attr.NewPath("status"), Op: cond.Eq, Value: attr.S("pending")}
	res, err := tbl.Query(QueryRequest{
		Condition: query.KeyCondition{Pk: attr.S("u#1")},
		Filter:    filter,
		Options:   query.Options{ScanForward: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 2 {
		t.Fatalf("expected 2 pending orders, got %d", res.Count)
	}
	if res.ScannedCount != 3 {
		t.Fatalf("expected ScannedCount 3, got %d", res.ScannedCount)
	}
}

func TestScanPagination(t *testing.T) {
	tbl := newOrdersTable()
	for i := 0; i < 5; i++ {
		item := attr.NewM(map[string]attr.Value{
			"pk": attr.S("u#1"), "sk": attr.S(string(rune('a' + i))),
		})
		if _, err := tbl.Put(PutRequest{Item: item}); err != nil {
			t.Fatal(err)
		}
	}

	limit := 2
	page1, err := tbl.Scan(ScanRequest{Limit: &limit})
	if err != nil {
		t.Fatal(err)
	}
	if page1.Count != 2 || page1.LastEvaluatedKey == nil {
		t.Fatalf("expected a truncated first page, got count=%d lastKey=%v", page1.Count, page1.LastEvaluatedKey)
	}

	page2, err := tbl.Scan(ScanRequest{Limit: &limit, ExclusiveStartKey: page1.LastEvaluatedKey})
	if err != nil {
		t.Fatal(err)
	}
	if page2.Count != 2 {
		t.Fatalf("expected 2 items on second page, got %d", page2.Count)
	}

	page3, err := tbl.Scan(ScanRequest{Limit: &limit, ExclusiveStartKey: page2.LastEvaluatedKey})
	if err != nil {
		t.Fatal(err)
	}
	if page3.Count != 1 || page3.LastEvaluatedKey != nil {
		t.Fatalf("expected final page of 1 with no further key, got count=%d lastKey=%v", page3.Count, page3.LastEvaluatedKey)
	}
}

func TestQueryRejectsMismatchedKeyCondition(t *testing.T) {
	tbl := newOrdersTable()

	_, err := tbl.Query(QueryRequest{
		Condition: query.KeyCondition{Pk: attr.N("1")},
	})
	e, ok := err.(*Error)
	if !ok || e.Code != InvalidKey {
		t.Fatalf("expected InvalidKey, got %v", err)
	}

	// A sort-key operator against a schema with no sort key fails too.
	flat := New("flat", keys.NewSchema("id", keys.TypeS), memkv.New())
	_, err = flat.Query(QueryRequest{
		Condition: query.KeyCondition{
			Pk: attr.S("a"),
			Sk: &query.SortKeyCond{Op: query.SkEq, Value: attr.S("x")},
		},
	})
	e, ok = err.(*Error)
	if !ok || e.Code != InvalidKey {
		t.Fatalf("expected InvalidKey, got %v", err)
	}
}

func TestConditionsOnMissingItemSeeEmptyItem(t *testing.T) {
	tbl := newOrdersTable()
	key := keys.PrimaryKey{Pk: attr.S("u#1"), Sk: attr.S("o#1")}

	// attribute_not_exists(pk) on a missing item means "item does not
	// exist": the condition holds even for the key attributes.
	notExists := cond.AttributeNotExists{Path: attr.NewPath("pk")}
	if _, err := tbl.Delete(DeleteRequest{Key: key, Condition: notExists}); err != nil {
		t.Fatalf("conditional delete of missing item: %v", err)
	}

	exists := cond.AttributeExists{Path: attr.NewPath("pk")}
	_, err := tbl.Delete(DeleteRequest{Key: key, Condition: exists})
	if !IsConditionFailed(err) {
		t.Fatalf("expected ConditionFailed, got %v", err)
	}
}
