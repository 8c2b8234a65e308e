package txn

import (
	"testing"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/cond"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/kv/memkv"
	"github.com/pradoz/nosquealdb/table"
	"github.com/pradoz/nosquealdb/update"
)

func newAccountsTable() *table.Table {
	schema := keys.NewSchema("pk", keys.TypeS)
	return table.New("accounts", schema, memkv.New())
}

func seedAccount(t *testing.T, tbl *table.Table, id string, balance string) {
	t.Helper()
	item := attr.NewM(map[string]attr.Value{"pk": attr.S(id), "balance": attr.N(balance)})
	if _, err := tbl.Put(table.PutRequest{Item: item}); err != nil {
		t.Fatal(err)
	}
}

func TestTransactWriteCommitsAllOnSuccess(t *testing.T) {
	tbl := newAccountsTable()
	seedAccount(t, tbl, "a", "100")
	seedAccount(t, tbl, "b", "50")

	items := []WriteItem{
		Update{
			Key:        keys.PrimaryKey{Pk: attr.S("a")},
			Expression: update.Expression{update.Add{Path: attr.NewPath("balance"), Value: attr.N("-30")}},
		},
		Update{
			Key:        keys.PrimaryKey{Pk: attr.S("b")},
			Expression: update.Expression{update.Add{Path: attr.NewPath("balance"), Value: attr.N("30")}},
		},
	}
	if err := TransactWrite(tbl, items); err != nil {
		t.Fatal(err)
	}

	a, _ := tbl.Get(table.GetRequest{Key: keys.PrimaryKey{Pk: attr.S("a")}})
	b, _ := tbl.Get(table.GetRequest{Key: keys.PrimaryKey{Pk: attr.S("b")}})
	av, _ := a.Item.Get("balance")
	bv, _ := b.Item.Get("balance")
	if av.(attr.N) != "70" || bv.(attr.N) != "80" {
		t.Fatalf("expected balances 70/80, got %v/%v", av, bv)
	}
}

func TestTransactWriteAbortsOnFirstFailureWithNoSideEffects(t *testing.T) {
	tbl := newAccountsTable()
	seedAccount(t, tbl, "a", "100")
	seedAccount(t, tbl, "b", "50")

	items := []WriteItem{
		Update{
			Key:        keys.PrimaryKey{Pk: attr.S("a")},
			Expression: update.Expression{update.Add{Path: attr.NewPath("balance"), Value: attr.N("-30")}},
		},
		ConditionCheck{
			Key:       keys.PrimaryKey{Pk: attr.S("b")},
			Condition: cond.Compare{Path: attr.NewPath("balance"), Op: cond.Eq, Value: attr.N("999")},
		},
	}
	err := TransactWrite(tbl, items)
	reason, ok := IsCanceled(err)
	if !ok || reason.Kind != ConditionCheckFailed || reason.Index != 1 {
		t.Fatalf("expected ConditionCheckFailed at index 1, got %v", err)
	}

	a, _ := tbl.Get(table.GetRequest{Key: keys.PrimaryKey{Pk: attr.S("a")}})
	av, _ := a.Item.Get("balance")
	if av.(attr.N) != "100" {
		t.Fatalf("expected no side effects, balance still 100, got %v", av)
	}
}

func TestTransactWriteDuplicateKeyFails(t *testing.T) {
	tbl := newAccountsTable()
	seedAccount(t, tbl, "a", "100")

	items := []WriteItem{
		Delete{Key: keys.PrimaryKey{Pk: attr.S("a")}},
		Put{Item: attr.NewM(map[string]attr.Value{"pk": attr.S("a"), "balance": attr.N("0")})},
	}
	err := TransactWrite(tbl, items)
	reason, ok := IsCanceled(err)
	if !ok || reason.Kind != DuplicateItem || reason.Index != 1 {
		t.Fatalf("expected DuplicateItem at index 1, got %v", err)
	}
}

func TestTransactWriteUpdateMissingItemFails(t *testing.T) {
	tbl := newAccountsTable()

	items := []WriteItem{
		Update{
			Key:        keys.PrimaryKey{Pk: attr.S("ghost")},
			Expression: update.Expression{update.Set{Path: attr.NewPath("balance"), Value: attr.N("1")}},
		},
	}
	err := TransactWrite(tbl, items)
	reason, ok := IsCanceled(err)
	if !ok || reason.Kind != ItemNotFound {
		t.Fatalf("expected ItemNotFound, got %v", err)
	}
}

func TestTransactWriteKeyModificationFails(t *testing.T) {
	tbl := newAccountsTable()
	seedAccount(t, tbl, "a", "100")

	items := []WriteItem{
		Update{
			Key:        keys.PrimaryKey{Pk: attr.S("a")},
			Expression: update.Expression{update.Set{Path: attr.NewPath("pk"), Value: attr.S("b")}},
		},
	}
	err := TransactWrite(tbl, items)
	reason, ok := IsCanceled(err)
	if !ok || reason.Kind != KeyModification {
		t.Fatalf("expected KeyModification, got %v", err)
	}
}

func TestTransactGetNeverFailsOnMissing(t *testing.T) {
	tbl := newAccountsTable()
	seedAccount(t, tbl, "a", "100")

	results, err := TransactGet(tbl, []keys.PrimaryKey{
		{Pk: attr.S("a")},
		{Pk: attr.S("missing")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Found || results[1].Found {
		t.Fatalf("expected [found, not found], got %+v", results)
	}
}
