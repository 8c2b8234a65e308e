package index

import (
	"testing"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/query"
)

func TestSparseIndexSkipsMissingAttribute(t *testing.T) {
	tableSchema := keys.NewSchema("pk", keys.TypeS).WithSort("sk", keys.TypeS)
	gsiSchema := keys.NewSchema("status", keys.TypeS)
	idx := NewGSI("by-status", tableSchema, gsiSchema, AllAttributes())

	pk := keys.PrimaryKey{Pk: attr.S("u"), Sk: attr.S("o")}
	withStatus := attr.NewM(map[string]attr.Value{"pk": attr.S("u"), "sk": attr.S("o"), "status": attr.S("p")})
	if err := idx.Put(pk, withStatus); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected 1 indexed item, got %d", idx.Len())
	}

	withoutStatus := attr.NewM(map[string]attr.Value{"pk": attr.S("u"), "sk": attr.S("o")})
	if err := idx.Put(pk, withoutStatus); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 0 {
		t.Fatalf("expected index entry removed once status dropped, got %d", idx.Len())
	}

	result := idx.Query(query.KeyCondition{Pk: attr.S("p")}, query.Options{ScanForward: true})
	if result.Count != 0 {
		t.Fatalf("expected 0 results from by-status query, got %d", result.Count)
	}
}

func TestIndexDeleteRemovesEntry(t *testing.T) {
	tableSchema := keys.NewSchema("pk", keys.TypeS)
	gsiSchema := keys.NewSchema("status", keys.TypeS)
	idx := NewGSI("by-status", tableSchema, gsiSchema, KeysOnly())

	pk := keys.PrimaryKey{Pk: attr.S("u")}
	item := attr.NewM(map[string]attr.Value{"pk": attr.S("u"), "status": attr.S("p"), "extra": attr.S("x")})
	if err := idx.Put(pk, item); err != nil {
		t.Fatal(err)
	}
	idx.Delete(pk)
	if idx.Len() != 0 {
		t.Fatalf("expected empty index after delete, got %d", idx.Len())
	}
}

func TestProjectionKeysOnly(t *testing.T) {
	tableSchema := keys.NewSchema("pk", keys.TypeS)
	gsiSchema := keys.NewSchema("status", keys.TypeS)
	idx := NewGSI("by-status", tableSchema, gsiSchema, KeysOnly())

	pk := keys.PrimaryKey{Pk: attr.S("u")}
	item := attr.NewM(map[string]attr.Value{"pk": attr.S("u"), "status": attr.S("p"), "extra": attr.S("x")})
	idx.Put(pk, item)

	result := idx.Query(query.KeyCondition{Pk: attr.S("p")}, query.Options{ScanForward: true})
	if result.Count != 1 {
		t.Fatalf("expected 1 result, got %d", result.Count)
	}
	got := result.Items[0].Item
	if _, ok := got.Get("extra"); ok {
		t.Fatalf("KeysOnly projection should not include non-key attribute")
	}
	if _, ok := got.Get("pk"); !ok {
		t.Fatalf("KeysOnly projection should include table key")
	}
}

func TestLSISharesTablePartitionKey(t *testing.T) {
	tableSchema := keys.NewSchema("pk", keys.TypeS).WithSort("sk", keys.TypeS)
	lsi := NewLSI("by-created", tableSchema, "created", keys.TypeN, AllAttributes())

	pk := keys.PrimaryKey{Pk: attr.S("u"), Sk: attr.S("o1")}
	item := attr.NewM(map[string]attr.Value{"pk": attr.S("u"), "sk": attr.S("o1"), "created": attr.N("5")})
	lsi.Put(pk, item)

	result := lsi.Query(query.KeyCondition{Pk: attr.S("u")}, query.Options{ScanForward: true})
	if result.Count != 1 {
		t.Fatalf("expected 1 result, got %d", result.Count)
	}
}
