package index

import (
	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/query"
)

type entry struct {
	indexKey keys.PrimaryKey
	tablePk  keys.PrimaryKey
	item     attr.M
	seq      int
}

// Index is the shared implementation behind GSI and LSI: a two-map
// structure — data keyed by index storage key, reverse keyed by table
// storage key — that lets a point delete or update find and remove an
// item's index entry in O(1) without a scan.
type Index struct {
	Name        string
	Schema      keys.Schema // the index's own effective key schema
	TableSchema keys.Schema
	Projection  Projection

	data    map[string]entry
	reverse map[string]string
	seq     int
}

// New constructs an empty index over tableSchema with its own effective
// key schema and projection.
func New(name string, tableSchema, indexSchema keys.Schema, proj Projection) *Index {
	return &Index{
		Name:        name,
		Schema:      indexSchema,
		TableSchema: tableSchema,
		Projection:  proj,
		data:        map[string]entry{},
		reverse:     map[string]string{},
	}
}

// Put mirrors a table write into the index. If item does not carry a
// legal index key (a required index-key attribute is absent or of the
// wrong type), the item is not indexed and any existing entry for
// tablePk is removed — this is what keeps the index sparse across
// updates that drop a previously-indexed attribute.
func (idx *Index) Put(tablePk keys.PrimaryKey, item attr.M) error {
	tableStorageKey := keys.ToStorageKey(tablePk)

	indexKey, err := keys.Extract(item, idx.Schema)
	if err != nil {
		idx.removeByTableKey(tableStorageKey)
		return nil
	}

	indexStorageKey := keys.ToStorageKey(indexKey) + "|" + tableStorageKey
	projected := apply(item, idx.Projection, idx.TableSchema, idx.Schema)

	idx.removeByTableKey(tableStorageKey)
	idx.seq++
	idx.data[indexStorageKey] = entry{
		indexKey: indexKey,
		tablePk:  tablePk,
		item:     projected,
		seq:      idx.seq,
	}
	idx.reverse[tableStorageKey] = indexStorageKey
	return nil
}

// Delete removes tablePk's entry, if any, via the reverse map.
func (idx *Index) Delete(tablePk keys.PrimaryKey) {
	idx.removeByTableKey(keys.ToStorageKey(tablePk))
}

func (idx *Index) removeByTableKey(tableStorageKey string) {
	if old, ok := idx.reverse[tableStorageKey]; ok {
		delete(idx.data, old)
		delete(idx.reverse, tableStorageKey)
	}
}

// Query dispatches to the query executor over this index's entries.
func (idx *Index) Query(cond query.KeyCondition, opts query.Options) query.Result {
	candidates := make([]query.Candidate, 0, len(idx.data))
	for _, e := range idx.data {
		candidates = append(candidates, query.Candidate{
			Key:  e.indexKey,
			Item: e.item,
			Seq:  e.seq,
		})
	}
	return query.Execute(candidates, cond, opts)
}

// All returns every indexed entry as a query.Candidate, unfiltered —
// used by Scan, which walks an index's full contents rather than a
// single partition.
func (idx *Index) All() []query.Candidate {
	out := make([]query.Candidate, 0, len(idx.data))
	for _, e := range idx.data {
		out = append(out, query.Candidate{Key: e.indexKey, Item: e.item, Seq: e.seq})
	}
	return out
}

// Clear empties the index.
func (idx *Index) Clear() {
	idx.data = map[string]entry{}
	idx.reverse = map[string]string{}
}

// Len returns the number of indexed items, for introspection/tests.
func (idx *Index) Len() int { return len(idx.data) }
