package table

import (
	"sort"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/cond"
	"github.com/pradoz/nosquealdb/index"
	"github.com/pradoz/nosquealdb/internal/logging"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/kv"
	"github.com/pradoz/nosquealdb/query"
	"github.com/pradoz/nosquealdb/update"
)

// Table is the orchestration layer over a single key-value backend: it
// validates keys, evaluates conditions, runs update actions and mirrors
// every mutation into the table's secondary indexes.
type Table struct {
	Name    string
	Schema  keys.Schema
	Backend kv.Store

	gsis map[string]*index.Index
	lsis map[string]*index.Index
	seq  int
	log  *logging.Logger
}

// New constructs an empty table over backend with the given key schema.
func New(name string, schema keys.Schema, backend kv.Store) *Table {
	return &Table{
		Name:    name,
		Schema:  schema,
		Backend: backend,
		gsis:    map[string]*index.Index{},
		lsis:    map[string]*index.Index{},
	}
}

// SetLogger attaches a structured logger. Engine decisions (condition
// outcomes, index mirroring) log at debug; only unexpected backend or
// codec failures log at error. A nil logger disables logging.
func (t *Table) SetLogger(log *logging.Logger) {
	if log != nil {
		log = log.WithFields(logging.Fields{"table": t.Name})
	}
	t.log = log
}

func (t *Table) debug(op, storageKey, msg string) {
	if t.log == nil {
		return
	}
	t.log.WithFields(logging.Fields{"op": op, "storage_key": storageKey}).Debug(msg)
}

func (t *Table) errorLog(op string, err error) {
	if t.log == nil {
		return
	}
	t.log.WithFields(logging.Fields{"op": op}).Errorf("%v", err)
}

// AttachGSI registers a global secondary index under its own name.
func (t *Table) AttachGSI(idx *index.Index) { t.gsis[idx.Name] = idx }

// AttachLSI registers a local secondary index under its own name.
func (t *Table) AttachLSI(idx *index.Index) { t.lsis[idx.Name] = idx }

func (t *Table) indexByName(name string) (*index.Index, bool) {
	if idx, ok := t.gsis[name]; ok {
		return idx, true
	}
	if idx, ok := t.lsis[name]; ok {
		return idx, true
	}
	return nil, false
}

func (t *Table) mirrorPut(pk keys.PrimaryKey, item attr.M) {
	for _, idx := range t.gsis {
		idx.Put(pk, item)
	}
	for _, idx := range t.lsis {
		idx.Put(pk, item)
	}
}

func (t *Table) mirrorDelete(pk keys.PrimaryKey) {
	for _, idx := range t.gsis {
		idx.Delete(pk)
	}
	for _, idx := range t.lsis {
		idx.Delete(pk)
	}
}

// getItem decodes the item stored at pk, if any.
func (t *Table) getItem(pk keys.PrimaryKey) (attr.M, bool, error) {
	storageKey := keys.ToStorageKey(pk)
	raw, err := t.Backend.Get(storageKey)
	if err != nil {
		if kv.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, errStorage(err)
	}
	v, err := attr.Decode(raw)
	if err != nil {
		return nil, false, errEncoding(err)
	}
	m, ok := v.(attr.M)
	if !ok {
		return nil, false, errEncoding(errf("stored value is not a map"))
	}
	return m, true, nil
}

func (t *Table) putItem(pk keys.PrimaryKey, item attr.M) error {
	storageKey := keys.ToStorageKey(pk)
	if err := t.Backend.Put(storageKey, attr.Encode(item)); err != nil {
		werr := errStorage(err)
		t.errorLog("put", werr)
		return werr
	}
	t.debug("put", storageKey, "wrote item, mirroring into indexes")
	t.mirrorPut(pk, item)
	return nil
}

func (t *Table) deleteItem(pk keys.PrimaryKey) error {
	storageKey := keys.ToStorageKey(pk)
	if err := t.Backend.Delete(storageKey); err != nil && !kv.IsNotFound(err) {
		werr := errStorage(err)
		t.errorLog("delete", werr)
		return werr
	}
	t.debug("delete", storageKey, "deleted item, mirroring into indexes")
	t.mirrorDelete(pk)
	return nil
}

// evalCondition evaluates c (which may be nil, meaning "always true")
// against current, translating *cond.EvalError into a ConditionError.
func evalCondition(c cond.Node, current attr.M) (bool, error) {
	if c == nil {
		return true, nil
	}
	ok, err := cond.Evaluate(c, current)
	if err != nil {
		return false, errConditionError(err)
	}
	return ok, nil
}

// Put validates req.Item against the table's key schema, evaluates the
// condition (or the implicit attribute_not_exists(pk) from IfNotExists)
// against the current item, and on success writes req.Item, mirroring
// the write into every attached index.
func (t *Table) Put(req PutRequest) (MutationResult, error) {
	pk, err := keys.Extract(req.Item, t.Schema)
	if err != nil {
		return MutationResult{}, errInvalidKey(err)
	}

	current, existed, err := t.getItem(pk)
	if err != nil {
		return MutationResult{}, err
	}
	// Conditions on a missing item are evaluated against a genuinely
	// empty item, so attribute_not_exists(pk) means "item does not
	// exist".
	evalTarget := current
	if !existed {
		evalTarget = attr.M{}
	}

	condition := req.Condition
	if req.IfNotExists {
		notExists := cond.AttributeNotExists{Path: attr.NewPath(t.Schema.Partition.Name)}
		if condition == nil {
			condition = notExists
		} else {
			condition = cond.And{Left: notExists, Right: condition}
		}
	}

	ok, err := evalCondition(condition, evalTarget)
	if err != nil {
		return MutationResult{}, err
	}
	if !ok {
		t.debug("put", keys.ToStorageKey(pk), "condition evaluated false")
		if req.IfNotExists && existed {
			return MutationResult{}, errItemAlreadyExists()
		}
		return MutationResult{}, errConditionFailed()
	}

	if err := t.putItem(pk, req.Item); err != nil {
		return MutationResult{}, err
	}

	result := MutationResult{Existed: existed}
	switch req.ReturnValue {
	case ReturnAllOld:
		if existed {
			result.Attributes = current
		}
	case ReturnAllNew:
		result.Attributes = req.Item
	}
	return result, nil
}

// Get decodes the item at req.Key, if any.
func (t *Table) Get(req GetRequest) (GetResult, error) {
	item, found, err := t.getItem(req.Key)
	if err != nil {
		return GetResult{}, err
	}
	return GetResult{Item: item, Found: found}, nil
}

// Update decodes the current item at req.Key, evaluates req.Condition
// against it (against an empty item if none exists), runs req.Expression
// (on a missing key, against an item holding only the key attributes)
// and writes the result back. It fails with UpdateError if the update
// expression changes or removes any key attribute.
func (t *Table) Update(req UpdateRequest) (MutationResult, error) {
	if err := t.validateKey(req.Key); err != nil {
		return MutationResult{}, err
	}

	current, existed, err := t.getItem(req.Key)
	if err != nil {
		return MutationResult{}, err
	}
	evalTarget := current
	if !existed {
		evalTarget = attr.M{}
	}

	ok, err := evalCondition(req.Condition, evalTarget)
	if err != nil {
		return MutationResult{}, err
	}
	if !ok {
		t.debug("update", keys.ToStorageKey(req.Key), "condition evaluated false")
		return MutationResult{}, errConditionFailed()
	}

	// The actions run against an item carrying the request's key
	// attributes, so an update to a missing key creates the item.
	base := current
	if !existed {
		base = keys.WithKeyAttributes(t.Schema, req.Key)
	}
	updated, err := update.Apply(req.Expression, base)
	if err != nil {
		return MutationResult{}, errUpdateError(err)
	}

	newKey, err := keys.Extract(updated, t.Schema)
	if err != nil {
		return MutationResult{}, errUpdateMsg("update actions removed a key attribute")
	}
	if !newKey.Equal(req.Key) {
		return MutationResult{}, errUpdateMsg("update actions cannot modify key attributes")
	}

	if err := t.putItem(req.Key, updated); err != nil {
		return MutationResult{}, err
	}

	result := MutationResult{Existed: existed}
	switch req.ReturnValue {
	case ReturnAllOld:
		if existed {
			result.Attributes = current
		}
	case ReturnAllNew:
		result.Attributes = updated
	}
	return result, nil
}

// Delete evaluates req.Condition against the current item (or empty, if
// absent) and on success removes it from the backend and every index.
func (t *Table) Delete(req DeleteRequest) (MutationResult, error) {
	if err := t.validateKey(req.Key); err != nil {
		return MutationResult{}, err
	}

	current, existed, err := t.getItem(req.Key)
	if err != nil {
		return MutationResult{}, err
	}
	evalTarget := current
	if !existed {
		evalTarget = attr.M{}
	}

	ok, err := evalCondition(req.Condition, evalTarget)
	if err != nil {
		return MutationResult{}, err
	}
	if !ok {
		t.debug("delete", keys.ToStorageKey(req.Key), "condition evaluated false")
		return MutationResult{}, errConditionFailed()
	}

	if existed {
		if err := t.deleteItem(req.Key); err != nil {
			return MutationResult{}, err
		}
	}

	result := MutationResult{Existed: existed}
	if req.ReturnValue == ReturnAllOld && existed {
		result.Attributes = current
	}
	return result, nil
}

func (t *Table) validateKey(pk keys.PrimaryKey) error {
	if !t.Schema.Partition.Type.Matches(pk.Pk) {
		return errInvalidKey(errf("partition key %q has the wrong type", t.Schema.Partition.Name))
	}
	if t.Schema.HasSort() {
		if pk.Sk == nil || !t.Schema.Sort.Type.Matches(pk.Sk) {
			return errInvalidKey(errf("sort key %q has the wrong type", t.Schema.Sort.Name))
		}
	}
	return nil
}

// Query runs req.Condition (and optional Filter) against the table's
// own key space, or against a named secondary index.
func (t *Table) Query(req QueryRequest) (QueryResult, error) {
	var raw query.Result
	if req.IndexName == "" {
		if err := query.ValidateCondition(req.Condition, t.Schema); err != nil {
			return QueryResult{}, errInvalidKey(err)
		}
		candidates, err := t.candidates()
		if err != nil {
			return QueryResult{}, err
		}
		raw = query.Execute(candidates, req.Condition, req.Options)
	} else {
		idx, ok := t.indexByName(req.IndexName)
		if !ok {
			return QueryResult{}, errIndexNotFound(req.IndexName)
		}
		if err := query.ValidateCondition(req.Condition, idx.Schema); err != nil {
			return QueryResult{}, errInvalidKey(err)
		}
		raw = idx.Query(req.Condition, req.Options)
	}
	return t.filterQueryResult(raw, req.Filter)
}

func (t *Table) filterQueryResult(raw query.Result, filter cond.Node) (QueryResult, error) {
	items := make([]attr.M, 0, len(raw.Items))
	for _, c := range raw.Items {
		if filter != nil {
			ok, err := cond.Evaluate(filter, c.Item)
			if err != nil {
				return QueryResult{}, errConditionError(err)
			}
			if !ok {
				continue
			}
		}
		items = append(items, c.Item)
	}
	return QueryResult{Items: items, ScannedCount: raw.ScannedCount, Count: len(items)}, nil
}

// candidates materializes every live item in the table as a query
// candidate, in the backend's iteration order; Seq numbers follow that
// order, not the order in which items were written.
func (t *Table) candidates() ([]query.Candidate, error) {
	iter, err := t.Backend.Iter()
	if err != nil {
		return nil, errStorage(err)
	}
	var out []query.Candidate
	for {
		storageKey, raw, ok := iter.Next()
		if !ok {
			break
		}
		v, err := attr.Decode(raw)
		if err != nil {
			return nil, errEncoding(err)
		}
		item, ok := v.(attr.M)
		if !ok {
			return nil, errEncoding(errf("stored value at %q is not a map", storageKey))
		}
		pk, err := keys.Extract(item, t.Schema)
		if err != nil {
			return nil, errEncoding(err)
		}
		t.seq++
		out = append(out, query.Candidate{Key: pk, Item: item, Seq: t.seq})
	}
	return out, nil
}

// Scan walks every item in the table (or a named index), applying an
// optional filter, with keyset pagination driven by storage-key order.
func (t *Table) Scan(req ScanRequest) (ScanResult, error) {
	var candidates []query.Candidate
	if req.IndexName == "" {
		var err error
		candidates, err = t.candidates()
		if err != nil {
			return ScanResult{}, err
		}
	} else {
		idx, ok := t.indexByName(req.IndexName)
		if !ok {
			return ScanResult{}, errIndexNotFound(req.IndexName)
		}
		candidates = idx.All()
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return keys.ToStorageKey(candidates[i].Key) < keys.ToStorageKey(candidates[j].Key)
	})

	start := 0
	if req.ExclusiveStartKey != nil {
		exclusive := keys.ToStorageKey(*req.ExclusiveStartKey)
		for i, c := range candidates {
			if keys.ToStorageKey(c.Key) > exclusive {
				start = i
				break
			}
			start = i + 1
		}
	}
	candidates = candidates[start:]

	scanned := 0
	items := make([]attr.M, 0, len(candidates))
	var lastEvaluated *keys.PrimaryKey
	for _, c := range candidates {
		scanned++
		if req.Filter != nil {
			ok, err := cond.Evaluate(req.Filter, c.Item)
			if err != nil {
				return ScanResult{}, errConditionError(err)
			}
			if !ok {
				continue
			}
		}
		items = append(items, c.Item)
		if req.Limit != nil && len(items) >= *req.Limit {
			key := c.Key
			lastEvaluated = &key
			break
		}
	}

	return ScanResult{
		Items:            items,
		ScannedCount:     scanned,
		Count:            len(items),
		LastEvaluatedKey: lastEvaluated,
	}, nil
}
