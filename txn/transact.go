package txn

import (
	"github.com/google/uuid"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/cond"
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/table"
	"github.com/pradoz/nosquealdb/update"
)

// TransactWrite runs items as a single all-or-nothing group against
// tbl: phase 1 validates every item without mutating anything; if every
// item passes, phase 2 re-runs each mutating item (Put/Update/Delete)
// as an ordinary table call. ConditionCheck items never reach phase 2.
//
// On a phase-1 failure, TransactWrite returns a *CanceledError carrying
// the index and reason of the first item that failed and leaves tbl
// untouched.
func TransactWrite(tbl *table.Table, items []WriteItem) error {
	txnID := uuid.NewString()
	if err := validate(tbl, txnID, items); err != nil {
		return err
	}
	return apply(tbl, items)
}

func validate(tbl *table.Table, txnID string, items []WriteItem) error {
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		key, err := it.targetKey(tbl.Schema)
		if err != nil {
			return canceled(txnID, ValidationError, i, err)
		}
		storageKey := keys.ToStorageKey(key)
		if seen[storageKey] {
			return canceled(txnID, DuplicateItem, i, nil)
		}
		seen[storageKey] = true

		current, existed, err := currentItem(tbl, key)
		if err != nil {
			return canceled(txnID, ValidationError, i, err)
		}
		// Conditions on a missing item see a genuinely empty item, the
		// same as the engine's own condition evaluation.
		evalTarget := current
		if !existed {
			evalTarget = attr.M{}
		}

		switch v := it.(type) {
		case Put:
			if err := keys.Validate(v.Item, tbl.Schema); err != nil {
				return canceled(txnID, ValidationError, i, err)
			}
			ok, err := evaluate(v.Condition, evalTarget)
			if err != nil {
				return canceled(txnID, ValidationError, i, err)
			}
			if !ok {
				return canceled(txnID, ConditionCheckFailed, i, nil)
			}
		case Update:
			if !existed {
				return canceled(txnID, ItemNotFound, i, nil)
			}
			ok, err := evaluate(v.Condition, current)
			if err != nil {
				return canceled(txnID, ValidationError, i, err)
			}
			if !ok {
				return canceled(txnID, ConditionCheckFailed, i, nil)
			}
			simulated, err := update.Apply(v.Expression, current)
			if err != nil {
				return canceled(txnID, ValidationError, i, err)
			}
			newKey, err := keys.Extract(simulated, tbl.Schema)
			if err != nil || !newKey.Equal(key) {
				return canceled(txnID, KeyModification, i, nil)
			}
		case Delete:
			ok, err := evaluate(v.Condition, evalTarget)
			if err != nil {
				return canceled(txnID, ValidationError, i, err)
			}
			if !ok {
				return canceled(txnID, ConditionCheckFailed, i, nil)
			}
		case ConditionCheck:
			ok, err := evaluate(v.Condition, evalTarget)
			if err != nil {
				return canceled(txnID, ValidationError, i, err)
			}
			if !ok {
				return canceled(txnID, ConditionCheckFailed, i, nil)
			}
		}
	}
	return nil
}

// apply re-runs every mutating item as a normal engine call. Phase 1
// already proved each one will succeed under single-threaded execution;
// an error here indicates a logic error in validate, not a legitimate
// transaction outcome, and is surfaced as the table engine's own error
// rather than a CanceledError.
func apply(tbl *table.Table, items []WriteItem) error {
	for _, it := range items {
		switch v := it.(type) {
		case Put:
			if _, err := tbl.Put(table.PutRequest{Item: v.Item, Condition: v.Condition}); err != nil {
				return err
			}
		case Update:
			if _, err := tbl.Update(table.UpdateRequest{Key: v.Key, Expression: v.Expression, Condition: v.Condition}); err != nil {
				return err
			}
		case Delete:
			if _, err := tbl.Delete(table.DeleteRequest{Key: v.Key, Condition: v.Condition}); err != nil {
				return err
			}
		case ConditionCheck:
			// validated only, never applied.
		}
	}
	return nil
}

func currentItem(tbl *table.Table, key keys.PrimaryKey) (attr.M, bool, error) {
	res, err := tbl.Get(table.GetRequest{Key: key})
	if err != nil {
		return nil, false, err
	}
	return res.Item, res.Found, nil
}

func evaluate(c cond.Node, item attr.M) (bool, error) {
	if c == nil {
		return true, nil
	}
	return cond.Evaluate(c, item)
}
