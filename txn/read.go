package txn

import (
	"github.com/pradoz/nosquealdb/keys"
	"github.com/pradoz/nosquealdb/table"
)

// TransactGet reads each key in turn and returns a result list of the
// same length and order. A missing item is never a failure: its slot
// simply reports Found=false. An error is only returned if reading a
// key fails operationally (a corrupt stored value, for instance).
func TransactGet(tbl *table.Table, pks []keys.PrimaryKey) ([]table.GetResult, error) {
	results := make([]table.GetResult, len(pks))
	for i, pk := range pks {
		res, err := tbl.Get(table.GetRequest{Key: pk})
		if err != nil {
			return nil, err
		}
		results[i] = res
	}
	return results, nil
}
