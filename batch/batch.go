// Package batch implements the unordered, best-effort batch executor:
// independent puts/deletes/gets against a table, where each item
// succeeds or fails on its own and no ordering or atomicity is implied.
package batch

import (
	"github.com/pradoz/nosquealdb/table"
)

// Limits on batch size. The executor does not enforce these itself —
// ExceedsLimit and IntoChunks let a caller police its own input.
const (
	MaxBatchWriteItems = 25
	MaxBatchGetItems   = 100
)

// WriteOp is one item of a batch write: either a Put or a Delete.
type WriteOp struct {
	Put    *table.PutRequest
	Delete *table.DeleteRequest
}

// PutOp builds a batch write operation for a put.
func PutOp(req table.PutRequest) WriteOp { return WriteOp{Put: &req} }

// DeleteOp builds a batch write operation for a delete.
func DeleteOp(req table.DeleteRequest) WriteOp { return WriteOp{Delete: &req} }

// FailedWrite pairs a write operation that did not succeed with why.
type FailedWrite struct {
	Op  WriteOp
	Err error
}

// WriteResult is the outcome of BatchWrite.
type WriteResult struct {
	Processed   int
	Unprocessed []FailedWrite
}

// BatchWrite attempts each op against tbl independently. A failing op
// (invalid key, failed condition, storage error) is recorded in
// Unprocessed rather than aborting the batch.
func BatchWrite(tbl *table.Table, ops []WriteOp) WriteResult {
	var result WriteResult
	for _, op := range ops {
		var err error
		switch {
		case op.Put != nil:
			_, err = tbl.Put(*op.Put)
		case op.Delete != nil:
			_, err = tbl.Delete(*op.Delete)
		default:
			continue
		}
		if err != nil {
			result.Unprocessed = append(result.Unprocessed, FailedWrite{Op: op, Err: err})
			continue
		}
		result.Processed++
	}
	return result
}

// FailedGet pairs a get request that failed operationally with why.
// Items simply not found are reported via NotFound instead.
type FailedGet struct {
	Req table.GetRequest
	Err error
}

// GetResult is the outcome of BatchGet.
type GetResult struct {
	Items       []table.GetResult
	NotFound    []table.GetRequest
	Unprocessed []FailedGet
}

// BatchGet fetches each request independently. Requests whose item does
// not exist land in NotFound; requests that fail operationally land in
// Unprocessed.
func BatchGet(tbl *table.Table, reqs []table.GetRequest) GetResult {
	var result GetResult
	for _, req := range reqs {
		res, err := tbl.Get(req)
		if err != nil {
			result.Unprocessed = append(result.Unprocessed, FailedGet{Req: req, Err: err})
			continue
		}
		if !res.Found {
			result.NotFound = append(result.NotFound, req)
			continue
		}
		result.Items = append(result.Items, res)
	}
	return result
}

// ExceedsLimit reports whether n items exceed limit.
func ExceedsLimit(n, limit int) bool { return n > limit }

// IntoChunks splits ops into slices of at most size items each. A
// non-positive size returns a single chunk containing every op.
func IntoChunks[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) <= size {
		if len(items) == 0 {
			return nil
		}
		return [][]T{items}
	}
	var out [][]T
	for len(items) > 0 {
		n := size
		if n > len(items) {
			n = len(items)
		}
		out = append(out, items[:n])
		items = items[n:]
	}
	return out
}
