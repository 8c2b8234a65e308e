// Package query implements the key-condition query executor: filtering
// a set of candidate (PrimaryKey, Item) pairs down to those matching a
// partition key (and optional sort-key condition), then sorting,
// reversing and limiting the result.
package query

import (
	"sort"

	"github.com/pradoz/nosquealdb/attr"
	"github.com/pradoz/nosquealdb/keys"
)

// SortKeyOpKind enumerates the operators a sort-key condition supports.
type SortKeyOpKind int

const (
	SkEq SortKeyOpKind = iota
	SkLt
	SkLe
	SkGt
	SkGe
	SkBetween
	SkBeginsWith
)

// SortKeyCond is a predicate over a sort-key value.
type SortKeyCond struct {
	Op         SortKeyOpKind
	Value      attr.Value // Eq, Lt, Le, Gt, Ge, BeginsWith
	Low, High  attr.Value // Between (inclusive)
}

// Matches reports whether sk satisfies the condition. BeginsWith is
// only meaningful for S and B; any other type reports false rather
// than erroring. ValidateCondition does not check the operand types of
// a sort-key condition, so an operand whose type differs from sk
// simply matches nothing.
func (c SortKeyCond) Matches(sk attr.Value) bool {
	switch c.Op {
	case SkEq:
		cmp, ok := compare(sk, c.Value)
		return ok && cmp == 0
	case SkLt:
		cmp, ok := compare(sk, c.Value)
		return ok && cmp < 0
	case SkLe:
		cmp, ok := compare(sk, c.Value)
		return ok && cmp <= 0
	case SkGt:
		cmp, ok := compare(sk, c.Value)
		return ok && cmp > 0
	case SkGe:
		cmp, ok := compare(sk, c.Value)
		return ok && cmp >= 0
	case SkBetween:
		low, ok1 := compare(sk, c.Low)
		high, ok2 := compare(sk, c.High)
		return ok1 && ok2 && low >= 0 && high <= 0
	case SkBeginsWith:
		return beginsWith(sk, c.Value)
	default:
		return false
	}
}

// KeyCondition restricts a query to a single partition, optionally
// further restricted by a sort-key condition.
type KeyCondition struct {
	Pk attr.Value
	Sk *SortKeyCond
}

// Options controls pagination and ordering of a query's result.
type Options struct {
	Limit       *int
	ScanForward bool // true for ascending sort-key order; the zero value (false) returns descending order
}

// Candidate is one (key, item) pair considered by the executor.
type Candidate struct {
	Key  keys.PrimaryKey
	Item attr.M
	// Seq is the insertion sequence number used as the final tie
	// breaker when sort keys and storage keys both match.
	Seq int
}

// Result is the outcome of Execute.
type Result struct {
	Items        []Candidate
	ScannedCount int
	Count        int
}

// Execute filters candidates by cond, sorts survivors by sort key
// ascending (ties broken by canonical storage key, then insertion
// sequence), reverses if ScanForward is false, and applies Limit.
func Execute(candidates []Candidate, cond KeyCondition, opts Options) Result {
	var scanned int
	var survivors []Candidate

	for _, c := range candidates {
		scanned++
		if !c.Key.Pk.Equal(cond.Pk) {
			continue
		}
		if cond.Sk != nil {
			if c.Key.Sk == nil || !cond.Sk.Matches(c.Key.Sk) {
				continue
			}
		}
		survivors = append(survivors, c)
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		a, b := survivors[i], survivors[j]
		if a.Key.Sk != nil && b.Key.Sk != nil {
			if cmp, ok := compare(a.Key.Sk, b.Key.Sk); ok && cmp != 0 {
				return cmp < 0
			}
		}
		ska := keys.ToStorageKey(a.Key)
		skb := keys.ToStorageKey(b.Key)
		if ska != skb {
			return ska < skb
		}
		return a.Seq < b.Seq
	})

	if !opts.ScanForward {
		reverse(survivors)
	}

	if opts.Limit != nil && *opts.Limit >= 0 && len(survivors) > *opts.Limit {
		survivors = survivors[:*opts.Limit]
	}

	return Result{Items: survivors, ScannedCount: scanned, Count: len(survivors)}
}

func reverse(c []Candidate) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}
