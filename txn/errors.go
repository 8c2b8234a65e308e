package txn

import "fmt"

// ReasonKind enumerates why a transaction's validate phase rejected an
// item.
type ReasonKind int

const (
	// DuplicateItem: two write items in the same transaction target the
	// same key.
	DuplicateItem ReasonKind = iota
	// ValidationError: an item's key fails key-schema validation, its
	// current item cannot be read, its condition cannot be evaluated,
	// or its update actions fail.
	ValidationError
	// ItemNotFound: an Update targets a key with no existing item.
	ItemNotFound
	// ConditionCheckFailed: a Put/Update/Delete/ConditionCheck condition
	// evaluated false.
	ConditionCheckFailed
	// KeyModification: an Update's actions would change the item's key.
	KeyModification
)

func (k ReasonKind) String() string {
	switch k {
	case DuplicateItem:
		return "DuplicateItem"
	case ValidationError:
		return "ValidationError"
	case ItemNotFound:
		return "ItemNotFound"
	case ConditionCheckFailed:
		return "ConditionCheckFailed"
	case KeyModification:
		return "KeyModification"
	default:
		return "Unknown"
	}
}

// CancelReason names the index of the offending write item and why it
// was rejected during phase 1.
type CancelReason struct {
	Kind  ReasonKind
	Index int
	cause error
}

func (r CancelReason) Error() string {
	if r.cause != nil {
		return fmt.Sprintf("%s at item %d: %v", r.Kind, r.Index, r.cause)
	}
	return fmt.Sprintf("%s at item %d", r.Kind, r.Index)
}

// CanceledError is returned by TransactWrite when phase 1 validation
// fails. Per the single-threaded execution model only the first
// failure encountered is reported; validation stops there and the
// transaction has no side effects. TxnID is the transaction's
// correlation id, present in the error so callers can tie a failure
// back to their own audit logs.
type CanceledError struct {
	TxnID  string
	Reason CancelReason
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("txn: transaction %s canceled: %v", e.TxnID, e.Reason)
}

func (e *CanceledError) Unwrap() error { return e.Reason }

func canceled(txnID string, kind ReasonKind, index int, cause error) error {
	return &CanceledError{TxnID: txnID, Reason: CancelReason{Kind: kind, Index: index, cause: cause}}
}

// IsCanceled reports whether err is a CanceledError, and if so the
// reason.
func IsCanceled(err error) (CancelReason, bool) {
	e, ok := err.(*CanceledError)
	if !ok {
		return CancelReason{}, false
	}
	return e.Reason, true
}
