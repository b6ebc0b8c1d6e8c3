package activity

import "context"

// Source supplies raw transaction records, e.g. a mock table or a backend.
type Source interface {
	// ListRecords returns raw records matching filter, in source order.
	ListRecords(ctx context.Context, filter Filter) ([]RawTransaction, error)
}

// Filter defines filtering criteria for listing records.
type Filter struct {
	// Type filters records by transaction kind.
	Type TransactionType

	// Status filters records by status.
	Status Status

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}

// Matches reports whether r satisfies the Type and Status criteria.
// Limit and Offset are applied by the source. A nil record never matches.
func (f Filter) Matches(r RawTransaction) bool {
	if r == nil {
		return false
	}
	if f.Type != "" && r.Type() != f.Type {
		return false
	}
	if f.Status != "" && Base(r).Status != f.Status {
		return false
	}
	return true
}
