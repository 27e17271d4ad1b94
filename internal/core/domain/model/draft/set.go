package draft

import (
	"maps"
	"slices"

	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/pkg/errs"
)

// Set maps orderTestId to TestDraft and remembers the order's row order.
// The zero value is an empty set.
type Set struct {
	ids    []int64
	drafts map[int64]TestDraft
}

// Initialize builds exactly one draft per OrderTest of order, keyed by orderTestId.
func Initialize(order *laborder.LabOrder) Set {
	tests := order.Tests()

	set := Set{
		ids:    make([]int64, 0, len(tests)),
		drafts: make(map[int64]TestDraft, len(tests)),
	}
	for _, row := range tests {
		set.ids = append(set.ids, row.ID())
		set.drafts[row.ID()] = FromOrderTest(row)
	}
	return set
}

// Len returns the number of drafts.
func (s Set) Len() int {
	return len(s.ids)
}

// Get returns the draft of a row.
func (s Set) Get(orderTestID int64) (TestDraft, bool) {
	d, ok := s.drafts[orderTestID]
	return d, ok
}

// All returns the drafts in row order.
func (s Set) All() []TestDraft {
	all := make([]TestDraft, 0, len(s.ids))
	for _, id := range s.ids {
		all = append(all, s.drafts[id])
	}
	return all
}

// Update returns a new Set in which only the given row differs. The receiver is
// left untouched, so sets already handed out stay valid.
func (s Set) Update(orderTestID int64, field Field, value string) (Set, error) {
	current, ok := s.drafts[orderTestID]
	if !ok {
		return Set{}, errs.NewObjectNotFoundError("orderTestId", orderTestID)
	}

	updated, err := current.With(field, value)
	if err != nil {
		return Set{}, err
	}

	next := Set{
		ids:    s.ids,
		drafts: maps.Clone(s.drafts),
	}
	next.drafts[orderTestID] = updated
	return next, nil
}

// IDs returns the orderTestIds in row order.
func (s Set) IDs() []int64 {
	return slices.Clone(s.ids)
}
