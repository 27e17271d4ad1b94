package ports

import (
	"context"

	"labconsole/internal/core/domain/model/history"
)

// HistoryProvider fetches previous results of a test for a patient.
type HistoryProvider interface {
	// TestHistory returns the entries in the order chosen by the backend.
	TestHistory(ctx context.Context, patientID, testID int64) (history.Series, error)
}

// HistoryStore is the backend of the history cache. Entries are grouped by scope
// (one scope per review workspace) and keyed by orderTestId.
type HistoryStore interface {
	// Get returns the cached series and whether an entry exists.
	// An existing entry may hold an empty series.
	Get(ctx context.Context, scope string, orderTestID int64) (history.Series, bool, error)

	// Put stores series under the key, replacing any previous entry.
	Put(ctx context.Context, scope string, orderTestID int64, series history.Series) error

	// Delete removes one entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, scope string, orderTestID int64) error

	// DeleteScope removes every entry of a scope.
	DeleteScope(ctx context.Context, scope string) error
}
