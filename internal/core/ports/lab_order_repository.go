// Package ports defines the contracts between the review workflow and the
// systems around it: the lab backend, the history cache backend, the reporting
// subsystem and the user-visible notification channel.
package ports

import (
	"context"

	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/laborder"
)

// LabOrderRepository loads and persists whole lab orders.
type LabOrderRepository interface {
	// Get retrieves an order with its patient, doctor and tests.
	// Returns errs.ObjectNotFoundError if the order does not exist.
	Get(ctx context.Context, labOrderID int64) (*laborder.LabOrder, error)

	// Update persists the entire order, including its status.
	Update(ctx context.Context, order *laborder.LabOrder) error
}

// TestResultRepository persists the result fields of a single OrderTest.
type TestResultRepository interface {
	// UpdateResult writes the draft's field values to the row identified by
	// d.OrderTestID(). No other row is touched.
	UpdateResult(ctx context.Context, d draft.TestDraft) error
}
