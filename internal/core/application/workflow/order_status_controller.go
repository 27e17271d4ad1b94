package workflow

import (
	"context"
	"strconv"

	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"

	"golang.org/x/sync/singleflight"
)

// OrderStatusController finalizes orders.
type OrderStatusController struct {
	orders   ports.LabOrderRepository
	notifier ports.Notifier

	inflight singleflight.Group
}

func NewOrderStatusController(orders ports.LabOrderRepository, notifier ports.Notifier) *OrderStatusController {
	return &OrderStatusController{
		orders:   orders,
		notifier: notifier,
	}
}

// MarkComplete sets a copy of order to completed, whatever its current status,
// and persists the entire copy. The copy is returned only after the repository
// accepted it; order itself is never modified.
func (c *OrderStatusController) MarkComplete(ctx context.Context, order *laborder.LabOrder) (*laborder.LabOrder, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}

	detached := context.WithoutCancel(ctx)
	v, err, _ := c.inflight.Do(strconv.FormatInt(order.ID(), 10), func() (any, error) {
		updated := order.Clone()
		updated.MarkComplete()

		if err := c.orders.Update(detached, updated); err != nil {
			return nil, err
		}
		return updated, nil
	})
	if err != nil {
		notifyFailure(ctx, c.notifier, ActionMarkComplete, msgOrderCompleteFail)
		return nil, err
	}

	notifySuccess(ctx, c.notifier, ActionMarkComplete, msgOrderCompleted)
	return v.(*laborder.LabOrder).Clone(), nil
}
