package workflow_test

import (
	"errors"
	"testing"

	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusController_MarkComplete(t *testing.T) {
	for _, from := range []laborder.Status{laborder.Pending, laborder.InProcess, laborder.Completed} {
		t.Run("from "+from.String(), func(t *testing.T) {
			ctx := t.Context()
			order := newLabOrder(t, from, 1, 2)
			orders := new(MockOrderRepository)
			feed := workflow.NewNotificationFeed(0, nil)
			controller := workflow.NewOrderStatusController(orders, feed)

			orders.On("Update", mock.Anything, mock.MatchedBy(func(o *laborder.LabOrder) bool {
				return o.ID() == order.ID() &&
					o.Status() == laborder.Completed &&
					len(o.Tests()) == 2 &&
					o.PaymentStatus() == order.PaymentStatus() &&
					o.FinalAmount().Equal(order.FinalAmount())
			})).Return(nil).Once()

			updated, err := controller.MarkComplete(ctx, order)

			require.NoError(t, err)
			orders.AssertExpectations(t)
			assert.Equal(t, laborder.Completed, updated.Status())
			assert.Equal(t, from, order.Status(), "input order is not mutated")

			n := lastNotification(t, feed.List())
			assert.Equal(t, ports.NotificationSuccess, n.Level)
			assert.Equal(t, "Order marked as completed", n.Message)
		})
	}
}

func TestOrderStatusController_MarkCompleteFailure(t *testing.T) {
	ctx := t.Context()
	order := newLabOrder(t, laborder.InProcess, 1)
	orders := new(MockOrderRepository)
	feed := workflow.NewNotificationFeed(0, nil)
	controller := workflow.NewOrderStatusController(orders, feed)

	orders.On("Update", mock.Anything, mock.Anything).Return(errors.New("status 500")).Once()

	updated, err := controller.MarkComplete(ctx, order)

	require.Error(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, laborder.InProcess, order.Status())
	assert.Equal(t, ports.NotificationError, lastNotification(t, feed.List()).Level)
}

func TestOrderStatusController_RejectsUnconstructedOrder(t *testing.T) {
	orders := new(MockOrderRepository)
	controller := workflow.NewOrderStatusController(orders, workflow.NewNotificationFeed(0, nil))

	_, err := controller.MarkComplete(t.Context(), &laborder.LabOrder{})

	require.ErrorIs(t, err, laborder.ErrLabOrderIsNotConstructed)
	orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
