package commands_test

import (
	"context"
	"errors"
	"testing"

	"labconsole/internal/core/application/usecases/commands"
	"labconsole/internal/core/application/workflow/workflowtest"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLabOrderWriter struct{ mock.Mock }

func (m *MockLabOrderWriter) Add(ctx context.Context, order *laborder.LabOrder) error {
	return m.Called(ctx, order).Error(0)
}

func TestNewImportLabOrderCommand_RejectsNonPositiveID(t *testing.T) {
	_, err := commands.NewImportLabOrderCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestImportLabOrderCommand_NotConstructedViaConstructor(t *testing.T) {
	handler := commands.NewImportLabOrderCommandHandler(nil, nil)

	_, err := handler.Handle(t.Context(), commands.ImportLabOrderCommand{})

	require.ErrorIs(t, err, commands.ErrImportLabOrderCommandIsNotConstructed)
}

func TestImportLabOrderCommandHandler_CopiesOrder(t *testing.T) {
	lab := workflowtest.NewLab()
	lab.AddOrder(workflowtest.GlucoseOrder(t, laborder.InProcess, 11, 12))
	target := new(MockLabOrderWriter)
	target.On("Add", mock.Anything, mock.MatchedBy(func(o *laborder.LabOrder) bool {
		return o.ID() == workflowtest.OrderID && len(o.Tests()) == 2
	})).Return(nil).Once()

	cmd, err := commands.NewImportLabOrderCommand(workflowtest.OrderID)
	require.NoError(t, err)

	order, err := commands.NewImportLabOrderCommandHandler(lab, target).Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, laborder.InProcess, order.Status())
	target.AssertExpectations(t)
}

func TestImportLabOrderCommandHandler_UnknownOrderWritesNothing(t *testing.T) {
	target := new(MockLabOrderWriter)
	cmd, err := commands.NewImportLabOrderCommand(404)
	require.NoError(t, err)

	_, err = commands.NewImportLabOrderCommandHandler(workflowtest.NewLab(), target).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	target.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestImportLabOrderCommandHandler_WriteFailure(t *testing.T) {
	lab := workflowtest.NewLab()
	lab.AddOrder(workflowtest.GlucoseOrder(t, laborder.Pending, 11))
	target := new(MockLabOrderWriter)
	target.On("Add", mock.Anything, mock.Anything).Return(errors.New("duplicate key")).Once()

	cmd, err := commands.NewImportLabOrderCommand(workflowtest.OrderID)
	require.NoError(t, err)

	_, err = commands.NewImportLabOrderCommandHandler(lab, target).Handle(t.Context(), cmd)

	require.ErrorContains(t, err, "import lab order 7")
}
