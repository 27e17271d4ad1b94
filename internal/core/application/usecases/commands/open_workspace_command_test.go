package commands_test

import (
	"context"
	"errors"
	"testing"

	"labconsole/internal/core/application/usecases/commands"
	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/application/workflow/workflowtest"
	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWorkspaceRegistry struct{ mock.Mock }

func (m *MockWorkspaceRegistry) Open(ctx context.Context, id kernel.UUID, labOrderID int64) (*workflow.Workspace, error) {
	args := m.Called(ctx, id, labOrderID)
	ws, _ := args.Get(0).(*workflow.Workspace)
	return ws, args.Error(1)
}

func (m *MockWorkspaceRegistry) Get(id kernel.UUID) (*workflow.Workspace, error) {
	args := m.Called(id)
	ws, _ := args.Get(0).(*workflow.Workspace)
	return ws, args.Error(1)
}

func (m *MockWorkspaceRegistry) Close(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func TestNewOpenWorkspaceCommand_Valid(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewOpenWorkspaceCommand(id, 7)

	require.NoError(t, err)
	assert.True(t, cmd.WorkspaceID().IsEqual(id))
	assert.Equal(t, int64(7), cmd.LabOrderID())
	require.NoError(t, cmd.Validate())
}

func TestNewOpenWorkspaceCommand_InvalidArguments(t *testing.T) {
	_, err := commands.NewOpenWorkspaceCommand(kernel.UUID{}, 0)

	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestOpenWorkspaceCommand_NotConstructedViaConstructor(t *testing.T) {
	cmd := commands.OpenWorkspaceCommand{}

	err := cmd.Validate()

	require.ErrorIs(t, err, commands.ErrOpenWorkspaceCommandIsNotConstructed)
}

func TestOpenWorkspaceCommandHandler_OpensWorkspace(t *testing.T) {
	lab := workflowtest.NewLab()
	lab.AddOrder(workflowtest.GlucoseOrder(t, laborder.Pending, 11, 12))
	registry := workflowtest.NewRegistry(t, lab)
	handler := commands.NewOpenWorkspaceCommandHandler(registry)

	id := kernel.NewUUID()
	cmd, err := commands.NewOpenWorkspaceCommand(id, workflowtest.OrderID)
	require.NoError(t, err)

	require.NoError(t, handler.Handle(t.Context(), cmd))

	ws, err := registry.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 2, ws.Drafts().Len())
}

func TestOpenWorkspaceCommandHandler_MissingOrderLeavesNothingOpen(t *testing.T) {
	lab := workflowtest.NewLab()
	registry := workflowtest.NewRegistry(t, lab)
	handler := commands.NewOpenWorkspaceCommandHandler(registry)

	cmd, err := commands.NewOpenWorkspaceCommand(kernel.NewUUID(), 404)
	require.NoError(t, err)

	err = handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Equal(t, 0, registry.Len())
}

func TestOpenWorkspaceCommandHandler_RejectsUnconstructedCommand(t *testing.T) {
	registry := &MockWorkspaceRegistry{}
	handler := commands.NewOpenWorkspaceCommandHandler(registry)

	err := handler.Handle(t.Context(), commands.OpenWorkspaceCommand{})

	require.ErrorIs(t, err, commands.ErrOpenWorkspaceCommandIsNotConstructed)
	registry.AssertNotCalled(t, "Open", mock.Anything, mock.Anything, mock.Anything)
}

func TestCloseWorkspaceCommandHandler_DelegatesToRegistry(t *testing.T) {
	registry := &MockWorkspaceRegistry{}
	handler := commands.NewCloseWorkspaceCommandHandler(registry)
	id := kernel.NewUUID()
	closeErr := errors.New("store unavailable")
	registry.On("Close", mock.Anything, id).Return(closeErr).Once()

	cmd, err := commands.NewCloseWorkspaceCommand(id)
	require.NoError(t, err)

	err = handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, closeErr)
	registry.AssertExpectations(t)
}

func TestCloseWorkspaceCommand_NotConstructedViaConstructor(t *testing.T) {
	err := commands.CloseWorkspaceCommand{}.Validate()

	require.ErrorIs(t, err, commands.ErrCloseWorkspaceCommandIsNotConstructed)
}
