package commands

import (
	"context"
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrCloseWorkspaceCommandIsNotConstructed = errors.New(
	"CloseWorkspaceCommand must be created via NewCloseWorkspaceCommand constructor",
)

// CloseWorkspaceCommand tears a workspace down together with its drafts and cached history.
type CloseWorkspaceCommand struct {
	workspaceID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCloseWorkspaceCommand(workspaceID kernel.UUID) (CloseWorkspaceCommand, error) {
	if err := workspaceID.Validate(); err != nil {
		return CloseWorkspaceCommand{}, err
	}
	return CloseWorkspaceCommand{workspaceID: workspaceID, guard: guard.NewConstructorGuard()}, nil
}

func (c CloseWorkspaceCommand) Validate() error {
	return c.guard.Validate(ErrCloseWorkspaceCommandIsNotConstructed)
}

func (c CloseWorkspaceCommand) WorkspaceID() kernel.UUID {
	return c.workspaceID
}

type CloseWorkspaceCommandHandler struct {
	registry WorkspaceRegistry
}

func NewCloseWorkspaceCommandHandler(registry WorkspaceRegistry) CloseWorkspaceCommandHandler {
	return CloseWorkspaceCommandHandler{registry: registry}
}

func (h CloseWorkspaceCommandHandler) Handle(ctx context.Context, cmd CloseWorkspaceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.registry.Close(ctx, cmd.WorkspaceID())
}
