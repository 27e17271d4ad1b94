package commands

import (
	"context"
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrMarkOrderCompleteCommandIsNotConstructed = errors.New(
	"MarkOrderCompleteCommand must be created via NewMarkOrderCompleteCommand constructor",
)

// MarkOrderCompleteCommand finalizes the workspace's lab order. The order is
// written back with status completed regardless of its current status.
type MarkOrderCompleteCommand struct {
	workspaceID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkOrderCompleteCommand(workspaceID kernel.UUID) (MarkOrderCompleteCommand, error) {
	if err := workspaceID.Validate(); err != nil {
		return MarkOrderCompleteCommand{}, err
	}
	return MarkOrderCompleteCommand{workspaceID: workspaceID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkOrderCompleteCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderCompleteCommandIsNotConstructed)
}

func (c MarkOrderCompleteCommand) WorkspaceID() kernel.UUID {
	return c.workspaceID
}

type MarkOrderCompleteCommandHandler struct {
	registry WorkspaceRegistry
}

func NewMarkOrderCompleteCommandHandler(registry WorkspaceRegistry) MarkOrderCompleteCommandHandler {
	return MarkOrderCompleteCommandHandler{registry: registry}
}

func (h MarkOrderCompleteCommandHandler) Handle(ctx context.Context, cmd MarkOrderCompleteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ws, err := h.registry.Get(cmd.WorkspaceID())
	if err != nil {
		return err
	}

	_, err = ws.MarkComplete(ctx)
	return err
}
