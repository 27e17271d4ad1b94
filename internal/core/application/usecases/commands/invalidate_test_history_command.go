package commands

import (
	"context"
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrInvalidateTestHistoryCommandIsNotConstructed = errors.New(
	"InvalidateTestHistoryCommand must be created via NewInvalidateTestHistoryCommand constructor",
)

// InvalidateTestHistoryCommand drops the cached history of a row so the next
// read fetches it again.
type InvalidateTestHistoryCommand struct { //nolint:recvcheck //using for validation
	workspaceID kernel.UUID
	orderTestID int64

	guard guard.ConstructorGuard
}

func NewInvalidateTestHistoryCommand(workspaceID kernel.UUID, orderTestID int64) (InvalidateTestHistoryCommand, error) {
	cmd := InvalidateTestHistoryCommand{guard: guard.NewConstructorGuard()}

	if err := workspaceID.Validate(); err != nil {
		return InvalidateTestHistoryCommand{}, err
	}
	if err := validatePositiveID("orderTestId", orderTestID); err != nil {
		return InvalidateTestHistoryCommand{}, err
	}

	cmd.workspaceID = workspaceID
	cmd.orderTestID = orderTestID
	return cmd, nil
}

func (c InvalidateTestHistoryCommand) Validate() error {
	return c.guard.Validate(ErrInvalidateTestHistoryCommandIsNotConstructed)
}

func (c InvalidateTestHistoryCommand) WorkspaceID() kernel.UUID {
	return c.workspaceID
}

func (c InvalidateTestHistoryCommand) OrderTestID() int64 {
	return c.orderTestID
}

type InvalidateTestHistoryCommandHandler struct {
	registry WorkspaceRegistry
}

func NewInvalidateTestHistoryCommandHandler(registry WorkspaceRegistry) InvalidateTestHistoryCommandHandler {
	return InvalidateTestHistoryCommandHandler{registry: registry}
}

func (h InvalidateTestHistoryCommandHandler) Handle(ctx context.Context, cmd InvalidateTestHistoryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ws, err := h.registry.Get(cmd.WorkspaceID())
	if err != nil {
		return err
	}
	return ws.InvalidateHistory(ctx, cmd.OrderTestID())
}
