package commands

import (
	"context"
	"errors"

	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrUpdateDraftFieldCommandIsNotConstructed = errors.New(
	"UpdateDraftFieldCommand must be created via NewUpdateDraftFieldCommand constructor",
)

// UpdateDraftFieldCommand edits one field of one row's draft. Nothing is
// persisted until the row is committed.
type UpdateDraftFieldCommand struct { //nolint:recvcheck //using for validation
	workspaceID kernel.UUID
	orderTestID int64
	field       draft.Field
	value       string

	guard guard.ConstructorGuard
}

func NewUpdateDraftFieldCommand(
	workspaceID kernel.UUID,
	orderTestID int64,
	field string,
	value string,
) (UpdateDraftFieldCommand, error) {
	cmd := UpdateDraftFieldCommand{value: value, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setWorkspaceID(workspaceID),
		cmd.setOrderTestID(orderTestID),
		cmd.setField(field),
	); err != nil {
		return UpdateDraftFieldCommand{}, err
	}
	return cmd, nil
}

func (c UpdateDraftFieldCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDraftFieldCommandIsNotConstructed)
}

func (c UpdateDraftFieldCommand) WorkspaceID() kernel.UUID {
	return c.workspaceID
}

func (c UpdateDraftFieldCommand) OrderTestID() int64 {
	return c.orderTestID
}

func (c UpdateDraftFieldCommand) Field() draft.Field {
	return c.field
}

func (c UpdateDraftFieldCommand) Value() string {
	return c.value
}

func (c *UpdateDraftFieldCommand) setWorkspaceID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.workspaceID = id
	return nil
}

func (c *UpdateDraftFieldCommand) setOrderTestID(id int64) error {
	if err := validatePositiveID("orderTestId", id); err != nil {
		return err
	}
	c.orderTestID = id
	return nil
}

func (c *UpdateDraftFieldCommand) setField(name string) error {
	field, err := draft.ParseField(name)
	if err != nil {
		return err
	}
	c.field = field
	return nil
}

type UpdateDraftFieldCommandHandler struct {
	registry WorkspaceRegistry
}

func NewUpdateDraftFieldCommandHandler(registry WorkspaceRegistry) UpdateDraftFieldCommandHandler {
	return UpdateDraftFieldCommandHandler{registry: registry}
}

func (h UpdateDraftFieldCommandHandler) Handle(_ context.Context, cmd UpdateDraftFieldCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ws, err := h.registry.Get(cmd.WorkspaceID())
	if err != nil {
		return err
	}

	_, err = ws.UpdateDraftField(cmd.OrderTestID(), cmd.Field(), cmd.Value())
	return err
}
