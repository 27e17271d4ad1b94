package commands

import (
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrOpenWorkspaceCommandIsNotConstructed = errors.New(
	"OpenWorkspaceCommand must be created via NewOpenWorkspaceCommand constructor",
)

// OpenWorkspaceCommand loads a lab order into a new review workspace.
//
// Example:
//
//	workspaceID := kernel.NewUUID()
//	cmd, err := NewOpenWorkspaceCommand(workspaceID, 7)
//	if err != nil {
//	    return fmt.Errorf("invalid request: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to open order 7: %w", err)
//	}
type OpenWorkspaceCommand struct { //nolint:recvcheck //using for validation
	workspaceID kernel.UUID
	labOrderID  int64

	guard guard.ConstructorGuard
}

func NewOpenWorkspaceCommand(workspaceID kernel.UUID, labOrderID int64) (OpenWorkspaceCommand, error) {
	cmd := OpenWorkspaceCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setWorkspaceID(workspaceID),
		cmd.setLabOrderID(labOrderID),
	); err != nil {
		return OpenWorkspaceCommand{}, err
	}
	return cmd, nil
}

func (c OpenWorkspaceCommand) Validate() error {
	return c.guard.Validate(ErrOpenWorkspaceCommandIsNotConstructed)
}

func (c OpenWorkspaceCommand) WorkspaceID() kernel.UUID {
	return c.workspaceID
}

func (c OpenWorkspaceCommand) LabOrderID() int64 {
	return c.labOrderID
}

func (c *OpenWorkspaceCommand) setWorkspaceID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.workspaceID = id
	return nil
}

func (c *OpenWorkspaceCommand) setLabOrderID(id int64) error {
	if err := validatePositiveID("labOrderId", id); err != nil {
		return err
	}
	c.labOrderID = id
	return nil
}
