package commands

import (
	"context"
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrCommitDraftCommandIsNotConstructed = errors.New(
	"CommitDraftCommand must be created via NewCommitDraftCommand constructor",
)

// CommitDraftCommand persists the current draft of a single row.
//
// Example:
//
//	cmd, err := NewCommitDraftCommand(workspaceID, 11)
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    // the draft is kept and can be committed again
//	    return err
//	}
type CommitDraftCommand struct { //nolint:recvcheck //using for validation
	workspaceID kernel.UUID
	orderTestID int64

	guard guard.ConstructorGuard
}

func NewCommitDraftCommand(workspaceID kernel.UUID, orderTestID int64) (CommitDraftCommand, error) {
	cmd := CommitDraftCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setWorkspaceID(workspaceID),
		cmd.setOrderTestID(orderTestID),
	); err != nil {
		return CommitDraftCommand{}, err
	}
	return cmd, nil
}

func (c CommitDraftCommand) Validate() error {
	return c.guard.Validate(ErrCommitDraftCommandIsNotConstructed)
}

func (c CommitDraftCommand) WorkspaceID() kernel.UUID {
	return c.workspaceID
}

func (c CommitDraftCommand) OrderTestID() int64 {
	return c.orderTestID
}

func (c *CommitDraftCommand) setWorkspaceID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.workspaceID = id
	return nil
}

func (c *CommitDraftCommand) setOrderTestID(id int64) error {
	if err := validatePositiveID("orderTestId", id); err != nil {
		return err
	}
	c.orderTestID = id
	return nil
}

type CommitDraftCommandHandler struct {
	registry WorkspaceRegistry
}

func NewCommitDraftCommandHandler(registry WorkspaceRegistry) CommitDraftCommandHandler {
	return CommitDraftCommandHandler{registry: registry}
}

func (h CommitDraftCommandHandler) Handle(ctx context.Context, cmd CommitDraftCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	ws, err := h.registry.Get(cmd.WorkspaceID())
	if err != nil {
		return err
	}
	return ws.CommitDraft(ctx, cmd.OrderTestID())
}
