package commands

import (
	"context"
)

// OpenWorkspaceCommandHandler fetches the order and registers the workspace.
// A failed fetch leaves no workspace behind.
type OpenWorkspaceCommandHandler struct {
	registry WorkspaceRegistry
}

func NewOpenWorkspaceCommandHandler(registry WorkspaceRegistry) OpenWorkspaceCommandHandler {
	return OpenWorkspaceCommandHandler{registry: registry}
}

func (h OpenWorkspaceCommandHandler) Handle(ctx context.Context, cmd OpenWorkspaceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := h.registry.Open(ctx, cmd.WorkspaceID(), cmd.LabOrderID())
	return err
}
