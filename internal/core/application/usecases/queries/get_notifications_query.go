package queries

import (
	"context"
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/guard"
)

var ErrGetNotificationsQueryIsNotConstructed = errors.New(
	"GetNotificationsQuery must be created via NewGetNotificationsQuery constructor",
)

// GetNotificationsQuery lists the success and failure messages raised in a
// workspace, oldest first.
type GetNotificationsQuery struct {
	workspaceID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetNotificationsQuery(workspaceID kernel.UUID) (GetNotificationsQuery, error) {
	if err := workspaceID.Validate(); err != nil {
		return GetNotificationsQuery{}, err
	}
	return GetNotificationsQuery{workspaceID: workspaceID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetNotificationsQueryIsNotConstructed)
}

func (q GetNotificationsQuery) WorkspaceID() kernel.UUID {
	return q.workspaceID
}

type GetNotificationsQueryHandler struct {
	workspaces WorkspaceReader
}

func NewGetNotificationsQueryHandler(workspaces WorkspaceReader) GetNotificationsQueryHandler {
	return GetNotificationsQueryHandler{workspaces: workspaces}
}

func (h GetNotificationsQueryHandler) Handle(_ context.Context, query GetNotificationsQuery) ([]ports.Notification, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ws, err := h.workspaces.Get(query.WorkspaceID())
	if err != nil {
		return nil, err
	}
	return ws.Notifications(), nil
}
