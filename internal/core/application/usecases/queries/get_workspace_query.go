package queries

import (
	"errors"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/guard"
)

var ErrGetWorkspaceQueryIsNotConstructed = errors.New(
	"GetWorkspaceQuery must be created via NewGetWorkspaceQuery constructor",
)

// GetWorkspaceQuery reads the review screen of one workspace: the order
// header, every row with its saved result and its current draft.
type GetWorkspaceQuery struct {
	workspaceID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetWorkspaceQuery(workspaceID kernel.UUID) (GetWorkspaceQuery, error) {
	if err := workspaceID.Validate(); err != nil {
		return GetWorkspaceQuery{}, err
	}
	return GetWorkspaceQuery{workspaceID: workspaceID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWorkspaceQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkspaceQueryIsNotConstructed)
}

func (q GetWorkspaceQuery) WorkspaceID() kernel.UUID {
	return q.workspaceID
}
