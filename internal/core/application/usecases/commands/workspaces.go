// Package commands contains the operations that change a review workspace or
// the lab order behind it. Every command follows the same pattern: a guarded,
// validated command value and a handler that resolves the workspace and runs
// the workflow operation.
package commands

import (
	"context"
	"fmt"

	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/errs"
)

// WorkspaceRegistry gives command handlers access to open workspaces.
type WorkspaceRegistry interface {
	Open(ctx context.Context, id kernel.UUID, labOrderID int64) (*workflow.Workspace, error)
	Get(id kernel.UUID) (*workflow.Workspace, error)
	Close(ctx context.Context, id kernel.UUID) error
}

func validatePositiveID(name string, id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is not greater than 0", id))
	}
	return nil
}
