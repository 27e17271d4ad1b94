// Package queries contains the read operations of a review workspace. Query
// handlers never change the lab order; reading a row's history may fill the
// workspace's history cache.
package queries

import (
	"fmt"

	"labconsole/internal/core/application/workflow"
	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/pkg/errs"
)

// WorkspaceReader resolves open workspaces.
type WorkspaceReader interface {
	Get(id kernel.UUID) (*workflow.Workspace, error)
}

func validateOrderTestID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderTestId", fmt.Errorf("%d is not greater than 0", id))
	}
	return nil
}
