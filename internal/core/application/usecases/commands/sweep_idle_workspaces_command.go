package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labconsole/internal/pkg/errs"
	"labconsole/internal/pkg/guard"
)

var ErrSweepIdleWorkspacesCommandIsNotConstructed = errors.New(
	"SweepIdleWorkspacesCommand must be created via NewSweepIdleWorkspacesCommand constructor",
)

// WorkspaceSweeper closes workspaces that have not been used for a while.
type WorkspaceSweeper interface {
	Sweep(ctx context.Context, idle time.Duration) (int, error)
}

// SweepIdleWorkspacesCommand closes every workspace idle for longer than IdleTimeout.
type SweepIdleWorkspacesCommand struct {
	idleTimeout time.Duration

	guard guard.ConstructorGuard
}

func NewSweepIdleWorkspacesCommand(idleTimeout time.Duration) (SweepIdleWorkspacesCommand, error) {
	if idleTimeout <= 0 {
		return SweepIdleWorkspacesCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"idleTimeout", fmt.Errorf("must be positive, got %s", idleTimeout),
		)
	}
	return SweepIdleWorkspacesCommand{idleTimeout: idleTimeout, guard: guard.NewConstructorGuard()}, nil
}

func (c SweepIdleWorkspacesCommand) Validate() error {
	return c.guard.Validate(ErrSweepIdleWorkspacesCommandIsNotConstructed)
}

func (c SweepIdleWorkspacesCommand) IdleTimeout() time.Duration {
	return c.idleTimeout
}

type SweepIdleWorkspacesCommandHandler struct {
	sweeper WorkspaceSweeper
}

func NewSweepIdleWorkspacesCommandHandler(sweeper WorkspaceSweeper) SweepIdleWorkspacesCommandHandler {
	return SweepIdleWorkspacesCommandHandler{sweeper: sweeper}
}

// Handle returns how many workspaces were closed. Workspaces that fail to
// close are still counted and their errors joined.
func (h SweepIdleWorkspacesCommandHandler) Handle(ctx context.Context, cmd SweepIdleWorkspacesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.sweeper.Sweep(ctx, cmd.IdleTimeout())
}
