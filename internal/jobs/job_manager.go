package jobs

import (
	"fmt"
	"time"

	"labconsole/internal/core/application/usecases/commands"

	"github.com/rs/zerolog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	workspaceSweepJob *WorkspaceSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	sweepHandler commands.SweepIdleWorkspacesCommandHandler,
	sweepSchedule string,
	idleTimeout time.Duration,
	logger zerolog.Logger,
) *JobManager {
	return &JobManager{
		workspaceSweepJob: NewWorkspaceSweepJob(sweepHandler, sweepSchedule, idleTimeout, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.workspaceSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start workspace sweep job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.workspaceSweepJob.Stop()
}
