package jobs

import (
	"context"
	"time"

	"labconsole/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSweepSchedule runs the sweep once a minute.
const DefaultSweepSchedule = "@every 1m"

// WorkspaceSweepJob closes workspaces nobody has touched for IdleTimeout.
type WorkspaceSweepJob struct {
	handler     commands.SweepIdleWorkspacesCommandHandler
	schedule    string
	idleTimeout time.Duration
	cron        *cron.Cron
	logger      zerolog.Logger
}

// NewWorkspaceSweepJob creates the sweep job. An empty schedule falls back to
// DefaultSweepSchedule; six-field cron expressions and descriptors are accepted.
func NewWorkspaceSweepJob(
	handler commands.SweepIdleWorkspacesCommandHandler,
	schedule string,
	idleTimeout time.Duration,
	logger zerolog.Logger,
) *WorkspaceSweepJob {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &WorkspaceSweepJob{
		handler:     handler,
		schedule:    schedule,
		idleTimeout: idleTimeout,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With().Str("component", "workspace_sweep_job").Logger(),
	}
}

// Start schedules the sweep and starts the cron runner.
func (j *WorkspaceSweepJob) Start() error {
	cmd, err := commands.NewSweepIdleWorkspacesCommand(j.idleTimeout)
	if err != nil {
		return err
	}

	if _, err = j.cron.AddFunc(j.schedule, func() { j.run(context.Background(), cmd) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info().Str("schedule", j.schedule).Dur("idle_timeout", j.idleTimeout).Msg("Workspace sweep job started")
	return nil
}

// Stop stops the runner and waits for a sweep in progress to finish.
func (j *WorkspaceSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info().Msg("Workspace sweep job stopped")
}

func (j *WorkspaceSweepJob) run(ctx context.Context, cmd commands.SweepIdleWorkspacesCommand) {
	closed, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error().Err(err).Int("closed", closed).Msg("Workspace sweep failed")
		return
	}
	if closed > 0 {
		j.logger.Info().Int("closed", closed).Msg("Idle workspaces closed")
	}
}
