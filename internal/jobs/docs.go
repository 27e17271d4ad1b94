// Package jobs provides scheduled background tasks for the lab console.
//
// Jobs are cron-based, using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// WorkspaceSweepJob closes review workspaces that have been idle for longer
// than the configured timeout, releasing their drafts and cached history.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(sweepHandler, "@every 1m", 30*time.Minute, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed sweep is logged and retried on the next tick.
package jobs
