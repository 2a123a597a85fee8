package tasks

import (
	"context"

	"github.com/edgard/aichat/internal/config"
)

// ScheduledTaskFunc defines the signature of all scheduled tasks. The
// context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the available tasks keyed by the name used in the
// scheduler configuration. Journal tasks are only available with a Store.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	if deps.Tracker != nil {
		tasks[config.TaskContextSweep] = newContextSweepTask(deps)
	}
	if deps.Store != nil {
		tasks[config.TaskJournalPrune] = newJournalPruneTask(deps)
		tasks[config.TaskSQLMaintenance] = newSQLMaintenanceTask(deps)
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
