package tasks

import (
	"context"

	"github.com/edgard/aichat/internal/config"
)

// newContextSweepTask creates the task that drops expired reply context.
func newContextSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", config.TaskContextSweep)

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		removed := deps.Tracker.Sweep()
		log.InfoContext(ctx, "Swept expired reply context", "removed", removed, "remaining", deps.Tracker.Len())
		return nil
	}
}
