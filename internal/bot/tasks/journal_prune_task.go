package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/aichat/internal/config"
)

const journalPruneTimeout = 2 * time.Minute

// newJournalPruneTask creates the task that deletes exchanges older than the
// configured retention.
func newJournalPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", config.TaskJournalPrune)

	return func(ctx context.Context) error {
		timeoutCtx, cancel := context.WithTimeout(ctx, journalPruneTimeout)
		defer cancel()

		cutoff := time.Now().Add(-deps.Config.Journal.Retention)
		deleted, err := deps.Store.DeleteExchangesBefore(timeoutCtx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Journal prune failed", "error", err, "cutoff", cutoff)
			return fmt.Errorf("journal prune failed: %w", err)
		}

		log.InfoContext(ctx, "Pruned journal", "deleted", deleted, "cutoff", cutoff)
		return nil
	}
}
