// Package tasks implements the scheduled maintenance tasks of the bot.
package tasks

import (
	"log/slog"

	"github.com/edgard/aichat/internal/config"
	"github.com/edgard/aichat/internal/database"
	"github.com/edgard/aichat/internal/gate"
)

// TaskDeps contains the dependencies of scheduled tasks. Store is nil when
// the journal is disabled.
type TaskDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Tracker *gate.Tracker
	Store   database.Store
}
