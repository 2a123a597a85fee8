package handlers

import (
	"log/slog"

	"github.com/edgard/aichat/internal/config"
	"github.com/edgard/aichat/internal/gate"
)

// HandlerDeps provides dependencies for Telegram command and message handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Gate   *gate.Gate
}
