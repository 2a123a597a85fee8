package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/aichat/internal/config"
	"github.com/edgard/aichat/internal/gate"
)

// RegisteredHandler describes one handler and how it is matched. When Match
// is set it takes precedence over HandlerType, Pattern and MatchType.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	MatchType   tgbot.MatchType
	Match       tgbot.MatchFunc
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
}

// RegisterAllCommands returns every handler of the bot keyed by name. Command
// and chat handlers match disjoint sets of messages.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	tg := &deps.Config.Telegram
	prefix := tg.CommandPrefix
	commands := map[string]tgbot.HandlerFunc{
		gate.CommandEnable:  NewSetHandler(deps),
		gate.CommandDisable: NewUnsetHandler(deps),
	}

	handlers := make(map[string]RegisteredHandler, len(commands)+1)
	humanOnly := []tgbot.Middleware{HumanOnly(deps)}
	for name, h := range commands {
		handlers[prefix+name] = RegisteredHandler{
			Pattern:    prefix + name,
			Match:      commandMatch(tg, name),
			Handler:    h,
			Middleware: humanOnly,
		}
	}

	handlers["chat"] = RegisteredHandler{
		Match: func(update *models.Update) bool {
			if update.Message == nil {
				return false
			}
			_, isCommand := commands[commandName(tg, update.Message)]
			return !isCommand
		},
		Handler: NewMessageHandler(deps),
	}

	return handlers
}

func commandMatch(tg *config.TelegramConfig, name string) tgbot.MatchFunc {
	return func(update *models.Update) bool {
		return update.Message != nil && commandName(tg, update.Message) == name
	}
}

// commandName reads the bot username at match time; BotInfo is filled after
// the handlers are built.
func commandName(tg *config.TelegramConfig, msg *models.Message) string {
	var username string
	if tg.BotInfo != nil {
		username = tg.BotInfo.Username
	}
	text, _ := messageContent(msg)
	name, _ := gate.ParseCommand(tg.CommandPrefix, username, text)
	return name
}
