package gate

import (
	"strings"
	"unicode"
)

// Command names, used after the command prefix.
const (
	CommandEnable  = "set"
	CommandDisable = "unset"
)

// ParseCommand returns the command name of text when it starts with prefix.
// The name is the first word after the prefix. A Telegram style "@botname"
// suffix is stripped when it names botUsername; a suffix naming any other
// bot means the command is not addressed to us.
func ParseCommand(prefix, botUsername, text string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return "", false
	}
	rest := text[len(prefix):]
	if rest == "" || unicode.IsSpace([]rune(rest)[0]) {
		return "", false
	}
	name := strings.Fields(rest)[0]
	if at := strings.IndexByte(name, '@'); at > 0 {
		if !strings.EqualFold(name[at+1:], botUsername) {
			return "", false
		}
		name = name[:at]
	}
	return name, true
}
