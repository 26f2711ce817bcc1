package chat

import "strings"

// Speaker prefixes for conversation turns.
const (
	UserPrefix = "User: "
	BotPrefix  = "Bot: "
)

// WindowSize is the number of most recent turns included as prompt context.
const WindowSize = 5

// UserTurn formats a user message as a history entry.
func UserTurn(content string) string { return UserPrefix + content }

// BotTurn formats a bot reply as a history entry.
func BotTurn(content string) string { return BotPrefix + content }

// Window returns a copy of the last n entries of history.
func Window(history []string, n int) []string {
	if n < 1 || len(history) == 0 {
		return nil
	}
	start := len(history) - n
	if start < 0 {
		start = 0
	}
	return append([]string(nil), history[start:]...)
}

// Format joins history entries one per line.
func Format(history []string) string {
	return strings.Join(history, "\n")
}
