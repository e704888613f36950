// Package audit mirrors administrative actions to a staff log channel
// through a Discord webhook. When no webhook URL is configured every call
// is a no-op, so callers never need to guard their log lines.
package audit

import (
	"fmt"

	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
	"github.com/rotaria-smp/discordwebhook"
)

type Logger struct {
	url string
}

func New(webhookURL string) *Logger {
	return &Logger{url: webhookURL}
}

// Log posts "actor: action" to the staff channel.
func (l *Logger) Log(actor, action string) {
	if l.url == "" {
		return
	}
	flag := discordwebhook.MessageFlagSuppressNotifications
	username := "MineTrade Dashboard"
	content := fmt.Sprintf("📋 **%s** %s", actor, action)
	msg := discordwebhook.Message{
		Content:  &content,
		Username: &username,
		Flags:    &flag,
	}
	if err := discordwebhook.SendMessage(l.url, msg); err != nil {
		logging.L().Error("audit webhook send failed", "error", err, "actor", actor, "action", action)
	}
}
