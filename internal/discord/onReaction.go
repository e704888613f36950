package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/reactionrole"
)

// isBotUser reports whether a reacting user is this bot or any other
// bot, consulting the member state cache when the event itself carries
// no member payload.
func (a *App) isBotUser(s *discordgo.Session, guildID, userID string) bool {
	if userID == s.State.User.ID {
		return true
	}
	if m, err := s.State.Member(guildID, userID); err == nil && m.User != nil {
		return m.User.Bot
	}
	return false
}

func (a *App) onReactionAdd(s *discordgo.Session, ev *discordgo.MessageReactionAdd) {
	bot := a.isBotUser(s, ev.GuildID, ev.UserID)
	if ev.Member != nil && ev.Member.User != nil {
		bot = bot || ev.Member.User.Bot
	}
	a.dispatcher.HandleAdd(reactionrole.Event{
		MessageID: ev.MessageID,
		GuildID:   ev.GuildID,
		UserID:    ev.UserID,
		Emoji:     ev.Emoji.Name,
		Bot:       bot,
	})
}

func (a *App) onReactionRemove(s *discordgo.Session, ev *discordgo.MessageReactionRemove) {
	// Remove events carry no member payload, so only the state cache can
	// spot another bot un-reacting.
	a.dispatcher.HandleRemove(reactionrole.Event{
		MessageID: ev.MessageID,
		GuildID:   ev.GuildID,
		UserID:    ev.UserID,
		Emoji:     ev.Emoji.Name,
		Bot:       a.isBotUser(s, ev.GuildID, ev.UserID),
	})
}
