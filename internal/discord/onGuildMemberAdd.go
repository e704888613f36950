package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
)

func (a *App) onGuildMemberAdd(s *discordgo.Session, ev *discordgo.GuildMemberAdd) {
	if a.Cfg.WelcomeChannelID == "" || (a.Cfg.GuildID != "" && ev.GuildID != a.Cfg.GuildID) {
		return
	}

	verifyMention := "#✅・verify"
	rulesMention := "#rules"
	if channels, err := s.GuildChannels(ev.GuildID); err == nil {
		for _, ch := range channels {
			if ch.Type != discordgo.ChannelTypeGuildText {
				continue
			}
			if strings.Contains(ch.Name, "verify") && verifyMention == "#✅・verify" {
				verifyMention = "<#" + ch.ID + ">"
			}
			if strings.Contains(ch.Name, "rules") && rulesMention == "#rules" {
				rulesMention = "<#" + ch.ID + ">"
			}
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: "👋 Welcome to MineTrade!",
		Color: 0xFFD700,
		Description: fmt.Sprintf(
			"Hey <@%s>, welcome to **MineTrade**!\n\n"+
				"We're glad to have you here. Please make sure to:\n"+
				"✅ Verify yourself in %s\n"+
				"📜 Read the rules in %s\n\n"+
				"We hope you enjoy our service 💎",
			ev.User.ID, verifyMention, rulesMention),
		Footer: &discordgo.MessageEmbedFooter{Text: "MineTrade | Welcome System", IconURL: a.Cfg.FooterIcon},
	}

	if _, err := s.ChannelMessageSendEmbed(a.Cfg.WelcomeChannelID, embed); err != nil {
		logging.L().Error("welcome message send failed", "user_id", ev.User.ID, "error", err)
	}
}
