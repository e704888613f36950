package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
)

// ticketDetails derives the channel name and topic for a ticket. An
// empty or malformed suffix is a plain support ticket; a "<boss>_<tier>"
// suffix comes from a slayer carry panel.
func ticketDetails(suffix, username string) (name, topic string) {
	name = "ticket-" + strings.ToLower(username)
	topic = "Support ticket for " + username
	if suffix == "" {
		return name, topic
	}
	parts := strings.SplitN(suffix, "_", 2)
	if len(parts) != 2 || parts[0] == "" {
		return name, topic
	}
	// Boss names are single lowercase ASCII words from the panel IDs.
	boss := strings.ToUpper(parts[0][:1]) + parts[0][1:]
	name = fmt.Sprintf("%s-t%s-%s", parts[0], parts[1], strings.ToLower(username))
	topic = fmt.Sprintf("%s slayer tier %s carry for %s", boss, parts[1], username)
	return name, topic
}

// handleTicketOpen creates a private ticket channel for the pressing
// user.
func (a *App) handleTicketOpen(i *discordgo.InteractionCreate, suffix string) {
	user := i.Member.User
	name, topic := ticketDetails(suffix, user.Username)

	// One open ticket per user per kind.
	channels, err := a.Session.GuildChannels(i.GuildID)
	if err == nil {
		for _, ch := range channels {
			if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == name {
				a.reply(i, fmt.Sprintf("❌ You already have an open ticket: <#%s>", ch.ID), true)
				return
			}
		}
	}

	ch, err := a.createTicketChannel(i.GuildID, user.ID, name, topic)
	if err != nil {
		logging.L().Error("ticket channel create failed", "name", name, "user_id", user.ID, "error", err)
		a.reply(i, "❌ Could not create a ticket channel.", true)
		return
	}

	_, _ = a.Session.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "🎟️ MineTrade Support Ticket",
			Description: fmt.Sprintf(
				"Hello <@%s>, 👋\n\nPlease describe your issue below. A support member will assist you shortly.\n\nClick **🔒 Close Ticket** when you're done.",
				user.ID),
			Color:  0xFFD700,
			Footer: &discordgo.MessageEmbedFooter{Text: "MineTrade | Support", IconURL: a.Cfg.FooterIcon},
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "close_ticket", Label: "🔒 Close Ticket", Style: discordgo.SecondaryButton},
			}},
		},
	})

	a.publish("ticket_opened", user.Username+" opened "+name)
	a.reply(i, fmt.Sprintf("✅ Your support ticket has been created: <#%s>", ch.ID), true)
}

func (a *App) createTicketChannel(guildID, userID, name, topic string) (*discordgo.Channel, error) {
	return a.Session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		Topic:    topic,
		ParentID: a.Cfg.TicketCategoryID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:   guildID, // @everyone
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
			{
				ID:    userID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionAttachFiles,
			},
		},
	})
}

func (a *App) handleTicketClose(i *discordgo.InteractionCreate) {
	_ = a.Session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Are you sure you want to close this ticket?",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.Button{CustomID: "confirm_close", Label: "✅ Confirm Close", Style: discordgo.DangerButton},
					discordgo.Button{CustomID: "cancel_close", Label: "❌ Cancel", Style: discordgo.SecondaryButton},
				}},
			},
		},
	})
}

func (a *App) handleTicketConfirmClose(i *discordgo.InteractionCreate) {
	a.reply(i, "🔒 Ticket closed successfully.", true)
	if _, err := a.Session.ChannelDelete(i.ChannelID); err != nil {
		logging.L().Error("ticket channel delete failed", "channel_id", i.ChannelID, "error", err)
	}
	a.publish("ticket_closed", i.Member.User.Username+" closed a ticket")
}

// handleVerify grants the verified role, matched by display name so the
// staff can restyle it without touching the bot config.
func (a *App) handleVerify(i *discordgo.InteractionCreate) {
	const verifiedRoleName = "💎 Verified"

	roles, err := a.Session.GuildRoles(i.GuildID)
	if err != nil {
		a.reply(i, "⚠️ Error checking roles.", true)
		return
	}
	var verified *discordgo.Role
	for _, r := range roles {
		if r.Name == verifiedRoleName {
			verified = r
			break
		}
	}
	if verified == nil {
		a.reply(i, "❌ The '💎 Verified' role doesn't exist! Please create it first.", true)
		return
	}

	for _, rid := range i.Member.Roles {
		if rid == verified.ID {
			a.reply(i, "✅ You are already verified!", true)
			return
		}
	}

	if err := a.Session.GuildMemberRoleAdd(i.GuildID, i.Member.User.ID, verified.ID); err != nil {
		logging.L().Error("verify role grant failed", "user_id", i.Member.User.ID, "role_id", verified.ID, "error", err)
		a.reply(i, "⚠️ Could not verify you right now.", true)
		return
	}
	a.publish("member_verified", i.Member.User.Username+" verified")
	a.reply(i, "💎 You have been verified successfully! Welcome to MineTrade.", true)
}
