package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/metrics"
)

func (a *App) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		metrics.CommandsHandled.WithLabelValues(name).Inc()
		switch name {
		case "list":
			a.handleList(s, i)
		case "skyblockstats":
			a.handleStats(s, i)
		case "setuproles":
			a.handleSetupRoles(i)
		case "setuppanels":
			a.handleSetupPanels(i)
		}
	case discordgo.InteractionMessageComponent:
		c := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(c, "listing_profile|"):
			a.handleProfileSelect(i)
		case c == "listing_buy":
			a.handleListingBuy(i)
		case c == "listing_update":
			a.handleListingUpdate(i)
		case c == "listing_unlist":
			a.handleListingUnlist(i)
		case c == "create_support_ticket":
			a.handleTicketOpen(i, "")
		case strings.HasPrefix(c, "open_ticket_"):
			a.handleTicketOpen(i, strings.TrimPrefix(c, "open_ticket_"))
		case c == "close_ticket":
			a.handleTicketClose(i)
		case c == "confirm_close":
			a.handleTicketConfirmClose(i)
		case c == "cancel_close":
			a.reply(i, "❎ Ticket closure cancelled.", true)
		case c == "verify_user":
			a.handleVerify(i)
		}
	}
}

func (a *App) reply(i *discordgo.InteractionCreate, msg string, eph bool) {
	flags := discordgo.MessageFlags(0)
	if eph {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = a.Session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: msg, Flags: flags},
	})
}
