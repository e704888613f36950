package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
)

func newStatsCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "skyblockstats",
		Description: "Fetch a player's SkyBlock profile data",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "username", Description: "Minecraft username", Required: true},
		},
	}
}

func (a *App) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		logging.L().Warn("skyblockstats defer failed", "error", err)
		return
	}

	username := strings.TrimSpace(i.ApplicationCommandData().Options[0].StringValue())

	go func() {
		mcUUID, err := a.Mojang.UsernameToUUID(username)
		if err != nil {
			a.editResponse(i, fmt.Sprintf("❌ Username %q not found.", username))
			return
		}

		profiles, err := a.SkyBlock.HypixelProfiles(mcUUID)
		if err != nil {
			logging.L().Warn("hypixel fetch failed", "username", username, "uuid", mcUUID, "error", err)
			a.editResponse(i, "❌ "+err.Error())
			return
		}

		p := profiles[0]
		weight := "N/A"
		if p.Weight > 0 {
			weight = fmt.Sprintf("%.2f", p.Weight)
		}
		a.editResponse(i, fmt.Sprintf(
			"📊 SkyBlock data for **%s**:\n• Profile: %s\n• Weight: %s",
			username, p.ProfileName, weight,
		))
	}()
}
