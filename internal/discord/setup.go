package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
)

// slayerSet describes one slayer boss whose carry tiers get a role and a
// panel each.
type slayerSet struct {
	Boss    string
	Color   int
	MaxTier int
}

var slayerSets = []slayerSet{
	{Boss: "Revenant", Color: 0x2ECC71, MaxTier: 5},
	{Boss: "Tarantula", Color: 0x2C2F33, MaxTier: 5},
	{Boss: "Sven", Color: 0xBDC3C7, MaxTier: 4},
	{Boss: "Enderman", Color: 0x4B0082, MaxTier: 4},
	{Boss: "Blaze", Color: 0xE67E22, MaxTier: 4},
	{Boss: "Vampire", Color: 0xC0392B, MaxTier: 5},
}

func newSetupRolesCommand(perm int64) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "setuproles",
		Description:              "Create all Slayer Tier roles automatically",
		DefaultMemberPermissions: &perm,
	}
}

func newSetupPanelsCommand(perm int64) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "setuppanels",
		Description:              "Setup Slayer panels and categories automatically",
		DefaultMemberPermissions: &perm,
	}
}

func (a *App) handleSetupRoles(i *discordgo.InteractionCreate) {
	if err := a.Session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		return
	}

	go func() {
		existing, err := a.Session.GuildRoles(i.GuildID)
		if err != nil {
			a.editResponse(i, "❌ Could not read guild roles: "+err.Error())
			return
		}
		byName := make(map[string]bool, len(existing))
		for _, r := range existing {
			byName[r.Name] = true
		}

		var lines []string
		for _, set := range slayerSets {
			for tier := 1; tier <= set.MaxTier; tier++ {
				roleName := fmt.Sprintf("Tier %d %s", tier, set.Boss)
				if byName[roleName] {
					lines = append(lines, "⚙️ Exists: "+roleName)
					continue
				}
				color := set.Color
				if _, err := a.Session.GuildRoleCreate(i.GuildID, &discordgo.RoleParams{
					Name:  roleName,
					Color: &color,
				}); err != nil {
					logging.L().Error("slayer role create failed", "role", roleName, "error", err)
					lines = append(lines, "❌ Failed: "+roleName)
					continue
				}
				lines = append(lines, "✅ Created: "+roleName)
			}
		}

		a.editResponse(i, "✅ **Slayer Roles Setup Complete!**\n\n"+strings.Join(lines, "\n"))
	}()
}

func (a *App) handleSetupPanels(i *discordgo.InteractionCreate) {
	if err := a.Session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		return
	}

	go func() {
		channels, err := a.Session.GuildChannels(i.GuildID)
		if err != nil {
			a.editResponse(i, "❌ Could not read guild channels: "+err.Error())
			return
		}

		for _, set := range slayerSets {
			categoryName := set.Boss + " Slayer"
			var category *discordgo.Channel
			for _, ch := range channels {
				if ch.Type == discordgo.ChannelTypeGuildCategory && ch.Name == categoryName {
					category = ch
					break
				}
			}
			if category == nil {
				category, err = a.Session.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
					Name: categoryName,
					Type: discordgo.ChannelTypeGuildCategory,
				})
				if err != nil {
					logging.L().Error("slayer category create failed", "category", categoryName, "error", err)
					continue
				}
			}

			panelChannelName := strings.ToLower(set.Boss) + "-slayer"
			var panelChannel *discordgo.Channel
			for _, ch := range channels {
				if ch.Type == discordgo.ChannelTypeGuildText && strings.Contains(ch.Name, panelChannelName) {
					panelChannel = ch
					break
				}
			}
			if panelChannel == nil {
				continue
			}

			row := discordgo.ActionsRow{}
			for tier := 1; tier <= set.MaxTier; tier++ {
				row.Components = append(row.Components, discordgo.Button{
					CustomID: fmt.Sprintf("open_ticket_%s_%d", strings.ToLower(set.Boss), tier),
					Label:    fmt.Sprintf("Tier %d", tier),
					Style:    discordgo.PrimaryButton,
				})
			}

			if _, err := a.Session.ChannelMessageSendComplex(panelChannel.ID, &discordgo.MessageSend{
				Embeds: []*discordgo.MessageEmbed{{
					Title:       set.Boss + " Slayer Carry Panel",
					Description: "Select your Tier to open a ticket!",
					Color:       set.Color,
					Footer:      &discordgo.MessageEmbedFooter{Text: "MineTrade | " + set.Boss + " Slayer Panel"},
				}},
				Components: []discordgo.MessageComponent{row},
			}); err != nil {
				logging.L().Error("slayer panel send failed", "boss", set.Boss, "error", err)
			}
		}

		a.editResponse(i, "✅ Slayer panels and categories have been created successfully!")
	}()
}
