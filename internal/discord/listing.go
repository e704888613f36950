package discord

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/minetrade-gg/minetrade-bot/internal/listings"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/metrics"
	"github.com/minetrade-gg/minetrade-bot/internal/skyblock"
)

// profileSelectWindow is how long a /list invocation waits for the seller
// to pick one of several SkyBlock profiles before giving up.
const profileSelectWindow = 60 * time.Second

func newListCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "list",
		Description: "List a Hypixel SkyBlock account for sale.",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "account", Description: "Minecraft username of the account", Required: true},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "price", Description: "Price in USD", Required: true},
			{Type: discordgo.ApplicationCommandOptionUser, Name: "listedby", Description: "Who is listing the account?", Required: true},
		},
	}
}

func (a *App) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		logging.L().Warn("list defer failed", "error", err)
		return
	}

	opts := i.ApplicationCommandData().Options
	mcName := strings.TrimSpace(opts[0].StringValue())
	price := opts[1].IntValue()
	listedBy := opts[2].UserValue(s)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := make([]byte, 8192)
				n := runtime.Stack(stack, false)
				logging.L().Error("list command panic", "recover", r, "stack", string(stack[:n]))
				a.editResponse(i, "Internal error during list command, please try again later.")
			}
		}()

		profile, err := a.Mojang.Lookup(mcName)
		if err != nil {
			a.editResponse(i, "❌ Invalid Minecraft username or player not found.")
			return
		}

		profiles, err := a.SkyBlock.Profiles(profile.UUID)
		if err != nil {
			logging.L().Warn("skycrypt fetch failed", "username", mcName, "uuid", profile.UUID, "error", err)
			a.editResponse(i, "⚠️ No SkyBlock data found for this player. Maybe API access is off or profile is private.")
			return
		}

		chosen := profiles[0]
		if len(profiles) > 1 {
			picked, ok := a.promptProfile(i, profiles)
			if !ok {
				return
			}
			chosen = picked
		}

		a.postListing(i, profile.Username, profile.UUID, chosen, price, listedBy.ID)
	}()
}

// promptProfile edits the deferred response into a dropdown of profile
// names and waits for the seller's choice. The prompt auto-concludes
// after profileSelectWindow; the message is edited to say no selection
// was made and the command ends.
func (a *App) promptProfile(i *discordgo.InteractionCreate, profiles []skyblock.Profile) (skyblock.Profile, bool) {
	token := uuid.NewString()
	ch := make(chan string, 1)

	a.selectMu.Lock()
	a.selects[token] = ch
	a.selectMu.Unlock()
	defer func() {
		a.selectMu.Lock()
		delete(a.selects, token)
		a.selectMu.Unlock()
	}()

	options := make([]discordgo.SelectMenuOption, 0, len(profiles))
	for _, p := range profiles {
		label := p.Name
		if label == "" {
			label = p.ID
		}
		options = append(options, discordgo.SelectMenuOption{
			Label:       label,
			Value:       p.ID,
			Description: fmt.Sprintf("Level %.0f, skill avg %.2f", p.Level, p.SkillAverage),
		})
	}

	content := "This player has multiple SkyBlock profiles. Pick one to list:"
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType: discordgo.StringSelectMenu,
				CustomID: "listing_profile|" + token,
				Options:  options,
			},
		}},
	}
	if _, err := a.Session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Components: &components,
	}); err != nil {
		logging.L().Error("profile prompt edit failed", "error", err)
		return skyblock.Profile{}, false
	}

	tmr := time.NewTimer(profileSelectWindow)
	defer tmr.Stop()

	select {
	case picked := <-ch:
		for _, p := range profiles {
			if p.ID == picked {
				return p, true
			}
		}
		// Value came from our own options, so this should not happen.
		return profiles[0], true

	case <-tmr.C:
		a.editResponse(i, "⌛ No profile selected in time. Listing cancelled.")
		return skyblock.Profile{}, false
	}
}

func (a *App) handleProfileSelect(i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	token := strings.TrimPrefix(data.CustomID, "listing_profile|")
	if len(data.Values) == 0 {
		return
	}

	a.selectMu.Lock()
	ch := a.selects[token]
	delete(a.selects, token)
	a.selectMu.Unlock()

	_ = a.Session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if ch != nil {
		ch <- data.Values[0]
	} else {
		logging.L().Debug("profile select for expired prompt", "token", token)
	}
}

// postListing renders the listing embed with its buttons over the
// deferred response and records the listing row.
func (a *App) postListing(i *discordgo.InteractionCreate, username, mcUUID string, p skyblock.Profile, price int64, listedByID string) {
	embed := a.buildListingEmbed(username, p, price, listedByID)
	content := ""
	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{CustomID: "listing_buy", Label: "💵 Buy", Style: discordgo.SuccessButton},
			discordgo.Button{CustomID: "listing_update", Label: "🔄 Update Stats", Style: discordgo.PrimaryButton},
			discordgo.Button{CustomID: "listing_unlist", Label: "🗑️ Unlist", Style: discordgo.DangerButton},
		}},
	}
	msg, err := a.Session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		logging.L().Error("listing post failed", "username", username, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	id, err := a.Listings.Add(ctx, listings.Listing{
		MessageID:     msg.ID,
		ChannelID:     msg.ChannelID,
		Username:      username,
		MinecraftUUID: mcUUID,
		ProfileName:   p.Name,
		PriceUSD:      price,
		ListedByID:    listedByID,
	})
	if err != nil {
		logging.L().Error("listing row insert failed", "username", username, "message_id", msg.ID, "error", err)
		return
	}

	metrics.ListingsCreated.Inc()
	a.publish("listing_created", fmt.Sprintf("%s listed for $%d", username, price))
	logging.L().Info("listing created", "listing_id", id, "username", username, "price_usd", price)
}

func (a *App) buildListingEmbed(username string, p skyblock.Profile, price int64, listedByID string) *discordgo.MessageEmbed {
	bosses := make([]string, 0, len(p.SlayerXP))
	for boss := range p.SlayerXP {
		bosses = append(bosses, boss)
	}
	sort.Strings(bosses)
	var slayerLines []string
	for _, boss := range bosses {
		slayerLines = append(slayerLines, fmt.Sprintf("%s: %.0fk XP", boss, p.SlayerXP[boss]/1000))
	}
	slayerList := "N/A"
	if len(slayerLines) > 0 {
		slayerList = strings.Join(slayerLines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:     "💎 Account Information",
		Color:     0xFFD700,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: "https://mc-heads.net/avatar/" + username},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎮 Account", Value: "`" + username + "`", Inline: true},
			{Name: "🧠 Skill Average", Value: fmt.Sprintf("%.2f", p.SkillAverage), Inline: true},
			{Name: "🏰 Catacombs", Value: fmt.Sprintf("%.2f", p.Catacombs), Inline: true},
			{Name: "⚔️ Slayers", Value: slayerList},
			{Name: "💰 Networth", Value: formatNumber(p.Networth) + " Coins", Inline: true},
			{Name: "📈 Level", Value: fmt.Sprintf("%.0f", p.Level), Inline: true},
			{Name: "💵 Price", Value: fmt.Sprintf("$%d", price), Inline: true},
			{Name: "📋 Listed by", Value: "<@" + listedByID + ">", Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text:    "MineTrade | SkyCrypt Verified",
			IconURL: a.Cfg.FooterIcon,
		},
	}
}

func (a *App) handleListingBuy(i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l, err := a.Listings.GetByMessage(ctx, i.Message.ID)
	if err != nil || l == nil || !l.Active {
		a.reply(i, "❌ This listing is no longer available.", true)
		return
	}

	name := fmt.Sprintf("buy-%s-%s", strings.ToLower(l.Username), strings.ToLower(i.Member.User.Username))
	topic := fmt.Sprintf("Purchase ticket for listing %s (%s, $%d)", l.ID, l.Username, l.PriceUSD)
	ch, err := a.createTicketChannel(i.GuildID, i.Member.User.ID, name, topic)
	if err != nil {
		logging.L().Error("buy ticket create failed", "listing_id", l.ID, "error", err)
		a.reply(i, "❌ Could not open a purchase ticket.", true)
		return
	}

	_, _ = a.Session.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "💵 Purchase Request",
			Description: fmt.Sprintf("<@%s> wants to buy **%s** (profile %s) for **$%d**.\nListed by <@%s>.",
				i.Member.User.ID, l.Username, l.ProfileName, l.PriceUSD, l.ListedByID),
			Color:  0xFFD700,
			Footer: &discordgo.MessageEmbedFooter{Text: "MineTrade | Marketplace", IconURL: a.Cfg.FooterIcon},
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: "close_ticket", Label: "🔒 Close Ticket", Style: discordgo.SecondaryButton},
			}},
		},
	})

	a.publish("listing_buy", fmt.Sprintf("%s opened a purchase ticket for %s", i.Member.User.Username, l.Username))
	a.reply(i, fmt.Sprintf("✅ Purchase ticket created: <#%s>", ch.ID), true)
}

func (a *App) handleListingUpdate(i *discordgo.InteractionCreate) {
	if err := a.Session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		l, err := a.Listings.GetByMessage(ctx, i.Message.ID)
		if err != nil || l == nil || !l.Active {
			a.editResponse(i, "❌ This listing is no longer available.")
			return
		}

		profiles, err := a.SkyBlock.Profiles(l.MinecraftUUID)
		if err != nil {
			a.editResponse(i, "⚠️ Could not refresh SkyBlock data right now.")
			return
		}
		chosen := profiles[0]
		for _, p := range profiles {
			if p.Name == l.ProfileName {
				chosen = p
				break
			}
		}

		embed := a.buildListingEmbed(l.Username, chosen, l.PriceUSD, l.ListedByID)
		if _, err := a.Session.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel: l.ChannelID,
			ID:      l.MessageID,
			Embeds:  &[]*discordgo.MessageEmbed{embed},
		}); err != nil {
			logging.L().Error("listing stats refresh edit failed", "listing_id", l.ID, "error", err)
			a.editResponse(i, "❌ Could not update the listing message.")
			return
		}
		a.editResponse(i, "🔄 Stats updated.")
	}()
}

func (a *App) handleListingUnlist(i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l, err := a.Listings.GetByMessage(ctx, i.Message.ID)
	if err != nil || l == nil {
		a.reply(i, "❌ This message is not a tracked listing.", true)
		return
	}

	isAdmin := i.Member.Permissions&discordgo.PermissionAdministrator != 0
	if i.Member.User.ID != l.ListedByID && !isAdmin {
		a.reply(i, "🚫 Only the lister or an administrator can unlist this account.", true)
		return
	}

	if err := a.Session.ChannelMessageDelete(l.ChannelID, l.MessageID); err != nil {
		logging.L().Warn("listing message delete failed", "listing_id", l.ID, "error", err)
	}
	if err := a.Listings.Deactivate(ctx, l.ID); err != nil {
		a.reply(i, "❌ Could not unlist.", true)
		return
	}
	a.publish("listing_removed", l.Username+" was unlisted")
	a.reply(i, fmt.Sprintf("🗑️ `%s` has been unlisted.", l.Username), true)
}

func (a *App) editResponse(i *discordgo.InteractionCreate, msg string) {
	empty := []discordgo.MessageComponent{}
	if _, err := a.Session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:    &msg,
		Components: &empty,
	}); err != nil {
		logging.L().Error("response edit failed", "error", err)
	}
}
