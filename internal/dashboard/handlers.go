package dashboard

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/reactionrole"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
)

// handleSendEmbed broadcasts an announcement embed to the chosen channel,
// with an optional restock ping line in front of it.
func (s *Server) handleSendEmbed(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	channelID := req.PostFormValue("channelId")
	title := req.PostFormValue("title")
	description := req.PostFormValue("description")
	color := req.PostFormValue("color")
	footer := req.PostFormValue("footer")
	restock := req.PostFormValue("restock") == "on"

	if _, err := s.bot.Channel(channelID); err != nil {
		fmt.Fprint(w, "❌ Channel not found")
		return
	}

	if title == "" {
		title = "Untitled Embed"
	}
	if footer == "" {
		footer = "MineTrade | Embed System"
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       reactionrole.ParseColor(color),
		Footer:      &discordgo.MessageEmbedFooter{Text: footer, IconURL: s.cfg.FooterIcon},
	}

	if restock && s.cfg.RestockRoleID != "" {
		if _, err := s.bot.ChannelMessageSend(channelID, fmt.Sprintf("<@&%s> 🔔 **Restock Alert!**", s.cfg.RestockRoleID)); err != nil {
			logging.L().Error("restock ping send failed", "channel_id", channelID, "error", err)
		}
	}
	if _, err := s.bot.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logging.L().Error("embed broadcast failed", "channel_id", channelID, "error", err)
		http.Error(w, "Error sending embed", http.StatusInternalServerError)
		return
	}

	actor := identityFrom(req.Context()).Username
	s.audit.Log(actor, fmt.Sprintf("sent embed %q to <#%s>", title, channelID))
	s.feed.Publish("embed_sent", actor+" broadcast an embed")
	s.render(w, req, "✅ Embed sent successfully!")
}

func (s *Server) handleReactionRoleCreate(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	r := reactionrole.Request{
		ChannelID:   req.PostFormValue("channelId"),
		Title:       req.PostFormValue("title"),
		Description: req.PostFormValue("description"),
		Color:       req.PostFormValue("color"),
		Footer:      req.PostFormValue("footer"),
		Pairs:       parsePairs(req.PostForm),
	}

	messageID, err := s.manager.Create(r)
	if err != nil {
		if errors.Is(err, reactionrole.ErrNoPairs) {
			fmt.Fprint(w, "❌ No emoji-role pairs.")
			return
		}
		logging.L().Error("reaction role create failed", "channel_id", r.ChannelID, "error", err)
		http.Error(w, "Error creating reaction role", http.StatusInternalServerError)
		return
	}

	actor := identityFrom(req.Context()).Username
	s.audit.Log(actor, fmt.Sprintf("created reaction role message %s in <#%s>", messageID, r.ChannelID))
	s.feed.Publish("reaction_role_created", actor+" created a reaction role message")
	s.render(w, req, "✅ Reaction Role message created!")
}

func (s *Server) handleReactionRoleUpdate(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	messageID := req.PostFormValue("messageId")

	r := reactionrole.Request{
		Title:       req.PostFormValue("title"),
		Description: req.PostFormValue("description"),
		Color:       req.PostFormValue("color"),
		Footer:      req.PostFormValue("footer"),
		Pairs:       parsePairs(req.PostForm),
	}

	if err := s.manager.Update(messageID, r); err != nil {
		switch {
		case errors.Is(err, reactionrole.ErrUnknownMessage):
			fmt.Fprint(w, "❌ Unknown message ID.")
		case errors.Is(err, reactionrole.ErrNoPairs):
			fmt.Fprint(w, "❌ No emoji-role pairs.")
		default:
			logging.L().Error("reaction role update failed", "message_id", messageID, "error", err)
			http.Error(w, "Error updating reaction role", http.StatusInternalServerError)
		}
		return
	}

	actor := identityFrom(req.Context()).Username
	s.audit.Log(actor, "updated reaction role message "+messageID)
	http.Redirect(w, req, "/dashboard", http.StatusFound)
}

func (s *Server) handleReactionRoleDelete(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	messageID := req.PostFormValue("messageId")

	if err := s.manager.Delete(messageID); err != nil {
		if errors.Is(err, reactionrole.ErrUnknownMessage) {
			fmt.Fprint(w, "❌ Unknown message ID.")
			return
		}
		// Config is gone even when the chat message refused to die;
		// report without pretending the cleanup failed entirely.
		logging.L().Warn("reaction role delete reported error", "message_id", messageID, "error", err)
		fmt.Fprint(w, "Error deleting message.")
		return
	}

	actor := identityFrom(req.Context()).Username
	s.audit.Log(actor, "deleted reaction role message "+messageID)
	http.Redirect(w, req, "/dashboard", http.StatusFound)
}
