package reactionrole

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// DefaultColor is MineTrade gold, used when the submitted color is absent
// or malformed.
const DefaultColor = 0xFFD700

// chatAPI is the slice of the Discord session the manager needs.
// *discordgo.Session satisfies it.
type chatAPI interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionsRemoveAll(channelID, messageID string, options ...discordgo.RequestOption) error
}

// repository is the store surface the manager mutates.
type repository interface {
	Get(messageID string) (Config, bool)
	Upsert(messageID string, cfg Config) error
	Remove(messageID string) error
}

// ErrNoPairs is returned when a submission carries no usable emoji/role
// pair after filtering.
var ErrNoPairs = errors.New("no emoji/role pairs")

// ErrUnknownMessage is returned for update/delete against a message the
// store does not manage.
var ErrUnknownMessage = errors.New("unknown message id")

// Request is one create or update submission from the dashboard.
type Request struct {
	ChannelID   string
	Title       string
	Description string
	Color       string
	Footer      string
	Pairs       []Pair
}

// Manager executes the administrator-facing reaction-role operations:
// post a new managed message, rewrite an existing one, or tear one down.
type Manager struct {
	Chat       chatAPI
	Store      repository
	FooterIcon string
	Log        *slog.Logger
}

// Create posts the embed, seeds one reaction per pair in submission
// order, and persists the config keyed by the new message's ID. A single
// failed reaction is logged and skipped; earlier reactions are not rolled
// back. If the store write fails the just-posted message is deleted so no
// unmanaged message is left behind.
func (m *Manager) Create(req Request) (string, error) {
	if len(req.Pairs) == 0 {
		return "", ErrNoPairs
	}

	channel, err := m.Chat.Channel(req.ChannelID)
	if err != nil {
		return "", fmt.Errorf("channel %s: %w", req.ChannelID, err)
	}

	msg, err := m.Chat.ChannelMessageSendComplex(req.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{m.render(req, "Reaction Roles", "React below to get roles!")},
	})
	if err != nil {
		return "", fmt.Errorf("send reaction role message: %w", err)
	}

	m.react(req.ChannelID, msg.ID, req.Pairs)

	cfg := Config{
		ChannelID:   req.ChannelID,
		ChannelName: channel.Name,
		Pairs:       req.Pairs,
		Embed:       EmbedMeta{Title: req.Title, Description: req.Description, Color: req.Color, Footer: req.Footer},
	}
	if err := m.Store.Upsert(msg.ID, cfg); err != nil {
		// Take the orphaned message back down; it would never grant roles.
		if delErr := m.Chat.ChannelMessageDelete(req.ChannelID, msg.ID); delErr != nil {
			m.Log.Error("cleanup of unpersisted reaction role message failed",
				"channel_id", req.ChannelID, "message_id", msg.ID, "error", delErr)
		}
		return "", fmt.Errorf("persist reaction role config: %w", err)
	}

	m.Log.Info("reaction role message created",
		"message_id", msg.ID, "channel_id", req.ChannelID, "pairs", len(req.Pairs))
	return msg.ID, nil
}

// Update re-renders the embed in place, clears every reaction, reattaches
// reactions for the new pair list, and replaces the stored entry
// wholesale.
func (m *Manager) Update(messageID string, req Request) error {
	cfg, ok := m.Store.Get(messageID)
	if !ok {
		return ErrUnknownMessage
	}
	if len(req.Pairs) == 0 {
		return ErrNoPairs
	}

	embeds := []*discordgo.MessageEmbed{m.render(req, "Reaction Roles", "")}
	if _, err := m.Chat.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: cfg.ChannelID,
		ID:      messageID,
		Embeds:  &embeds,
	}); err != nil {
		return fmt.Errorf("edit reaction role message: %w", err)
	}

	if err := m.Chat.MessageReactionsRemoveAll(cfg.ChannelID, messageID); err != nil {
		m.Log.Error("clearing reactions failed",
			"channel_id", cfg.ChannelID, "message_id", messageID, "error", err)
	}
	m.react(cfg.ChannelID, messageID, req.Pairs)

	cfg.Pairs = req.Pairs
	cfg.Embed = EmbedMeta{Title: req.Title, Description: req.Description, Color: req.Color, Footer: req.Footer}
	if err := m.Store.Upsert(messageID, cfg); err != nil {
		return fmt.Errorf("persist reaction role config: %w", err)
	}

	m.Log.Info("reaction role message updated", "message_id", messageID, "pairs", len(req.Pairs))
	return nil
}

// Delete removes the chat message, then drops the store entry. A message
// already deleted out-of-band does not block the store cleanup; the
// deletion error is reported after the entry is gone.
func (m *Manager) Delete(messageID string) error {
	cfg, ok := m.Store.Get(messageID)
	if !ok {
		return ErrUnknownMessage
	}

	delErr := m.Chat.ChannelMessageDelete(cfg.ChannelID, messageID)
	if err := m.Store.Remove(messageID); err != nil {
		return fmt.Errorf("remove reaction role config: %w", err)
	}
	if delErr != nil {
		m.Log.Warn("reaction role message delete failed; config removed anyway",
			"channel_id", cfg.ChannelID, "message_id", messageID, "error", delErr)
		return fmt.Errorf("delete reaction role message: %w", delErr)
	}

	m.Log.Info("reaction role message deleted", "message_id", messageID)
	return nil
}

func (m *Manager) react(channelID, messageID string, pairs []Pair) {
	for _, p := range pairs {
		if err := m.Chat.MessageReactionAdd(channelID, messageID, p.Emoji); err != nil {
			// The pair stays configured but will never fire; members
			// simply won't see the seed reaction for it.
			m.Log.Error("seeding reaction failed",
				"channel_id", channelID, "message_id", messageID, "emoji", p.Emoji, "error", err)
		}
	}
}

func (m *Manager) render(req Request, defTitle, defDesc string) *discordgo.MessageEmbed {
	title := req.Title
	if title == "" {
		title = defTitle
	}
	desc := req.Description
	if desc == "" {
		desc = defDesc
	}
	footer := req.Footer
	if footer == "" {
		footer = "MineTrade | Reaction Roles"
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: desc,
		Color:       ParseColor(req.Color),
		Footer:      &discordgo.MessageEmbedFooter{Text: footer, IconURL: m.FooterIcon},
	}
}

// ParseColor turns a hex color string, with or without a leading '#',
// into an embed color int. Absent or malformed input falls back to
// DefaultColor.
func ParseColor(s string) int {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return DefaultColor
	}
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil || v < 0 || v > 0xFFFFFF {
		return DefaultColor
	}
	return int(v)
}
