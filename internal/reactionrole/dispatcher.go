package reactionrole

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/metrics"
)

// roleManager is the slice of the Discord session the dispatcher needs.
// *discordgo.Session satisfies it.
type roleManager interface {
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// lookup is the read side of the store the dispatcher consults per event.
type lookup interface {
	Get(messageID string) (Config, bool)
}

// Event is one reaction added to or removed from any message the bot can
// see. Emoji is the emoji name as delivered by the gateway.
type Event struct {
	MessageID string
	GuildID   string
	UserID    string
	Emoji     string
	Bot       bool
}

// Dispatcher turns reaction events into role grants and revokes for
// managed messages. It is stateless per event; every event is evaluated
// against the store's current contents.
//
// Grant and revoke failures are logged but never surfaced to the reacting
// user. That keeps transient permission problems from spamming members,
// at the cost of requiring operators to watch the log for persistent
// misconfiguration (e.g. the target role sorted above the bot's own).
type Dispatcher struct {
	Store    lookup
	Roles    roleManager
	Log      *slog.Logger
	Announce func(kind, text string)
}

// HandleAdd grants the paired role for a newly added reaction. Adding a
// role the member already holds is a platform-level no-op, so the
// dispatcher never tracks whether a grant is new.
func (d *Dispatcher) HandleAdd(ev Event) {
	pair, ok := d.match(ev)
	if !ok {
		return
	}
	if err := d.Roles.GuildMemberRoleAdd(ev.GuildID, ev.UserID, pair.RoleID); err != nil {
		d.Log.Error("reaction role grant failed",
			"message_id", ev.MessageID,
			"user_id", ev.UserID,
			"role_id", pair.RoleID,
			"emoji", ev.Emoji,
			"error", err,
		)
		return
	}
	metrics.RolesGranted.Inc()
	d.Log.Info("reaction role granted",
		"message_id", ev.MessageID, "user_id", ev.UserID, "role_id", pair.RoleID)
	if d.Announce != nil {
		d.Announce("role_granted", "role "+pair.RoleID+" granted to "+ev.UserID)
	}
}

// HandleRemove revokes the paired role for a removed reaction.
func (d *Dispatcher) HandleRemove(ev Event) {
	pair, ok := d.match(ev)
	if !ok {
		return
	}
	if err := d.Roles.GuildMemberRoleRemove(ev.GuildID, ev.UserID, pair.RoleID); err != nil {
		d.Log.Error("reaction role revoke failed",
			"message_id", ev.MessageID,
			"user_id", ev.UserID,
			"role_id", pair.RoleID,
			"emoji", ev.Emoji,
			"error", err,
		)
		return
	}
	metrics.RolesRevoked.Inc()
	d.Log.Info("reaction role revoked",
		"message_id", ev.MessageID, "user_id", ev.UserID, "role_id", pair.RoleID)
	if d.Announce != nil {
		d.Announce("role_revoked", "role "+pair.RoleID+" revoked from "+ev.UserID)
	}
}

// match filters the event down to the configured pair, if any. Bots are
// ignored; so are reactions on unmanaged messages and emojis with no
// pair. First matching pair wins when a config holds duplicates.
func (d *Dispatcher) match(ev Event) (Pair, bool) {
	if ev.Bot {
		return Pair{}, false
	}
	cfg, ok := d.Store.Get(ev.MessageID)
	if !ok {
		return Pair{}, false
	}
	for _, p := range cfg.Pairs {
		if p.Emoji == ev.Emoji {
			return p, true
		}
	}
	return Pair{}, false
}
