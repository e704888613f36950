package discord

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/reactionrole"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRoles struct {
	added   []string
	removed []string
}

func (r *recordingRoles) GuildMemberRoleAdd(_, userID, _ string, _ ...discordgo.RequestOption) error {
	r.added = append(r.added, userID)
	return nil
}

func (r *recordingRoles) GuildMemberRoleRemove(_, userID, _ string, _ ...discordgo.RequestOption) error {
	r.removed = append(r.removed, userID)
	return nil
}

// newReactionApp builds an App whose session state knows one human
// member (U1) and one bot member (B2), with a managed message M1.
func newReactionApp(t *testing.T) (*App, *recordingRoles) {
	t.Helper()

	store, err := reactionrole.Open(filepath.Join(t.TempDir(), "reactionroles.json"))
	require.NoError(t, err)
	require.NoError(t, store.Upsert("M1", reactionrole.Config{
		ChannelID: "C1",
		Pairs:     []reactionrole.Pair{{Emoji: "✅", RoleID: "R1"}},
	}))

	sess := &discordgo.Session{State: discordgo.NewState()}
	sess.State.User = &discordgo.User{ID: "self"}
	require.NoError(t, sess.State.GuildAdd(&discordgo.Guild{ID: "G1"}))
	require.NoError(t, sess.State.MemberAdd(&discordgo.Member{GuildID: "G1", User: &discordgo.User{ID: "U1"}}))
	require.NoError(t, sess.State.MemberAdd(&discordgo.Member{GuildID: "G1", User: &discordgo.User{ID: "B2", Bot: true}}))

	roles := &recordingRoles{}
	a := &App{
		Session: sess,
		dispatcher: &reactionrole.Dispatcher{
			Store: store,
			Roles: roles,
			Log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}
	return a, roles
}

func reaction(userID string) *discordgo.MessageReaction {
	return &discordgo.MessageReaction{
		MessageID: "M1",
		GuildID:   "G1",
		UserID:    userID,
		Emoji:     discordgo.Emoji{Name: "✅"},
	}
}

func TestReactionRemoveRevokesForMembers(t *testing.T) {
	a, roles := newReactionApp(t)
	a.onReactionRemove(a.Session, &discordgo.MessageReactionRemove{MessageReaction: reaction("U1")})
	assert.Equal(t, []string{"U1"}, roles.removed)
}

func TestReactionRemoveIgnoresOtherBots(t *testing.T) {
	a, roles := newReactionApp(t)
	a.onReactionRemove(a.Session, &discordgo.MessageReactionRemove{MessageReaction: reaction("B2")})
	assert.Empty(t, roles.removed)
}

func TestReactionRemoveIgnoresSelf(t *testing.T) {
	a, roles := newReactionApp(t)
	a.onReactionRemove(a.Session, &discordgo.MessageReactionRemove{MessageReaction: reaction("self")})
	assert.Empty(t, roles.removed)
}

func TestReactionAddIgnoresOtherBots(t *testing.T) {
	a, roles := newReactionApp(t)
	a.onReactionAdd(a.Session, &discordgo.MessageReactionAdd{MessageReaction: reaction("B2")})
	assert.Empty(t, roles.added)
}

func TestReactionAddGrantsForMembers(t *testing.T) {
	a, roles := newReactionApp(t)
	a.onReactionAdd(a.Session, &discordgo.MessageReactionAdd{MessageReaction: reaction("U1")})
	assert.Equal(t, []string{"U1"}, roles.added)
}
