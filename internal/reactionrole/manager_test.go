package reactionrole

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	nextMsgID  string
	sendErr    error
	reactErr   map[string]error
	sent       []string // channel IDs messages were sent to
	reactions  []string // "<msgID>:<emoji>" in call order
	clearedAll []string
	edited     []string
	deleted    []string
}

func newFakeChat() *fakeChat {
	return &fakeChat{nextMsgID: "M1", reactErr: map[string]error{}}
}

func (f *fakeChat) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if channelID == "missing" {
		return nil, errors.New("unknown channel")
	}
	return &discordgo.Channel{ID: channelID, Name: "general"}, nil
}

func (f *fakeChat) ChannelMessageSendComplex(channelID string, _ *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, channelID)
	return &discordgo.Message{ID: f.nextMsgID, ChannelID: channelID}, nil
}

func (f *fakeChat) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.edited = append(f.edited, m.ID)
	return &discordgo.Message{ID: m.ID}, nil
}

func (f *fakeChat) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeChat) MessageReactionAdd(_, messageID, emojiID string, _ ...discordgo.RequestOption) error {
	if err := f.reactErr[emojiID]; err != nil {
		return err
	}
	f.reactions = append(f.reactions, fmt.Sprintf("%s:%s", messageID, emojiID))
	return nil
}

func (f *fakeChat) MessageReactionsRemoveAll(_, messageID string, _ ...discordgo.RequestOption) error {
	f.clearedAll = append(f.clearedAll, messageID)
	return nil
}

type failingStore struct {
	*Store
	upsertErr error
}

func (f *failingStore) Upsert(messageID string, cfg Config) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.Store.Upsert(messageID, cfg)
}

func newManager(t *testing.T, chat *fakeChat) (*Manager, *Store) {
	t.Helper()
	store, err := Open(t.TempDir() + "/reactionroles.json")
	require.NoError(t, err)
	return &Manager{Chat: chat, Store: store, Log: quietLog()}, store
}

func TestCreateStoresConfigKeyedByNewMessage(t *testing.T) {
	chat := newFakeChat()
	m, store := newManager(t, chat)

	pairs := []Pair{{Emoji: "✅", RoleID: "R1"}, {Emoji: "❌", RoleID: "R2"}}
	msgID, err := m.Create(Request{ChannelID: "C1", Title: "Pick", Pairs: pairs})
	require.NoError(t, err)
	assert.Equal(t, "M1", msgID)

	cfg, ok := store.Get("M1")
	require.True(t, ok)
	assert.Equal(t, "C1", cfg.ChannelID)
	assert.Equal(t, "general", cfg.ChannelName)
	assert.Equal(t, pairs, cfg.Pairs)
	assert.Equal(t, []string{"M1:✅", "M1:❌"}, chat.reactions)
}

func TestCreateRejectsZeroPairsWithoutSending(t *testing.T) {
	chat := newFakeChat()
	m, store := newManager(t, chat)

	_, err := m.Create(Request{ChannelID: "C1"})
	assert.ErrorIs(t, err, ErrNoPairs)
	assert.Empty(t, chat.sent)
	assert.Empty(t, store.All())
}

func TestCreateContinuesPastFailedReaction(t *testing.T) {
	chat := newFakeChat()
	chat.reactErr["💥"] = errors.New("unknown emoji")
	m, store := newManager(t, chat)

	_, err := m.Create(Request{ChannelID: "C1", Pairs: []Pair{
		{Emoji: "✅", RoleID: "R1"},
		{Emoji: "💥", RoleID: "R2"},
		{Emoji: "❌", RoleID: "R3"},
	}})
	require.NoError(t, err)

	// The broken pair stays configured, the other reactions still land.
	assert.Equal(t, []string{"M1:✅", "M1:❌"}, chat.reactions)
	cfg, _ := store.Get("M1")
	assert.Len(t, cfg.Pairs, 3)
}

func TestCreateDeletesMessageWhenPersistFails(t *testing.T) {
	chat := newFakeChat()
	m, store := newManager(t, chat)
	m.Store = &failingStore{Store: store, upsertErr: errors.New("disk full")}

	_, err := m.Create(Request{ChannelID: "C1", Pairs: []Pair{{Emoji: "✅", RoleID: "R1"}}})
	require.Error(t, err)
	assert.Equal(t, []string{"M1"}, chat.deleted)
}

func TestUpdateReplacesPairsAndReseedsReactions(t *testing.T) {
	chat := newFakeChat()
	m, store := newManager(t, chat)

	_, err := m.Create(Request{ChannelID: "C1", Pairs: []Pair{{Emoji: "✅", RoleID: "R1"}}})
	require.NoError(t, err)
	chat.reactions = nil

	err = m.Update("M1", Request{Title: "New", Pairs: []Pair{{Emoji: "🎉", RoleID: "R5"}}})
	require.NoError(t, err)

	assert.Equal(t, []string{"M1"}, chat.edited)
	assert.Equal(t, []string{"M1"}, chat.clearedAll)
	assert.Equal(t, []string{"M1:🎉"}, chat.reactions)

	cfg, _ := store.Get("M1")
	assert.Equal(t, []Pair{{Emoji: "🎉", RoleID: "R5"}}, cfg.Pairs)
	assert.Equal(t, "New", cfg.Embed.Title)
}

func TestUpdateUnknownMessage(t *testing.T) {
	m, _ := newManager(t, newFakeChat())
	err := m.Update("nope", Request{Pairs: []Pair{{Emoji: "✅", RoleID: "R1"}}})
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestDeleteRemovesMessageAndEntry(t *testing.T) {
	chat := newFakeChat()
	m, store := newManager(t, chat)

	_, err := m.Create(Request{ChannelID: "C1", Pairs: []Pair{{Emoji: "✅", RoleID: "R1"}}})
	require.NoError(t, err)

	require.NoError(t, m.Delete("M1"))
	assert.Equal(t, []string{"M1"}, chat.deleted)
	_, ok := store.Get("M1")
	assert.False(t, ok)
}

func TestDeleteStillDropsEntryWhenMessageAlreadyGone(t *testing.T) {
	chat := newFakeChat()
	m, store := newManager(t, chat)

	_, err := m.Create(Request{ChannelID: "C1", Pairs: []Pair{{Emoji: "✅", RoleID: "R1"}}})
	require.NoError(t, err)

	failing := &deleteFailChat{fakeChat: chat}
	m.Chat = failing

	err = m.Delete("M1")
	assert.Error(t, err, "the platform failure is still reported")
	_, ok := store.Get("M1")
	assert.False(t, ok, "store cleanup proceeds regardless")
}

type deleteFailChat struct {
	*fakeChat
}

func (d *deleteFailChat) ChannelMessageDelete(_, _ string, _ ...discordgo.RequestOption) error {
	return errors.New("unknown message")
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"#FFD700", 0xFFD700},
		{"ffd700", 0xFFD700},
		{"#2ecc71", 0x2ECC71},
		{"", DefaultColor},
		{"  ", DefaultColor},
		{"#nothex", DefaultColor},
		{"#1234567890", DefaultColor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseColor(tt.in), "input %q", tt.in)
	}
}
