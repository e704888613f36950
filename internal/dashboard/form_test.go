package dashboard

import (
	"net/url"
	"testing"

	"github.com/minetrade-gg/minetrade-bot/internal/reactionrole"
	"github.com/stretchr/testify/assert"
)

func TestParsePairsKeepsIndexOrder(t *testing.T) {
	form := url.Values{
		"emoji_2": {"🎉"},
		"role_2":  {"R3"},
		"emoji_0": {"✅"},
		"role_0":  {"R1"},
		"emoji_1": {"❌"},
		"role_1":  {"R2"},
	}
	assert.Equal(t, []reactionrole.Pair{
		{Emoji: "✅", RoleID: "R1"},
		{Emoji: "❌", RoleID: "R2"},
		{Emoji: "🎉", RoleID: "R3"},
	}, parsePairs(form))
}

func TestParsePairsDropsIncompleteRows(t *testing.T) {
	form := url.Values{
		"emoji_0": {"✅"},
		"role_0":  {"R1"},
		"emoji_1": {"❌"}, // no role selected
		"emoji_2": {"  "},
		"role_2":  {"R3"},
	}
	assert.Equal(t, []reactionrole.Pair{{Emoji: "✅", RoleID: "R1"}}, parsePairs(form))
}

func TestParsePairsIgnoresUnrelatedFields(t *testing.T) {
	form := url.Values{
		"title":      {"Pick a role"},
		"emoji_abc":  {"✅"},
		"role_abc":   {"R1"},
		"emoji_":     {"✅"},
		"channel_id": {"C1"},
	}
	assert.Empty(t, parsePairs(form))
}

func TestParsePairsTrimsWhitespace(t *testing.T) {
	form := url.Values{
		"emoji_0": {" ✅ "},
		"role_0":  {" R1 "},
	}
	assert.Equal(t, []reactionrole.Pair{{Emoji: "✅", RoleID: "R1"}}, parsePairs(form))
}
