package reactionrole

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(pairs ...Pair) Config {
	return Config{
		ChannelID:   "C1",
		ChannelName: "general",
		Pairs:       pairs,
		Embed:       EmbedMeta{Title: "Roles", Color: "#FFD700"},
	}
}

func TestOpenMissingFileIsEmptyStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "reactionroles.json"))
	require.NoError(t, err)
	assert.Empty(t, s.All())
}

func TestUpsertPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactionroles.json")
	s, err := Open(path)
	require.NoError(t, err)

	cfg := testConfig(Pair{Emoji: "✅", RoleID: "R1"}, Pair{Emoji: "❌", RoleID: "R2"})
	require.NoError(t, s.Upsert("M1", cfg))

	reopened, err := Open(path)
	require.NoError(t, err)
	got, ok := reopened.Get("M1")
	require.True(t, ok)
	assert.Equal(t, cfg, got)
}

func TestUpsertReplacesPairsWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactionroles.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Upsert("M1", testConfig(Pair{Emoji: "✅", RoleID: "R1"})))
	require.NoError(t, s.Upsert("M1", testConfig(Pair{Emoji: "🎉", RoleID: "R3"})))

	got, ok := s.Get("M1")
	require.True(t, ok)
	assert.Equal(t, []Pair{{Emoji: "🎉", RoleID: "R3"}}, got.Pairs)
}

func TestRemoveDropsEntryAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactionroles.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Upsert("M1", testConfig(Pair{Emoji: "✅", RoleID: "R1"})))
	require.NoError(t, s.Remove("M1"))

	_, ok := s.Get("M1")
	assert.False(t, ok)

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.All())
}

func TestRemoveUnknownMessageIsNoop(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "reactionroles.json"))
	require.NoError(t, err)
	assert.NoError(t, s.Remove("nope"))
}

func TestOpenRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reactionroles.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestOpenRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing channel", `{"M1":{"channelId":"","pairs":[{"emoji":"✅","roleId":"R1"}]}}`},
		{"no pairs", `{"M1":{"channelId":"C1","pairs":[]}}`},
		{"incomplete pair", `{"M1":{"channelId":"C1","pairs":[{"emoji":"✅","roleId":""}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "reactionroles.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := Open(path)
			assert.Error(t, err)
		})
	}
}

func TestAllReturnsCopy(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "reactionroles.json"))
	require.NoError(t, err)
	require.NoError(t, s.Upsert("M1", testConfig(Pair{Emoji: "✅", RoleID: "R1"})))

	all := s.All()
	delete(all, "M1")

	_, ok := s.Get("M1")
	assert.True(t, ok, "mutating the returned map must not touch the store")
}
