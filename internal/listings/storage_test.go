package listings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample(messageID string) Listing {
	return Listing{
		MessageID:     messageID,
		ChannelID:     "C1",
		Username:      "Technoblade",
		MinecraftUUID: "b876ec32e396476ba1158438d83c67d4",
		ProfileName:   "Apple",
		PriceUSD:      250,
		ListedByID:    "U1",
	}
}

func TestAddAndGetByMessage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, sample("M1"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.GetByMessage(ctx, "M1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Technoblade", got.Username)
	assert.Equal(t, "Apple", got.ProfileName)
	assert.Equal(t, int64(250), got.PriceUSD)
	assert.True(t, got.Active)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetByMessageUnknownIsNil(t *testing.T) {
	s := openTestStore(t)
	got, err := s.GetByMessage(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeactivateRemovesFromActiveSet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, sample("M1"))
	require.NoError(t, err)
	_, err = s.Add(ctx, sample("M2"))
	require.NoError(t, err)

	require.NoError(t, s.Deactivate(ctx, id))

	active, err := s.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "M2", active[0].MessageID)

	// The row survives for staff history.
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Active)
}

func TestOpenRejectsUnusablePath(t *testing.T) {
	// A directory cannot be opened as a database file.
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestAddRejectsDuplicateMessage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, sample("M1"))
	require.NoError(t, err)
	_, err = s.Add(ctx, sample("M1"))
	assert.Error(t, err)
}
