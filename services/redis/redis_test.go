package redis

import (
	"Excusas/services/rooms"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ rooms.State = (*RedisClient)(nil)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := InitRedis(mr.Addr(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { CloseRedis(rc) })
	return rc, mr
}

func TestRoomOperations(t *testing.T) {
	rc, mr := newTestClient(t)
	ctx := context.Background()

	t.Run("Presence counts sessions per name", func(t *testing.T) {
		require.NoError(t, rc.AddPlayer(ctx, "R1", "Ana"))
		require.NoError(t, rc.AddPlayer(ctx, "R1", "Beto"))
		require.NoError(t, rc.AddPlayer(ctx, "R1", "Ana"))

		players, err := rc.Players(ctx, "R1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Ana", "Beto"}, players)

		require.NoError(t, rc.RemovePlayer(ctx, "R1", "Ana"))
		players, err = rc.Players(ctx, "R1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Ana", "Beto"}, players)

		require.NoError(t, rc.RemovePlayer(ctx, "R1", "Ana"))
		players, err = rc.Players(ctx, "R1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Beto"}, players)
		assert.True(t, mr.Exists("room:R1:players"))
	})

	t.Run("Battle slot", func(t *testing.T) {
		current, ok, err := rc.ClaimBattle(ctx, "R2", "b1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "b1", current)

		current, ok, err = rc.ClaimBattle(ctx, "R2", "b2")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "b1", current)

		// Releasing with the wrong id leaves the slot alone.
		require.NoError(t, rc.ReleaseBattle(ctx, "R2", "b2"))
		active, err := rc.ActiveBattle(ctx, "R2")
		require.NoError(t, err)
		assert.Equal(t, "b1", active)

		require.NoError(t, rc.ReleaseBattle(ctx, "R2", "b1"))
		active, err = rc.ActiveBattle(ctx, "R2")
		require.NoError(t, err)
		assert.Equal(t, "", active)

		_, ok, err = rc.ClaimBattle(ctx, "R2", "b2")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCloseRedis(t *testing.T) {
	assert.NoError(t, CloseRedis(nil))

	mr := miniredis.RunT(t)
	rc, err := InitRedis(mr.Addr(), 0)
	require.NoError(t, err)
	require.NoError(t, CloseRedis(rc))
	assert.Error(t, CloseRedis(rc))
}
