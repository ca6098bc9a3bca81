package rooms_test

import (
	"context"
	"testing"

	"Excusas/constants/events"
	"Excusas/services/apperr"
	"Excusas/services/rooms"
	"Excusas/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() (*rooms.Registry, *testutil.RecordingEmitter) {
	emitter := &testutil.RecordingEmitter{}
	return rooms.NewRegistry(rooms.NewMemoryState(), emitter), emitter
}

func TestJoinBroadcastsToRoom(t *testing.T) {
	reg, emitter := newRegistry()
	ctx := context.Background()
	ana := testutil.NewFakeSession("s1")

	changed, err := reg.Join(ctx, ana, "R1", "Ana")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, ana.InRoom("R1"))

	joined := emitter.Named(events.PlayerJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, "R1", joined[0].Room)
	payload := testutil.Payload(t, joined[0])
	assert.Equal(t, "Ana", payload["playerName"])
	assert.Equal(t, "Ana se unió a la sala", payload["message"])

	players, err := reg.Players(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, players)
}

func TestJoinTwiceIsSilent(t *testing.T) {
	reg, emitter := newRegistry()
	ctx := context.Background()
	ana := testutil.NewFakeSession("s1")

	_, err := reg.Join(ctx, ana, "R1", "Ana")
	require.NoError(t, err)
	changed, err := reg.Join(ctx, ana, "R1", "Ana")
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Len(t, emitter.Named(events.PlayerJoined), 1)
}

func TestJoinOtherRoomLeavesPrevious(t *testing.T) {
	reg, emitter := newRegistry()
	ctx := context.Background()
	ana := testutil.NewFakeSession("s1")

	_, err := reg.Join(ctx, ana, "R1", "Ana")
	require.NoError(t, err)
	_, err = reg.Join(ctx, ana, "R2", "Ana")
	require.NoError(t, err)

	assert.False(t, ana.InRoom("R1"))
	assert.True(t, ana.InRoom("R2"))

	left := emitter.Named(events.PlayerLeft)
	require.Len(t, left, 1)
	assert.Equal(t, "R1", left[0].Room)

	m, ok := reg.Membership("s1")
	require.True(t, ok)
	assert.Equal(t, rooms.Membership{RoomID: "R2", PlayerName: "Ana"}, m)

	players, err := reg.Players(ctx, "R1")
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestLeaveAndDisconnect(t *testing.T) {
	reg, emitter := newRegistry()
	ctx := context.Background()

	t.Run("never joined announces nothing", func(t *testing.T) {
		_, ok := reg.Leave(ctx, testutil.NewFakeSession("ghost"))
		assert.False(t, ok)
		_, ok = reg.Disconnect(ctx, testutil.NewFakeSession("ghost"))
		assert.False(t, ok)
		assert.Empty(t, emitter.Named(events.PlayerLeft))
	})

	t.Run("leave announces departure", func(t *testing.T) {
		beto := testutil.NewFakeSession("s2")
		_, err := reg.Join(ctx, beto, "R1", "Beto")
		require.NoError(t, err)

		m, ok := reg.Leave(ctx, beto)
		require.True(t, ok)
		assert.Equal(t, "R1", m.RoomID)
		left := emitter.Named(events.PlayerLeft)
		require.Len(t, left, 1)
		assert.Equal(t, "Beto salió de la sala", testutil.Payload(t, left[0])["message"])

		// A second leave has nothing to announce.
		_, ok = reg.Leave(ctx, beto)
		assert.False(t, ok)
		assert.Len(t, emitter.Named(events.PlayerLeft), 1)
	})

	t.Run("disconnect announces departure", func(t *testing.T) {
		carla := testutil.NewFakeSession("s3")
		_, err := reg.Join(ctx, carla, "R1", "Carla")
		require.NoError(t, err)

		_, ok := reg.Disconnect(ctx, carla)
		require.True(t, ok)
		left := emitter.Named(events.PlayerLeft)
		require.Len(t, left, 2)
		assert.Equal(t, "Carla se desconectó", testutil.Payload(t, left[1])["message"])
	})
}

func TestSameNameOnTwoSessions(t *testing.T) {
	reg, _ := newRegistry()
	ctx := context.Background()
	tab1 := testutil.NewFakeSession("tab1")
	tab2 := testutil.NewFakeSession("tab2")

	_, err := reg.Join(ctx, tab1, "R1", "Ana")
	require.NoError(t, err)
	_, err = reg.Join(ctx, tab2, "R1", "Ana")
	require.NoError(t, err)

	reg.Leave(ctx, tab1)
	players, err := reg.Players(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, players)
}

func TestJoinValidation(t *testing.T) {
	reg, _ := newRegistry()
	_, err := reg.Join(context.Background(), testutil.NewFakeSession("s1"), " ", "Ana")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = reg.Join(context.Background(), testutil.NewFakeSession("s1"), "R1", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMemoryStateBattleSlot(t *testing.T) {
	state := rooms.NewMemoryState()
	ctx := context.Background()

	_, ok, err := state.ClaimBattle(ctx, "R1", "b1")
	require.NoError(t, err)
	assert.True(t, ok)

	current, ok, err := state.ClaimBattle(ctx, "R1", "b2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "b1", current)

	require.NoError(t, state.ReleaseBattle(ctx, "R1", "b2"))
	active, _ := state.ActiveBattle(ctx, "R1")
	assert.Equal(t, "b1", active)

	require.NoError(t, state.ReleaseBattle(ctx, "R1", "b1"))
	active, _ = state.ActiveBattle(ctx, "R1")
	assert.Empty(t, active)
}
