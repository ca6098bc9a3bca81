package store

import (
	models "Excusas/models/postgres"
	"Excusas/services/apperr"
	"Excusas/testutil"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExcuse(t *testing.T, s *Store, room, player string, at time.Time) *models.Excuse {
	t.Helper()
	e := &models.Excuse{
		Situation:      "Llegué tarde",
		AbsurdityLevel: 2,
		Text:           "Un pato me robó las llaves.",
		Temperature:    0.9,
		RoomID:         room,
		PlayerName:     player,
		Timestamp:      at,
	}
	require.NoError(t, s.CreateExcuse(context.Background(), e))
	return e
}

func TestCreateExcuseDefaults(t *testing.T) {
	s := New(testutil.NewTestDB(t))
	e := &models.Excuse{Situation: "No hice la tarea", Text: "Mi perro es ingeniero.", Temperature: 0.9}
	require.NoError(t, s.CreateExcuse(context.Background(), e))

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, models.AnonymousPlayer, e.PlayerName)
	assert.False(t, e.Timestamp.IsZero())
	assert.Empty(t, e.VotedBy)

	got, err := s.GetExcuse(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mi perro es ingeniero.", got.Text)
	assert.Equal(t, 0, got.Votes)
}

func TestGetExcuseNotFound(t *testing.T) {
	s := New(testutil.NewTestDB(t))
	_, err := s.GetExcuse(context.Background(), "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddVote(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))
	e := newExcuse(t, s, "R1", "Ana", time.Now())

	updated, err := s.AddVote(ctx, e.ID, "Beto")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Votes)
	assert.Equal(t, []string{"Beto"}, updated.VotedBy)

	_, err = s.AddVote(ctx, e.ID, "Beto")
	assert.ErrorIs(t, err, apperr.ErrDuplicateVote)

	updated, err = s.AddVote(ctx, e.ID, "Carla")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Votes)
	assert.ElementsMatch(t, []string{"Beto", "Carla"}, updated.VotedBy)

	_, err = s.AddVote(ctx, "missing", "Beto")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddVoteConcurrentSameVoter(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))
	e := newExcuse(t, s, "R1", "Ana", time.Now())

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.AddVote(ctx, e.ID, "Beto")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrDuplicateVote)
	}
	assert.Equal(t, 1, ok)

	got, err := s.GetExcuse(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes)
}

func TestAddVoteConcurrentDistinctVoters(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))
	e := newExcuse(t, s, "R1", "Ana", time.Now())

	const voters = 12
	var wg sync.WaitGroup
	errs := make([]error, voters)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.AddVote(ctx, e.ID, fmt.Sprintf("Jugador%d", i))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	got, err := s.GetExcuse(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, voters, got.Votes)
	assert.Len(t, got.VotedBy, voters)
}

func TestListExcuses(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))
	base := time.Now().Add(-time.Hour)
	first := newExcuse(t, s, "R1", "Ana", base)
	second := newExcuse(t, s, "R1", "Beto", base.Add(time.Minute))
	newExcuse(t, s, "R2", "Carla", base.Add(2*time.Minute))

	all, err := s.ListExcuses(ctx, "", 20)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	room, err := s.ListExcuses(ctx, "R1", 20)
	require.NoError(t, err)
	require.Len(t, room, 2)
	assert.Equal(t, second.ID, room[0].ID)
	assert.Equal(t, first.ID, room[1].ID)

	limited, err := s.ListExcuses(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))
	now := time.Now()
	a1 := newExcuse(t, s, "R1", "Ana", now)
	a2 := newExcuse(t, s, "R1", "Ana", now.Add(time.Second))
	b1 := newExcuse(t, s, "R1", "Beto", now.Add(2*time.Second))
	newExcuse(t, s, "R2", "Zoe", now)

	for _, v := range []struct{ id, voter string }{
		{a1.ID, "X"}, {a2.ID, "X"}, {a2.ID, "Y"}, {b1.ID, "X"},
	} {
		_, err := s.AddVote(ctx, v.id, v.voter)
		require.NoError(t, err)
	}

	board, err := s.Leaderboard(ctx, "R1", 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, LeaderboardEntry{PlayerName: "Ana", TotalVotes: 3, Excuses: 2}, board[0])
	assert.Equal(t, LeaderboardEntry{PlayerName: "Beto", TotalVotes: 1, Excuses: 1}, board[1])

	top, err := s.TopExcuses(ctx, "R1", 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, a2.ID, top[0].ID)
}

func TestSaveBattleCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))
	b := &models.Battle{RoomID: "R1", Challenger: "Ana", Challenged: "Beto", Level: 3, Theme: "Un dragón en la oficina"}
	require.NoError(t, s.CreateBattle(ctx, b))
	assert.Equal(t, models.BattlePending, b.Status)

	first, err := s.GetBattle(ctx, b.ID)
	require.NoError(t, err)
	second, err := s.GetBattle(ctx, b.ID)
	require.NoError(t, err)

	now := time.Now()
	first.Status = models.BattleActive
	first.ChallengerExcuse = models.Submission{ExcuseID: "e1", Excuse: "texto", Situation: "sit", SubmittedAt: &now}
	require.NoError(t, s.SaveBattle(ctx, first))
	assert.Equal(t, 1, first.Version)

	second.Status = models.BattleActive
	second.ChallengedExcuse = models.Submission{ExcuseID: "e2", Excuse: "otro"}
	err = s.SaveBattle(ctx, second)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.ErrorIs(t, err, ErrStaleBattle)

	stored, err := s.GetBattle(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "e1", stored.ChallengerExcuse.ExcuseID)
	assert.Equal(t, "sit", stored.ChallengerExcuse.Situation)
	assert.False(t, stored.ChallengedExcuse.Filled())
	assert.Equal(t, models.BattleActive, stored.Status)
}

func TestGetBattleNotFound(t *testing.T) {
	s := New(testutil.NewTestDB(t))
	_, err := s.GetBattle(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
