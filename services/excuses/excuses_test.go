package excuses

import (
	"Excusas/constants/events"
	models "Excusas/models/postgres"
	"Excusas/services/apperr"
	"Excusas/services/gemini"
	"Excusas/services/rooms"
	"Excusas/services/store"
	"Excusas/testutil"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	gateway *testutil.FakeGateway
	emitter *testutil.RecordingEmitter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gateway := &testutil.FakeGateway{}
	emitter := &testutil.RecordingEmitter{}
	registry := rooms.NewRegistry(nil, emitter)
	svc := NewService(store.New(testutil.NewTestDB(t)), gateway, registry)
	return &fixture{svc: svc, gateway: gateway, emitter: emitter}
}

func level(n int) *int { return &n }

func TestClampLevel(t *testing.T) {
	assert.Equal(t, 2, ClampLevel(nil))
	assert.Equal(t, 0, ClampLevel(level(0)))
	assert.Equal(t, -1, ClampLevel(level(-7)))
	assert.Equal(t, 5, ClampLevel(level(7)))
	assert.Equal(t, 3, ClampLevel(level(3)))
}

func TestTemperatureTable(t *testing.T) {
	want := map[int]float64{-1: 0.3, 0: 0.5, 1: 0.7, 2: 0.9, 3: 1.1, 4: 1.3, 5: 1.5, 9: 0.9}
	for lvl, temp := range want {
		assert.Equal(t, temp, Temperature(lvl), "level %d", lvl)
	}
}

func TestGenerateClampsLevelAndUsesCosmicPersona(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Generate(context.Background(), GenerateRequest{
		Situation:      "Llegué tarde",
		AbsurdityLevel: level(7),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, res.Metadata.AbsurdityLevel)
	assert.Equal(t, 1.5, res.Metadata.Temperature)
	assert.Equal(t, "ninguno", res.Metadata.SocialContext)
	assert.NotEmpty(t, res.Metadata.ID)

	reqs := f.gateway.TextRequests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Prompt, "cósmicas e interdimensionales")
	assert.Contains(t, reqs[0].Prompt, "Situación: Llegué tarde")
	assert.NotContains(t, reqs[0].Prompt, "Contexto social")
	require.NotNil(t, reqs[0].Temperature)
	assert.Equal(t, 1.5, *reqs[0].Temperature)
	assert.Equal(t, 200, reqs[0].MaxOutputTokens)

	// Image failure is not fatal.
	assert.Len(t, f.gateway.ImagePrompts(), 1)
	assert.Empty(t, res.ImageURL)
}

func TestGenerateDefaultsAndSocialContext(t *testing.T) {
	f := newFixture(t)
	f.gateway.Image = func(string) (string, error) { return "data:image/png;base64,AAAA", nil }

	res, err := f.svc.Generate(context.Background(), GenerateRequest{
		Situation:     "No fui a la boda",
		SocialContext: "mi jefe",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Metadata.AbsurdityLevel)
	assert.Equal(t, 0.9, res.Metadata.Temperature)
	assert.Equal(t, "mi jefe", res.Metadata.SocialContext)
	assert.Equal(t, "data:image/png;base64,AAAA", res.ImageURL)
	assert.Contains(t, f.gateway.TextRequests()[0].Prompt, "Contexto social: mi jefe")

	stored, err := f.svc.Get(context.Background(), res.Metadata.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anónimo", stored.PlayerName)
	assert.Equal(t, "data:image/png;base64,AAAA", stored.ImageURL)
}

func TestGenerateLowLevelSkipsImage(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Generate(context.Background(), GenerateRequest{Situation: "Olvidé la reunión", AbsurdityLevel: level(0)})
	require.NoError(t, err)
	assert.Empty(t, f.gateway.ImagePrompts())
	assert.Contains(t, f.gateway.TextRequests()[0].Prompt, "excusas cotidianas")
}

func TestGenerateBroadcastsToRoom(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Generate(context.Background(), GenerateRequest{
		Situation:  "Llegué tarde",
		RoomID:     "R1",
		PlayerName: "Ana",
	})
	require.NoError(t, err)

	got := f.emitter.Named(events.NewExcuse)
	require.Len(t, got, 1)
	assert.Equal(t, "R1", got[0].Room)
	payload := testutil.Payload(t, got[0])
	assert.Equal(t, res.Metadata.ID, payload["_id"])
	assert.Equal(t, res.Metadata.ID, payload["id"])
	assert.Equal(t, "Ana", payload["playerName"])
	assert.Equal(t, 0, payload["votes"])
	assert.Equal(t, 2, payload["absurdityLevel"])
}

func TestGenerateWithoutRoomIsSilent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Generate(context.Background(), GenerateRequest{Situation: "Llegué tarde"})
	require.NoError(t, err)
	assert.Empty(t, f.emitter.Events())
}

func TestGenerateErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), GenerateRequest{Situation: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, f.gateway.TextRequests())

	f.gateway.Text = func(gemini.TextRequest) (string, error) { return "", errors.New("quota") }
	_, err = f.svc.Generate(context.Background(), GenerateRequest{Situation: "Llegué tarde", RoomID: "R1"})
	assert.ErrorIs(t, err, apperr.ErrGateway)
	assert.Empty(t, f.emitter.Events())

	list, err := f.svc.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res, err := f.svc.Generate(ctx, GenerateRequest{Situation: "Llegué tarde", RoomID: "R1", PlayerName: "Ana"})
	require.NoError(t, err)

	excuse, err := f.svc.Vote(ctx, res.Metadata.ID, "Beto", "")
	require.NoError(t, err)
	assert.Equal(t, 1, excuse.Votes)

	updates := f.emitter.Named(events.VoteUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, "R1", updates[0].Room)
	payload := testutil.Payload(t, updates[0])
	assert.Equal(t, 1, payload["votes"])
	assert.Equal(t, "Beto", payload["playerName"])
	assert.Equal(t, "Ana", payload["excuseOwner"])

	_, err = f.svc.Vote(ctx, res.Metadata.ID, "Beto", "")
	assert.ErrorIs(t, err, apperr.ErrDuplicateVote)
	assert.Len(t, f.emitter.Named(events.VoteUpdate), 1)

	_, err = f.svc.Vote(ctx, res.Metadata.ID, " ", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Vote(ctx, "missing", "Beto", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, err := f.svc.Generate(ctx, GenerateRequest{Situation: "uno", RoomID: "R1", PlayerName: "Ana"})
	require.NoError(t, err)
	_, err = f.svc.Generate(ctx, GenerateRequest{Situation: "dos", RoomID: "R1", PlayerName: "Beto"})
	require.NoError(t, err)
	_, err = f.svc.Vote(ctx, a.Metadata.ID, "Carla", "")
	require.NoError(t, err)

	board, err := f.svc.Leaderboard(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, board.Players, 2)
	assert.Equal(t, "Ana", board.Players[0].PlayerName)
	assert.Equal(t, 1, board.Players[0].TotalVotes)
	require.Len(t, board.Excuses, 2)
	assert.Equal(t, a.Metadata.ID, board.Excuses[0].ID)
	assert.Equal(t, []string{"Carla"}, board.Excuses[0].VotedBy)

	empty, err := f.svc.Leaderboard(ctx, "nadie")
	require.NoError(t, err)
	assert.Empty(t, empty.Players)

	_, err = f.svc.Leaderboard(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res, err := f.svc.Generate(ctx, GenerateRequest{
		Situation:     "Llegué tarde",
		SocialContext: "mi jefe",
		RoomID:        "R1",
		PlayerName:    "Ana",
	})
	require.NoError(t, err)

	name, content, err := f.svc.Export(ctx, res.Metadata.ID)
	require.NoError(t, err)
	assert.Equal(t, "excusa_"+res.Metadata.ID+".txt", name)
	assert.Contains(t, content, "GENERADOR DE EXCUSAS ABSURDAS")
	assert.Contains(t, content, "Jugador: Ana")
	assert.Contains(t, content, "SITUACIÓN:\nLlegué tarde")
	assert.Contains(t, content, "CONTEXTO SOCIAL:\nmi jefe")
	assert.Contains(t, content, "EXCUSA GENERADA:\nUn pato me robó las llaves.")
	assert.Contains(t, content, "• Nivel de Absurdidad: 2/5")
	assert.Contains(t, content, "• Temperatura IA: 0.9")
	assert.Contains(t, content, "• Sala Colaborativa: R1")

	_, _, err = f.svc.Export(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRenderExportDate(t *testing.T) {
	e := newExportExcuse(time.Date(2024, 3, 5, 9, 7, 3, 0, time.Local))
	content := renderExport(e)
	assert.Contains(t, content, "Fecha: 5/3/2024, 09:07:03")
	assert.False(t, strings.Contains(content, "CONTEXTO SOCIAL"))
	assert.False(t, strings.Contains(content, "Sala Colaborativa"))
}

func newExportExcuse(at time.Time) *models.Excuse {
	return &models.Excuse{
		ID:             "abc",
		Situation:      "Perdí el tren",
		AbsurdityLevel: 1,
		Text:           "El tren se fue antes.",
		Temperature:    0.7,
		PlayerName:     "Ana",
		Timestamp:      at,
	}
}
