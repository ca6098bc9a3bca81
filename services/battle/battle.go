package battle

import (
	"Excusas/constants/events"
	models "Excusas/models/postgres"
	"Excusas/services/apperr"
	"Excusas/services/gemini"
	"Excusas/services/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MinLevel = 0
	MaxLevel = 5
)

// Rooms is what the orchestrator needs from the room registry.
type Rooms interface {
	Broadcast(roomID, event string, payload any)
	ClaimBattle(ctx context.Context, roomID, battleID string) (string, bool, error)
	ReleaseBattle(ctx context.Context, roomID, battleID string) error
}

// Orchestrator runs battles: creation with a theme, submissions from both
// participants, judging and the result broadcast.
type Orchestrator struct {
	store   *store.Store
	gateway gemini.Gateway
	rooms   Rooms

	battleLocks *keyedMutex
	roomLocks   *keyedMutex
	intN        func(n int) int
}

type Option func(*Orchestrator)

// WithRandom replaces the source used to pick a winner when judging fails.
func WithRandom(intN func(n int) int) Option {
	return func(o *Orchestrator) { o.intN = intN }
}

func NewOrchestrator(st *store.Store, gateway gemini.Gateway, rooms Rooms, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:       st,
		gateway:     gateway,
		rooms:       rooms,
		battleLocks: newKeyedMutex(),
		roomLocks:   newKeyedMutex(),
		intN:        rand.IntN,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func clampLevel(level int) int {
	return max(MinLevel, min(MaxLevel, level))
}

func validatePair(roomID, challenger, challenged string) error {
	switch {
	case roomID == "":
		return apperr.Validation("Falta el ID de la sala")
	case challenger == "":
		return apperr.Validation("Falta el retador")
	case challenged == "":
		return apperr.Validation("Falta el jugador retado")
	case challenger == challenged:
		return apperr.Validation("No puedes retarte a ti mismo")
	}
	return nil
}

// IssueChallenge announces a challenge to the room. Nothing is stored.
func (o *Orchestrator) IssueChallenge(roomID, challenger, target string, level int) error {
	roomID, challenger, target = strings.TrimSpace(roomID), strings.TrimSpace(challenger), strings.TrimSpace(target)
	if err := validatePair(roomID, challenger, target); err != nil {
		return err
	}
	level = clampLevel(level)
	o.rooms.Broadcast(roomID, events.ChallengeReceived, map[string]any{
		"challenger":    challenger,
		"target":        target,
		"requiredLevel": level,
		"message":       fmt.Sprintf("%s reta a %s a crear una excusa de nivel %d!", challenger, target, level),
	})
	return nil
}

// Start creates a pending battle with a generated theme. A room runs one
// battle at a time.
func (o *Orchestrator) Start(ctx context.Context, roomID, challenger, challenged string, level int) (*models.Battle, error) {
	roomID, challenger, challenged = strings.TrimSpace(roomID), strings.TrimSpace(challenger), strings.TrimSpace(challenged)
	if err := validatePair(roomID, challenger, challenged); err != nil {
		return nil, err
	}
	level = clampLevel(level)

	unlock := o.roomLocks.Lock(roomID)
	defer unlock()

	battleID := uuid.NewString()
	if err := o.claimSlot(ctx, roomID, battleID); err != nil {
		return nil, err
	}

	b := &models.Battle{
		ID:         battleID,
		RoomID:     roomID,
		Challenger: challenger,
		Challenged: challenged,
		Level:      level,
		Theme:      generateTheme(ctx, o.gateway, level),
		Status:     models.BattlePending,
		CreatedAt:  time.Now(),
	}
	if err := o.store.CreateBattle(ctx, b); err != nil {
		o.release(b)
		return nil, err
	}

	o.rooms.Broadcast(roomID, events.BattleCreated, map[string]any{
		"battleId":   b.ID,
		"challenger": challenger,
		"challenged": challenged,
		"level":      level,
		"theme":      b.Theme,
		"message":    fmt.Sprintf("¡%s desafió a %s a una batalla de nivel %d! Tema: \"%s\"", challenger, challenged, level, b.Theme),
	})
	log.Printf("[BATTLE] Battle %s started in room %s: %s vs %s (level %d)", b.ID, roomID, challenger, challenged, level)
	return b, nil
}

// claimSlot takes the room's battle slot. A slot held by a finished or
// unknown battle is taken over.
func (o *Orchestrator) claimSlot(ctx context.Context, roomID, battleID string) error {
	for attempt := 0; attempt < 2; attempt++ {
		holder, ok, err := o.rooms.ClaimBattle(ctx, roomID, battleID)
		if err != nil {
			return apperr.Persistence("Error al iniciar batalla", err)
		}
		if ok {
			return nil
		}

		current, err := o.store.GetBattle(ctx, holder)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
		case err != nil:
			return err
		case current.Live():
			return apperr.Conflict("Ya hay una batalla en curso en esta sala")
		}
		log.Printf("[BATTLE] Reclaiming stale battle slot %s in room %s", holder, roomID)
		if err := o.rooms.ReleaseBattle(ctx, roomID, holder); err != nil {
			return apperr.Persistence("Error al iniciar batalla", err)
		}
	}
	return apperr.Conflict("Ya hay una batalla en curso en esta sala")
}

func (o *Orchestrator) release(b *models.Battle) {
	if err := o.rooms.ReleaseBattle(context.Background(), b.RoomID, b.ID); err != nil {
		log.Printf("[BATTLE-ERROR] Error releasing battle slot %s of room %s: %v", b.ID, b.RoomID, err)
	}
}

func (o *Orchestrator) Get(ctx context.Context, battleID string) (*models.Battle, error) {
	if strings.TrimSpace(battleID) == "" {
		return nil, apperr.Validation("Falta el ID de la batalla")
	}
	return o.store.GetBattle(ctx, battleID)
}

// SubmitResult is the outcome of a submission. Judged is false while the
// opponent still owes an excuse.
type SubmitResult struct {
	Battle     *models.Battle `json:"battle"`
	Judged     bool           `json:"judged"`
	WaitingFor string         `json:"waitingFor,omitempty"`
	Winner     string         `json:"winner,omitempty"`
	Analysis   *Analysis      `json:"analysis,omitempty"`
}

// Submit records playerName's excuse in the battle. The second submission
// triggers judging; the call then returns the verdict. A save that loses to
// another instance is retried once against the fresh battle.
func (o *Orchestrator) Submit(ctx context.Context, battleID, playerName, excuseID string) (*SubmitResult, error) {
	battleID, playerName, excuseID = strings.TrimSpace(battleID), strings.TrimSpace(playerName), strings.TrimSpace(excuseID)
	switch {
	case battleID == "":
		return nil, apperr.Validation("Falta el ID de la batalla")
	case playerName == "":
		return nil, apperr.Validation("Falta el nombre del jugador")
	case excuseID == "":
		return nil, apperr.Validation("Falta el ID de la excusa")
	}

	unlock := o.battleLocks.Lock(battleID)
	defer unlock()

	res, err := o.submit(ctx, battleID, playerName, excuseID)
	if errors.Is(err, store.ErrStaleBattle) {
		log.Printf("[BATTLE] Battle %s changed during submission by %s, retrying", battleID, playerName)
		res, err = o.submit(ctx, battleID, playerName, excuseID)
	}
	return res, err
}

func (o *Orchestrator) submit(ctx context.Context, battleID, playerName, excuseID string) (*SubmitResult, error) {
	b, err := o.store.GetBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}
	excuse, err := o.store.GetExcuse(ctx, excuseID)
	if err != nil {
		return nil, err
	}
	slot := b.SlotFor(playerName)
	if slot == nil {
		return nil, apperr.Authorization("No eres parte de esta batalla")
	}
	if !b.Live() {
		return nil, apperr.Conflict("La batalla ya terminó")
	}
	if slot.Filled() {
		return nil, apperr.Conflict("Ya enviaste tu excusa para esta batalla")
	}

	now := time.Now()
	*slot = models.Submission{
		ExcuseID:    excuse.ID,
		Excuse:      excuse.Text,
		Situation:   excuse.Situation,
		ImageURL:    excuse.ImageURL,
		SubmittedAt: &now,
	}

	if b.BothSubmitted() {
		return o.complete(context.WithoutCancel(ctx), b)
	}

	b.Status = models.BattleActive
	if err := o.store.SaveBattle(ctx, b); err != nil {
		return nil, err
	}
	waitingFor := b.Opponent(playerName)
	o.rooms.Broadcast(b.RoomID, events.BattleExcuseReceived, map[string]any{
		"battleId":    b.ID,
		"submittedBy": playerName,
		"waitingFor":  waitingFor,
	})
	log.Printf("[BATTLE] %s submitted to battle %s, waiting for %s", playerName, b.ID, waitingFor)
	return &SubmitResult{Battle: b, WaitingFor: waitingFor}, nil
}

// complete judges b and stores the last submission together with the
// verdict. When that write fails nothing of it is kept, so the player can
// submit again.
func (o *Orchestrator) complete(ctx context.Context, b *models.Battle) (*SubmitResult, error) {
	analysis := o.judge(ctx, b)
	raw, err := json.Marshal(analysis)
	if err != nil {
		return nil, apperr.Persistence("Error al guardar el veredicto", err)
	}

	b.Winner = analysis.Winner
	b.JudgeAnalysis = datatypes.JSON(raw)
	b.Status = models.BattleCompleted
	if err := o.store.SaveBattle(ctx, b); err != nil {
		return nil, err
	}
	o.release(b)

	o.rooms.Broadcast(b.RoomID, events.BattleJudged, map[string]any{
		"battleId":            b.ID,
		"winner":              b.Winner,
		"analysis":            analysis,
		"challengerExcuse":    b.ChallengerExcuse.Excuse,
		"challengedExcuse":    b.ChallengedExcuse.Excuse,
		"challengerSituation": b.ChallengerExcuse.Situation,
		"challengedSituation": b.ChallengedExcuse.Situation,
	})
	log.Printf("[BATTLE] Battle %s judged, winner %s (fallback %v)", b.ID, b.Winner, analysis.Fallback)
	return &SubmitResult{Battle: b, Judged: true, Winner: b.Winner, Analysis: analysis}, nil
}
