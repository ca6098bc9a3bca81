package handlers

import (
	"Excusas/constants/events"
	models "Excusas/models/postgres"
	"Excusas/services/apperr"
	"Excusas/services/battle"
	"Excusas/services/rooms"
	"context"
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"
)

// Client is a connected socket as seen by the event handlers.
type Client interface {
	rooms.Session
	Emit(event string, args ...any)
}

type Registry interface {
	Join(ctx context.Context, session rooms.Session, roomID, playerName string) (bool, error)
	Leave(ctx context.Context, session rooms.Session) (rooms.Membership, bool)
	Disconnect(ctx context.Context, session rooms.Session) (rooms.Membership, bool)
}

type ExcuseVoter interface {
	Vote(ctx context.Context, excuseID, voterName, fallbackRoom string) (*models.Excuse, error)
}

type Battles interface {
	IssueChallenge(roomID, challenger, target string, level int) error
	Start(ctx context.Context, roomID, challenger, challenged string, level int) (*models.Battle, error)
	Submit(ctx context.Context, battleID, playerName, excuseID string) (*battle.SubmitResult, error)
}

// Deps are the services the socket events are routed to.
type Deps struct {
	Registry Registry
	Excuses  ExcuseVoter
	Battles  Battles
}

// Register wires every game event of client.
func Register(client Client, on func(event string, handler func(args ...interface{})), deps Deps, forget func(id string)) {
	on(events.JoinRoom, HandleJoinRoom(deps.Registry, client))
	on(events.LeaveRoom, HandleLeaveRoom(deps.Registry, client))
	on(events.SendChallenge, HandleSendChallenge(deps.Battles, client))
	on(events.VoteExcuse, HandleVoteExcuse(deps.Excuses, client))
	on(events.StartBattle, HandleStartBattle(deps.Battles, client))
	on(events.SubmitBattleExcuse, HandleSubmitBattleExcuse(deps.Battles, client))
	on(events.Disconnect, HandleDisconnect(deps.Registry, client, forget))
}

// decodeArgs reads the first event argument into dst. Clients send a single
// JSON object per event.
func decodeArgs(args []interface{}, dst any) error {
	if len(args) < 1 || args[0] == nil {
		return apperr.Validation("Faltan los datos del evento")
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return apperr.Validation("Datos del evento inválidos")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Validation("Datos del evento inválidos")
	}
	return nil
}

func emitError(client Client, err error, fallback string) {
	client.Emit(events.Error, gin.H{"error": apperr.Message(err, fallback)})
}

// decode reads the event payload and tells the client when it cannot.
func decode(client Client, tag string, args []interface{}, dst any) bool {
	if err := decodeArgs(args, dst); err != nil {
		log.Printf("[%s-ERROR] Invalid payload from %s: %v", tag, client.ID(), err)
		emitError(client, err, "Datos del evento inválidos")
		return false
	}
	return true
}
