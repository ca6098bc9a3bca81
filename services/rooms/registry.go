package rooms

import (
	"Excusas/constants/events"
	"Excusas/services/apperr"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Emitter delivers an event to every session joined to a room.
type Emitter interface {
	EmitToRoom(roomID, event string, payload any)
}

// Session is the transport side of a connected client.
type Session interface {
	ID() string
	JoinRoom(roomID string)
	LeaveRoom(roomID string)
}

// Membership is what the registry knows about a joined session.
type Membership struct {
	RoomID     string
	PlayerName string
}

// Registry maps sessions to rooms and fans events out to rooms. A session
// belongs to at most one room at a time.
type Registry struct {
	state   State
	emitter Emitter

	mu       sync.Mutex
	sessions map[string]Membership

	// Serializes emissions so sessions see room events in completion order.
	emitMu sync.Mutex
}

func NewRegistry(state State, emitter Emitter) *Registry {
	if state == nil {
		state = NewMemoryState()
	}
	return &Registry{
		state:    state,
		emitter:  emitter,
		sessions: make(map[string]Membership),
	}
}

// Join puts the session in roomID under playerName and announces it to the
// room. Re-joining the same room with the same name changes nothing and
// announces nothing; joining another room leaves the previous one first.
// It reports whether the membership changed.
func (r *Registry) Join(ctx context.Context, session Session, roomID, playerName string) (bool, error) {
	roomID = strings.TrimSpace(roomID)
	playerName = strings.TrimSpace(playerName)
	if roomID == "" {
		return false, apperr.Validation("Falta el ID de la sala")
	}
	if playerName == "" {
		return false, apperr.Validation("Falta el nombre del jugador")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := Membership{RoomID: roomID, PlayerName: playerName}
	prev, joined := r.sessions[session.ID()]
	if joined && prev == next {
		log.Printf("[JOIN] Session %s already in room %s as %s", session.ID(), roomID, playerName)
		return false, nil
	}
	if joined {
		r.leaveLocked(ctx, session, prev, fmt.Sprintf("%s salió de la sala", prev.PlayerName))
	}

	if err := r.state.AddPlayer(ctx, roomID, playerName); err != nil {
		log.Printf("[JOIN-ERROR] Error registering %s in room %s: %v", playerName, roomID, err)
		return false, apperr.Persistence("Error al unirse a la sala", err)
	}
	r.sessions[session.ID()] = next
	session.JoinRoom(roomID)

	r.Broadcast(roomID, events.PlayerJoined, map[string]any{
		"playerName": playerName,
		"message":    fmt.Sprintf("%s se unió a la sala", playerName),
	})
	log.Printf("[JOIN-SUCCESS] %s joined room %s", playerName, roomID)
	return true, nil
}

// Leave removes the session from its room. Nothing is announced when the
// session never joined one.
func (r *Registry) Leave(ctx context.Context, session Session) (Membership, bool) {
	return r.remove(ctx, session, "%s salió de la sala")
}

// Disconnect is Leave for a session whose connection is gone.
func (r *Registry) Disconnect(ctx context.Context, session Session) (Membership, bool) {
	return r.remove(ctx, session, "%s se desconectó")
}

func (r *Registry) remove(ctx context.Context, session Session, format string) (Membership, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.sessions[session.ID()]
	if !ok {
		return Membership{}, false
	}
	r.leaveLocked(ctx, session, m, fmt.Sprintf(format, m.PlayerName))
	return m, true
}

func (r *Registry) leaveLocked(ctx context.Context, session Session, m Membership, message string) {
	delete(r.sessions, session.ID())
	if err := r.state.RemovePlayer(ctx, m.RoomID, m.PlayerName); err != nil {
		log.Printf("[LEAVE-ERROR] Error removing %s from room %s: %v", m.PlayerName, m.RoomID, err)
	}
	r.Broadcast(m.RoomID, events.PlayerLeft, map[string]any{
		"playerName": m.PlayerName,
		"message":    message,
	})
	session.LeaveRoom(m.RoomID)
	log.Printf("[LEAVE] %s left room %s", m.PlayerName, m.RoomID)
}

// Membership returns the room the session is in.
func (r *Registry) Membership(sessionID string) (Membership, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.sessions[sessionID]
	return m, ok
}

func (r *Registry) Players(ctx context.Context, roomID string) ([]string, error) {
	players, err := r.state.Players(ctx, roomID)
	if err != nil {
		return nil, apperr.Persistence("Error al obtener los jugadores", err)
	}
	return players, nil
}

// Broadcast sends event to every session of roomID.
func (r *Registry) Broadcast(roomID, event string, payload any) {
	if roomID == "" || r.emitter == nil {
		return
	}
	r.emitMu.Lock()
	defer r.emitMu.Unlock()
	r.emitter.EmitToRoom(roomID, event, payload)
}

// ClaimBattle reserves the room's battle slot for battleID. When the slot is
// taken it returns the holder and false.
func (r *Registry) ClaimBattle(ctx context.Context, roomID, battleID string) (string, bool, error) {
	return r.state.ClaimBattle(ctx, roomID, battleID)
}

func (r *Registry) ReleaseBattle(ctx context.Context, roomID, battleID string) error {
	return r.state.ReleaseBattle(ctx, roomID, battleID)
}

func (r *Registry) ActiveBattle(ctx context.Context, roomID string) (string, error) {
	return r.state.ActiveBattle(ctx, roomID)
}
