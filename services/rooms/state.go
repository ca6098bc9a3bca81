package rooms

import (
	"context"
	"sort"
	"sync"
)

// State stores the transient per-room data: presence and the active battle
// slot. RedisClient implements it for multi-connection setups; MemoryState is
// used when no Redis is configured.
type State interface {
	AddPlayer(ctx context.Context, roomID, playerName string) error
	RemovePlayer(ctx context.Context, roomID, playerName string) error
	Players(ctx context.Context, roomID string) ([]string, error)
	ClaimBattle(ctx context.Context, roomID, battleID string) (string, bool, error)
	ReleaseBattle(ctx context.Context, roomID, battleID string) error
	ActiveBattle(ctx context.Context, roomID string) (string, error)
}

type MemoryState struct {
	mu      sync.Mutex
	players map[string]map[string]int
	battles map[string]string
}

func NewMemoryState() *MemoryState {
	return &MemoryState{
		players: make(map[string]map[string]int),
		battles: make(map[string]string),
	}
}

func (s *MemoryState) AddPlayer(_ context.Context, roomID, playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.players[roomID]
	if !ok {
		room = make(map[string]int)
		s.players[roomID] = room
	}
	room[playerName]++
	return nil
}

func (s *MemoryState) RemovePlayer(_ context.Context, roomID, playerName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := s.players[roomID]
	if room == nil {
		return nil
	}
	room[playerName]--
	if room[playerName] <= 0 {
		delete(room, playerName)
	}
	if len(room) == 0 {
		delete(s.players, roomID)
	}
	return nil
}

func (s *MemoryState) Players(_ context.Context, roomID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := make([]string, 0, len(s.players[roomID]))
	for name := range s.players[roomID] {
		players = append(players, name)
	}
	sort.Strings(players)
	return players, nil
}

func (s *MemoryState) ClaimBattle(_ context.Context, roomID, battleID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.battles[roomID]; ok {
		return current, false, nil
	}
	s.battles[roomID] = battleID
	return battleID, true, nil
}

func (s *MemoryState) ReleaseBattle(_ context.Context, roomID, battleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.battles[roomID] == battleID {
		delete(s.battles, roomID)
	}
	return nil
}

func (s *MemoryState) ActiveBattle(_ context.Context, roomID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battles[roomID], nil
}
