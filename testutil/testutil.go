package testutil

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Excusas/config"
	"Excusas/services/gemini"

	"gorm.io/gorm"
)

// NewTestDB opens a migrated in-memory SQLite database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.ConnectSQLite(":memory:", false)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Emitted is one event captured by RecordingEmitter.
type Emitted struct {
	Room    string
	Event   string
	Payload any
}

// RecordingEmitter captures every room emission, in order.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []Emitted
}

func (e *RecordingEmitter) EmitToRoom(roomID, event string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, Emitted{Room: roomID, Event: event, Payload: payload})
}

func (e *RecordingEmitter) Events() []Emitted {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Emitted(nil), e.events...)
}

// Named returns the captured events called event.
func (e *RecordingEmitter) Named(event string) []Emitted {
	var out []Emitted
	for _, ev := range e.Events() {
		if ev.Event == event {
			out = append(out, ev)
		}
	}
	return out
}

// Payload returns a captured payload as the map the services emit.
func Payload(t *testing.T, ev Emitted) map[string]any {
	t.Helper()
	m, ok := ev.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload of %s is %T, want map[string]any", ev.Event, ev.Payload)
	}
	return m
}

// FakeSession is a rooms.Session that remembers the transport rooms it is in.
type FakeSession struct {
	SessionID string

	mu    sync.Mutex
	rooms map[string]bool
}

func NewFakeSession(id string) *FakeSession {
	return &FakeSession{SessionID: id, rooms: make(map[string]bool)}
}

func (s *FakeSession) ID() string { return s.SessionID }

func (s *FakeSession) JoinRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[roomID] = true
}

func (s *FakeSession) LeaveRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
}

func (s *FakeSession) InRoom(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[roomID]
}

// FakeGateway is a scriptable gemini.Gateway. Nil funcs answer with fixed
// text and no image.
type FakeGateway struct {
	Text  func(req gemini.TextRequest) (string, error)
	Image func(prompt string) (string, error)

	mu           sync.Mutex
	textRequests []gemini.TextRequest
	imagePrompts []string
}

func (g *FakeGateway) GenerateText(ctx context.Context, req gemini.TextRequest) (string, error) {
	g.mu.Lock()
	g.textRequests = append(g.textRequests, req)
	g.mu.Unlock()
	if g.Text == nil {
		return "Un pato me robó las llaves.", nil
	}
	return g.Text(req)
}

func (g *FakeGateway) GenerateImage(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.imagePrompts = append(g.imagePrompts, prompt)
	g.mu.Unlock()
	if g.Image == nil {
		return "", errors.New("no image")
	}
	return g.Image(prompt)
}

func (g *FakeGateway) TextRequests() []gemini.TextRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gemini.TextRequest(nil), g.textRequests...)
}

func (g *FakeGateway) ImagePrompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.imagePrompts...)
}
