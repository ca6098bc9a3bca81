package socketio_types

import (
	"log"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer wraps the socket.io server and tracks the connected sockets
// by socket id.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track socket id -> socket connections
	Connections map[string]*socket.Socket
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Sio_server:  socket.NewServer(nil, nil),
		Connections: make(map[string]*socket.Socket),
	}
}

func (s *SocketServer) AddConnection(client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Connections[string(client.Id())] = client
}

func (s *SocketServer) RemoveConnection(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.Connections, id)
}

func (s *SocketServer) ConnectionCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.Connections)
}

// EmitToRoom sends event to every socket joined to roomID.
func (s *SocketServer) EmitToRoom(roomID, event string, payload any) {
	log.Printf("[EMIT] %s -> room %s", event, roomID)
	s.Sio_server.To(socket.Room(roomID)).Emit(event, payload)
}

// ClientSession adapts a connected socket to the room registry.
type ClientSession struct {
	client *socket.Socket
}

func NewClientSession(client *socket.Socket) *ClientSession {
	return &ClientSession{client: client}
}

func (c *ClientSession) ID() string {
	return string(c.client.Id())
}

func (c *ClientSession) JoinRoom(roomID string) {
	c.client.Join(socket.Room(roomID))
}

func (c *ClientSession) LeaveRoom(roomID string) {
	c.client.Leave(socket.Room(roomID))
}

func (c *ClientSession) Emit(event string, args ...any) {
	c.client.Emit(event, args...)
}
