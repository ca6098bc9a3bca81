package handlers

import (
	"context"
	"log"
)

type joinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

func HandleJoinRoom(registry Registry, client Client) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[JOIN] HandleJoinRoom iniciado - Socket ID: %s, Args: %v", client.ID(), args)

		var p joinRoomPayload
		if !decode(client, "JOIN", args, &p) {
			return
		}
		if _, err := registry.Join(context.Background(), client, p.RoomID, p.PlayerName); err != nil {
			log.Printf("[JOIN-ERROR] %s could not join %s: %v", p.PlayerName, p.RoomID, err)
			emitError(client, err, "Error al unirse a la sala")
		}
	}
}

func HandleLeaveRoom(registry Registry, client Client) func(args ...interface{}) {
	return func(args ...interface{}) {
		if m, ok := registry.Leave(context.Background(), client); ok {
			log.Printf("[LEAVE] %s left room %s", m.PlayerName, m.RoomID)
		}
	}
}

// HandleDisconnect announces the departure and forgets the socket.
func HandleDisconnect(registry Registry, client Client, forget func(id string)) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] Socket %s disconnected: %v", client.ID(), args)
		registry.Disconnect(context.Background(), client)
		if forget != nil {
			forget(client.ID())
		}
	}
}
