package handlers

import (
	"context"
	"log"
)

type voteExcusePayload struct {
	ExcuseID   string `json:"excuseId"`
	PlayerName string `json:"playerName"`
	RoomID     string `json:"roomId"`
}

// HandleVoteExcuse votes for an excuse. The result reaches the room as
// vote-update; only the voter hears about failures.
func HandleVoteExcuse(svc ExcuseVoter, client Client) func(args ...interface{}) {
	return func(args ...interface{}) {
		var p voteExcusePayload
		if !decode(client, "VOTE", args, &p) {
			return
		}
		if _, err := svc.Vote(context.Background(), p.ExcuseID, p.PlayerName, p.RoomID); err != nil {
			log.Printf("[VOTE-ERROR] %s could not vote for %s: %v", p.PlayerName, p.ExcuseID, err)
			emitError(client, err, "Error al votar")
		}
	}
}
