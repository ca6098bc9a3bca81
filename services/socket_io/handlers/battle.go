package handlers

import (
	"context"
	"log"
)

type challengePayload struct {
	RoomID     string `json:"roomId"`
	Challenger string `json:"challenger"`
	Target     string `json:"target"`
	Level      int    `json:"level"`
}

type startBattlePayload struct {
	RoomID     string `json:"roomId"`
	Challenger string `json:"challenger"`
	Challenged string `json:"challenged"`
	Level      int    `json:"level"`
}

type submitBattlePayload struct {
	BattleID   string `json:"battleId"`
	PlayerName string `json:"playerName"`
	ExcuseID   string `json:"excuseId"`
}

func HandleSendChallenge(battles Battles, client Client) func(args ...interface{}) {
	return func(args ...interface{}) {
		var p challengePayload
		if !decode(client, "CHALLENGE", args, &p) {
			return
		}
		if err := battles.IssueChallenge(p.RoomID, p.Challenger, p.Target, p.Level); err != nil {
			emitError(client, err, "Error al enviar el reto")
		}
	}
}

func HandleStartBattle(battles Battles, client Client) func(args ...interface{}) {
	return func(args ...interface{}) {
		var p startBattlePayload
		if !decode(client, "BATTLE", args, &p) {
			return
		}
		if _, err := battles.Start(context.Background(), p.RoomID, p.Challenger, p.Challenged, p.Level); err != nil {
			log.Printf("[BATTLE-ERROR] Error starting battle in %s: %v", p.RoomID, err)
			emitError(client, err, "Error al iniciar batalla")
		}
	}
}

// HandleSubmitBattleExcuse runs the submission off the event loop: the second
// submission waits for the judge. Outcomes reach the room by broadcast.
func HandleSubmitBattleExcuse(battles Battles, client Client) func(args ...interface{}) {
	return func(args ...interface{}) {
		var p submitBattlePayload
		if !decode(client, "BATTLE", args, &p) {
			return
		}
		go func() {
			if _, err := battles.Submit(context.Background(), p.BattleID, p.PlayerName, p.ExcuseID); err != nil {
				log.Printf("[BATTLE-ERROR] Error submitting to battle %s: %v", p.BattleID, err)
				emitError(client, err, "Error al enviar excusa")
			}
		}()
	}
}
