package controllers

import (
	"Excusas/services/battle"
	"Excusas/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type startBattleRequest struct {
	RoomID     string `json:"roomId"`
	Challenger string `json:"challenger"`
	Challenged string `json:"challenged"`
	Level      int    `json:"level"`
}

type submitBattleRequest struct {
	BattleID   string `json:"battleId"`
	PlayerName string `json:"playerName"`
	ExcuseID   string `json:"excuseId"`
}

// @Summary Starts a battle
// @Description Creates a battle with a generated theme and announces it to the room. One battle per room at a time.
// @Tags battle
// @Accept json
// @Produce json
// @Param request body object{roomId=string,challenger=string,challenged=string,level=integer} true "Battle"
// @Success 200 {object} object{success=boolean,battleId=string,theme=string}
// @Failure 400 {object} object{success=boolean,error=string}
// @Failure 409 {object} object{success=boolean,error=string}
// @Router /api/battle/start [post]
func StartBattle(orch *battle.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startBattleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, errBadBody, "")
			return
		}

		b, err := orch.Start(c.Request.Context(), req.RoomID, req.Challenger, req.Challenged, req.Level)
		if err != nil {
			utils.RespondError(c, err, "Error al iniciar batalla")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"battleId": b.ID,
			"theme":    b.Theme,
			"level":    b.Level,
		})
	}
}

// @Summary Submits an excuse to a battle
// @Description The second submission is judged before answering
// @Tags battle
// @Accept json
// @Produce json
// @Param request body object{battleId=string,playerName=string,excuseId=string} true "Submission"
// @Success 200 {object} object{success=boolean,winner=string,analysis=object,message=string,waitingFor=string}
// @Failure 403 {object} object{success=boolean,error=string}
// @Failure 404 {object} object{success=boolean,error=string}
// @Failure 409 {object} object{success=boolean,error=string}
// @Router /api/battle/submit [post]
func SubmitBattle(orch *battle.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitBattleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, errBadBody, "")
			return
		}

		res, err := orch.Submit(c.Request.Context(), req.BattleID, playerName(c, req.PlayerName), req.ExcuseID)
		if err != nil {
			utils.RespondError(c, err, "Error al enviar excusa")
			return
		}
		if !res.Judged {
			c.JSON(http.StatusOK, gin.H{
				"success":    true,
				"message":    "Excusa enviada, esperando al oponente",
				"waitingFor": res.WaitingFor,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"winner":   res.Winner,
			"analysis": res.Analysis,
		})
	}
}

// @Summary Gets a battle
// @Tags battle
// @Produce json
// @Param id path string true "Battle id"
// @Success 200 {object} object{success=boolean,battle=object}
// @Failure 404 {object} object{success=boolean,error=string}
// @Router /api/battle/{id} [get]
func GetBattle(orch *battle.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := orch.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondError(c, err, "Error al obtener la batalla")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "battle": b})
	}
}
