package controllers

import (
	"Excusas/services/apperr"
	"Excusas/services/rooms"
	"Excusas/utils"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type playerRequest struct {
	PlayerName string `json:"playerName" binding:"required,max=50"`
}

// @Summary Players in a room
// @Tags rooms
// @Produce json
// @Param roomId path string true "Room"
// @Success 200 {object} object{success=boolean,roomId=string,players=[]string,activeBattle=string}
// @Router /api/rooms/{roomId}/players [get]
func RoomPlayers(registry *rooms.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")
		players, err := registry.Players(c.Request.Context(), roomID)
		if err != nil {
			utils.RespondError(c, err, "Error al obtener los jugadores")
			return
		}
		active, err := registry.ActiveBattle(c.Request.Context(), roomID)
		if err != nil {
			utils.RespondError(c, apperr.Persistence("Error al obtener la batalla activa", err), "")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"roomId":       roomID,
			"players":      players,
			"activeBattle": active,
		})
	}
}

// @Summary Sets the session player
// @Description Remembers the display name in the session cookie. Requests that omit playerName use it.
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body object{playerName=string} true "Player"
// @Success 200 {object} object{success=boolean,playerName=string}
// @Failure 400 {object} object{success=boolean,error=string}
// @Router /api/player [post]
func SetPlayer(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.PlayerName) == "" {
		utils.RespondError(c, apperr.Validation("Falta el nombre del jugador"), "")
		return
	}

	name := strings.TrimSpace(req.PlayerName)
	session := sessions.Default(c)
	session.Set(sessionPlayerKey, name)
	if err := session.Save(); err != nil {
		utils.RespondError(c, apperr.Persistence("Error al guardar la sesión", err), "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "playerName": name})
}
