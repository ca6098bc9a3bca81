package controllers

import (
	"Excusas/services/apperr"
	"Excusas/services/excuses"
	"Excusas/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type generateExcuseRequest struct {
	Situation      string `json:"situation"`
	AbsurdityLevel *int   `json:"absurdityLevel"`
	SocialContext  string `json:"socialContext"`
	RoomID         string `json:"roomId"`
	PlayerName     string `json:"playerName"`
}

type voteRequest struct {
	PlayerName string `json:"playerName"`
}

var errBadBody = apperr.Validation("Cuerpo de la petición inválido")

// @Summary Generates an excuse
// @Description Writes an excuse for the situation at the requested absurdity level (-1..5, default 2). Level 2 and above also get an illustration.
// @Tags excuses
// @Accept json
// @Produce json
// @Param request body object{situation=string,absurdityLevel=integer,socialContext=string,roomId=string,playerName=string} true "Excuse request"
// @Success 200 {object} object{success=boolean,excuse=string,imageUrl=string,metadata=object}
// @Failure 400 {object} object{success=boolean,error=string}
// @Failure 502 {object} object{success=boolean,error=string}
// @Router /api/generate-excuse [post]
func GenerateExcuse(svc *excuses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateExcuseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, errBadBody, "")
			return
		}

		res, err := svc.Generate(c.Request.Context(), excuses.GenerateRequest{
			Situation:      req.Situation,
			AbsurdityLevel: req.AbsurdityLevel,
			SocialContext:  req.SocialContext,
			RoomID:         req.RoomID,
			PlayerName:     playerName(c, req.PlayerName),
		})
		if err != nil {
			utils.RespondError(c, err, "Error al generar la excusa")
			return
		}

		var imageURL any
		if res.ImageURL != "" {
			imageURL = res.ImageURL
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"excuse":   res.Excuse,
			"imageUrl": imageURL,
			"metadata": res.Metadata,
		})
	}
}

// @Summary Lists excuses
// @Description Newest first. Optionally filtered by room.
// @Tags excuses
// @Produce json
// @Param roomId query string false "Room"
// @Param limit query integer false "Max results (default 20, max 100)"
// @Success 200 {object} object{success=boolean,excuses=[]object}
// @Failure 400 {object} object{success=boolean,error=string}
// @Router /api/excuses [get]
func ListExcuses(svc *excuses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				utils.RespondError(c, apperr.Validation("El límite debe ser un número"), "")
				return
			}
			limit = n
		}

		list, err := svc.List(c.Request.Context(), c.Query("roomId"), limit)
		if err != nil {
			utils.RespondError(c, err, "Error al obtener el historial")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "excuses": list})
	}
}

// @Summary Votes for an excuse
// @Description A player can vote for an excuse only once
// @Tags excuses
// @Accept json
// @Produce json
// @Param id path string true "Excuse id"
// @Param request body object{playerName=string} false "Voter (defaults to the session player)"
// @Success 200 {object} object{success=boolean,votes=integer}
// @Failure 404 {object} object{success=boolean,error=string}
// @Failure 409 {object} object{success=boolean,error=string}
// @Router /api/vote/{id} [post]
func VoteExcuse(svc *excuses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req voteRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.RespondError(c, errBadBody, "")
				return
			}
		}

		excuse, err := svc.Vote(c.Request.Context(), c.Param("id"), playerName(c, req.PlayerName), "")
		if err != nil {
			utils.RespondError(c, err, "Error al votar")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "votes": excuse.Votes})
	}
}

// @Summary Room leaderboard
// @Description Top players by total votes and the most voted excuses of a room
// @Tags excuses
// @Produce json
// @Param roomId path string true "Room"
// @Success 200 {object} object{success=boolean,players=[]object,leaderboard=[]object}
// @Router /api/leaderboard/{roomId} [get]
func Leaderboard(svc *excuses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		board, err := svc.Leaderboard(c.Request.Context(), c.Param("roomId"))
		if err != nil {
			utils.RespondError(c, err, "Error al obtener el leaderboard")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"players":     board.Players,
			"leaderboard": board.Excuses,
		})
	}
}

// @Summary Exports an excuse
// @Description Plain text document with the excuse and its metadata
// @Tags excuses
// @Produce plain
// @Param id path string true "Excuse id"
// @Success 200 {string} string
// @Failure 404 {object} object{success=boolean,error=string}
// @Router /api/export/{id} [get]
func ExportExcuse(svc *excuses.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename, content, err := svc.Export(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.RespondError(c, err, "Error al exportar la excusa")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
	}
}
