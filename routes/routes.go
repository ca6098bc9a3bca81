package routes

import (
	"Excusas/controllers"
	"Excusas/services/battle"
	"Excusas/services/excuses"
	"Excusas/services/rooms"
	utils "Excusas/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services are the game services behind the HTTP API.
type Services struct {
	Excuses  *excuses.Service
	Battles  *battle.Orchestrator
	Registry *rooms.Registry
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, svc Services) {
	// utils global
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/ping", controllers.Ping)

	api := router.Group("/api")
	{
		api.GET("/health", controllers.Health)

		api.POST("/player", controllers.SetPlayer)

		api.POST("/generate-excuse", controllers.GenerateExcuse(svc.Excuses))

		api.GET("/excuses", controllers.ListExcuses(svc.Excuses))

		api.POST("/vote/:id", controllers.VoteExcuse(svc.Excuses))

		api.GET("/leaderboard/:roomId", controllers.Leaderboard(svc.Excuses))

		api.GET("/export/:id", controllers.ExportExcuse(svc.Excuses))

		api.POST("/battle/start", controllers.StartBattle(svc.Battles))

		api.POST("/battle/submit", controllers.SubmitBattle(svc.Battles))

		api.GET("/battle/:id", controllers.GetBattle(svc.Battles))

		api.GET("/rooms/:roomId/players", controllers.RoomPlayers(svc.Registry))
	}
}
