package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// @Summary Endpoint just pings the server
// @Description Returns a basic message
// @Tags test
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Health check
// @Description Reports that the API is up
// @Tags test
// @Produce json
// @Success 200 {object} object{status=string,message=string,timestamp=string}
// @Router /api/health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "🎭 Generador de Excusas Absurdas API",
		"timestamp": time.Now(),
	})
}
