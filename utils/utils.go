package utils

import (
	"Excusas/services/apperr"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandler logs the errors attached to the request and answers with a
// 500 when a handler panicked or failed without writing a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[HTTP-PANIC] %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error interno del servidor"})
			}
		}()

		c.Next()

		for _, e := range c.Errors {
			log.Printf("[HTTP-ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, e.Err)
		}
		if len(c.Errors) > 0 && !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error interno del servidor"})
		}
	}
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrDuplicateVote), errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the error body shared by every endpoint.
func RespondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)
	c.JSON(StatusFor(err), gin.H{"success": false, "error": apperr.Message(err, fallback)})
}
