package controllers

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionPlayerKey = "playerName"

// playerName returns name, or the display name stored in the cookie session
// when name is blank.
func playerName(c *gin.Context, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	if stored, ok := sessions.Default(c).Get(sessionPlayerKey).(string); ok {
		return stored
	}
	return ""
}
