package httpserver

import (
	"github.com/gin-gonic/gin"

	"orderpad/internal/session"
)

// agentHeader carries the authenticated rep's identifier. An absent header
// maps to the shared pre-login session.
const agentHeader = "X-Agent-ID"

const sessionCtxKey = "orderpad.session"

// agentMiddleware resolves the caller's session and stores it on the gin
// context for the handlers downstream.
func agentMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		agentID := c.GetHeader(agentHeader)
		sess := sessions.Get(c.Request.Context(), agentID)
		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(sessionCtxKey).(*session.Session)
}
