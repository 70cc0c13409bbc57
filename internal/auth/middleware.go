package auth

import (
	"net/http"

	"leadconvert/internal/auth/service"
	"leadconvert/platform/config"
	"leadconvert/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Middleware resolves the session cookie into a request identity. Requests
// without a valid session are rejected with 401.
func Middleware(svc *service.Service, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken, err := c.Cookie(cfg.GetSessionCookieName())
		if err != nil || sessionToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpkit.ErrorResponse{Message: "not authenticated"})
			return
		}

		user, err := svc.ResolveSession(c.Request.Context(), sessionToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpkit.ErrorResponse{Message: "Session expired or invalid"})
			return
		}

		c.Set(httpkit.ContextUserIDKey, user.ID)
		c.Set(httpkit.ContextRoleKey, user.Role)
		c.Next()
	}
}
