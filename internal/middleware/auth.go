package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/response"
	"github.com/vinilopesc/vortex-board/internal/service"
)

const principalKey = "principal"

// TokenValidator checks a bearer token and returns the identity it carries
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.TokenClaims, error)
}

// Auth returns a middleware that authenticates requests and stores the
// resulting principal in the request context. The token comes from the
// Authorization header, or from the token query parameter for websocket
// clients that cannot set headers.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "authorization required")
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(principalKey, access.Principal{
			UserID: claims.UserID,
			Tenant: claims.Tenant,
			Role:   claims.Role,
		})
		c.Set("user_name", claims.Name)
		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1], true
		}
		return "", false
	}
	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", false
}

// GetPrincipal returns the principal stored by Auth
func GetPrincipal(c *gin.Context) (access.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return access.Principal{}, false
	}
	principal, ok := v.(access.Principal)
	return principal, ok
}

// GetUserName returns the display name stored by Auth
func GetUserName(c *gin.Context) string {
	if v, ok := c.Get("user_name"); ok {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
