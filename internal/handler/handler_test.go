package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vinilopesc/vortex-board/internal/access"
	"github.com/vinilopesc/vortex-board/internal/domain"
)

// setupTestRouter creates a bare engine with the given principal already
// installed, standing in for the auth middleware. A nil principal builds an
// unauthenticated router.
func setupTestRouter(principal *access.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if principal != nil {
		router.Use(func(c *gin.Context) {
			c.Set("principal", *principal)
			c.Set("user_name", "Dana Silva")
			c.Next()
		})
	}
	return router
}

func workerPrincipal() access.Principal {
	return access.Principal{UserID: uuid.New(), Tenant: "acme", Role: domain.RoleWorker}
}
