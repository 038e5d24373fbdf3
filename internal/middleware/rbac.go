package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vantora-labs/tenant-admin-api/internal/models"
	"github.com/vantora-labs/tenant-admin-api/internal/service"
	appErrors "github.com/vantora-labs/tenant-admin-api/pkg/errors"
	"github.com/vantora-labs/tenant-admin-api/pkg/response"
)

// RequireRole enforces a minimum role for a route group. The role ladder
// lives in the access gate; a higher role always passes.
func RequireRole(gate *service.AccessGate, minimum models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentUser(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if err := gate.Authorize(claims, minimum); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
