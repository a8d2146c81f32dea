package middleware

import (
	"net/http"

	"github.com/osworks/backend/internal/domain/identity"
	"github.com/osworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantGuard rejects requests whose tenant has been deactivated.
// Runs after Auth, which already placed the tenant in the request
// context for the persistence scope.
func TenantGuard(tenantRepo identity.TenantRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := GetTenantID(c)
		if tenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse("TOKEN_INVALID", "Authentication required"))
			return
		}

		tenant, err := tenantRepo.FindByID(c.Request.Context(), tenantID)
		if err != nil {
			logger.Warn("tenant lookup failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("TENANT_INACTIVE", "Tenant not found or inactive"))
			return
		}
		if !tenant.Active {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("TENANT_INACTIVE", "Tenant is inactive"))
			return
		}

		c.Next()
	}
}
