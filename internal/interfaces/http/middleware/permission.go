package middleware

import (
	"net/http"
	"strings"

	"github.com/osworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequirePermission creates middleware that enforces a permission key
// expression. Multiple acceptable keys are pipe-delimited, e.g.
// "os.view|os.manage"; holding any one of them is enough.
//
// Order of checks: a tenant route parameter or header differing from
// the claims tenant is a mismatch, the admin profile bypasses
// everything, a wildcard entry in the permission set grants
// everything, then the OR-set is matched.
func RequirePermission(expression string) gin.HandlerFunc {
	required := splitExpression(expression)

	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse("TOKEN_INVALID", "Authentication required"))
			return
		}

		if requestTenant := requestTenantID(c); requestTenant != "" && requestTenant != claims.TenantID {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse("TENANT_MISMATCH", "Access denied: tenant mismatch"))
			return
		}

		if claims.IsAdmin() {
			c.Next()
			return
		}

		if !claims.HasAnyPermission(required...) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "No permission"))
			return
		}

		c.Next()
	}
}

// requestTenantID returns a tenant explicitly named by the request
// itself, empty when the request carries none
func requestTenantID(c *gin.Context) string {
	if id := c.Param("tenant_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Tenant-ID")
}

func splitExpression(expression string) []string {
	parts := strings.Split(expression, "|")
	keys := make([]string, 0, len(parts))
	for _, part := range parts {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
