package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/osworks/backend/internal/infrastructure/auth"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"github.com/osworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys set by the auth middleware
const (
	ClaimsKey     = "jwt_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Auth validates the bearer token, rejects revoked tokens and stores
// the claims in the gin context. The tenant and user identifiers are
// also pushed into the request context so that persistence-level
// tenant scoping and log enrichment see them.
func Auth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, "TOKEN_INVALID", "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "TOKEN_INVALID", "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(header, BearerPrefix)

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			code := "TOKEN_INVALID"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = "TOKEN_EXPIRED"
			}
			abortUnauthorized(c, code, "Token validation failed")
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Warn("token blacklist check failed", zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
				return
			}
		}

		c.Set(ClaimsKey, claims)

		ctx, _ := logger.WithTenantID(c.Request.Context(), log, claims.TenantID)
		ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClaims returns the authenticated claims, or nil when the request
// did not pass the auth middleware
func GetClaims(c *gin.Context) *auth.Claims {
	if value, exists := c.Get(ClaimsKey); exists {
		if claims, ok := value.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetTenantID returns the authenticated tenant ID, uuid.Nil when absent
func GetTenantID(c *gin.Context) uuid.UUID {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, err := claims.GetTenantUUID()
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetUserID returns the authenticated user ID, uuid.Nil when absent
func GetUserID(c *gin.Context) uuid.UUID {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil
	}
	return id
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}
