package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	appbilling "github.com/osworks/backend/internal/application/billing"
	"github.com/osworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubscriptionGate answers the gate queries. Implemented by the billing
// application service.
type SubscriptionGate interface {
	IsReadOnly(ctx context.Context, tenantID uuid.UUID) (bool, error)
	HasFeature(ctx context.Context, tenantID uuid.UUID, feature string) (bool, error)
	CheckLimit(ctx context.Context, tenantID uuid.UUID, key string) (*appbilling.LimitCheck, error)
}

// Gates builds the subscription middleware chain pieces from a single
// gate implementation
type Gates struct {
	gate   SubscriptionGate
	logger *zap.Logger
}

// NewGates creates the subscription gate middleware factory
func NewGates(gate SubscriptionGate, logger *zap.Logger) *Gates {
	return &Gates{gate: gate, logger: logger}
}

// ReadOnly blocks mutating verbs for tenants in read-only mode.
// GET, HEAD and OPTIONS always pass, as does logout so a locked-out
// user can still end the session.
func (g *Gates) ReadOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if strings.HasSuffix(c.Request.URL.Path, "/auth/logout") {
			c.Next()
			return
		}

		readOnly, err := g.gate.IsReadOnly(c.Request.Context(), GetTenantID(c))
		if err != nil {
			g.fail(c, err)
			return
		}
		if readOnly {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.ErrCodeSaaSReadOnly,
				"Assinatura inativa: acesso somente leitura",
			))
			return
		}
		c.Next()
	}
}

// RequireFeature denies the request when the tenant's plan does not
// enable the named feature flag
func (g *Gates) RequireFeature(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		enabled, err := g.gate.HasFeature(c.Request.Context(), GetTenantID(c), feature)
		if err != nil {
			g.fail(c, err)
			return
		}
		if !enabled {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.ErrCodeSaaSFeatureBlocked,
				"Recurso não disponível no seu plano: "+feature,
			))
			return
		}
		c.Next()
	}
}

// RequireLimit denies the request when the counted resource behind the
// limit key has reached the plan's ceiling
func (g *Gates) RequireLimit(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		g.enforceLimit(c, key)
	}
}

// RequireLimitOnActivation applies the limit only when the request body
// sets the active flag to true. Deactivations and plain field updates
// never consume quota.
func (g *Gates) RequireLimitOnActivation(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid request body"))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var probe struct {
			Active *bool `json:"active"`
		}
		if err := json.Unmarshal(body, &probe); err != nil || probe.Active == nil || !*probe.Active {
			c.Next()
			return
		}

		g.enforceLimit(c, key)
	}
}

func (g *Gates) enforceLimit(c *gin.Context, key string) {
	check, err := g.gate.CheckLimit(c.Request.Context(), GetTenantID(c), key)
	if err != nil {
		g.fail(c, err)
		return
	}
	if !check.Allowed {
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewLimitErrorResponse(
			dto.ErrCodeSaaSLimitReached,
			"Limite do plano atingido: "+key,
			check.Current, check.Max,
		))
		return
	}
	c.Next()
}

// fail logs the gate failure and denies the request. A gate that
// cannot be evaluated must not silently allow.
func (g *Gates) fail(c *gin.Context, err error) {
	g.logger.Error("subscription gate check failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
		dto.ErrCodeSaaSReadOnly,
		"Não foi possível validar a assinatura",
	))
}
