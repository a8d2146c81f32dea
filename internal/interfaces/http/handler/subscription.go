package handler

import (
	appbilling "github.com/osworks/backend/internal/application/billing"
	"github.com/osworks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler exposes the tenant's subscription status
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService *appbilling.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService *appbilling.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// RegisterRoutes registers the subscription endpoints
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/subscription")
	group.GET("", h.Status)
	group.PUT("/plan", middleware.RequirePermission("assinatura.manage"), h.ChangePlan)
}

// Status returns the subscription with its plan and read-only flag.
// Any authenticated user may read it; the frontend uses it to decide
// which actions to offer.
func (h *SubscriptionHandler) Status(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	status, err := h.subscriptionService.Status(c.Request.Context(), tid)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// ChangePlan moves the tenant to a different plan
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var req appbilling.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	status, err := h.subscriptionService.ChangePlan(c.Request.Context(), tid, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}
