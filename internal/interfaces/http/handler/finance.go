package handler

import (
	appfinance "github.com/osworks/backend/internal/application/finance"
	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// FinanceHandler handles ledger and PIX payment requests
type FinanceHandler struct {
	BaseHandler
	financeService *appfinance.FinanceService
	gates          *middleware.Gates
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(financeService *appfinance.FinanceService, gates *middleware.Gates) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		gates:          gates,
	}
}

// RegisterRoutes registers the finance endpoints. Creating a PIX charge
// requires the pix feature on the tenant's plan.
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	finance := rg.Group("/finance")
	finance.GET("/entries", middleware.RequirePermission("financeiro.view|financeiro.manage"), h.List)
	finance.GET("/entries/:id", middleware.RequirePermission("financeiro.view|financeiro.manage"), h.Get)
	finance.POST("/entries", middleware.RequirePermission("financeiro.manage"), h.CreateEntry)
	finance.POST("/entries/:id/cancel", middleware.RequirePermission("financeiro.manage"), h.Cancel)
	finance.POST("/entries/:id/confirm", middleware.RequirePermission("financeiro.manage"), h.ConfirmPayment)
	finance.POST("/entries/:id/pix",
		middleware.RequirePermission("financeiro.manage"),
		h.gates.RequireFeature(billing.FeaturePix),
		h.CreatePixCharge)
	finance.GET("/entries/:id/payment", middleware.RequirePermission("financeiro.view|financeiro.manage"), h.GetPayment)
}

// List returns a page of the tenant's ledger entries
func (h *FinanceHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	page, err := h.financeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one ledger entry
func (h *FinanceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	entry, err := h.financeService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// CreateEntry registers a standalone ledger entry
func (h *FinanceHandler) CreateEntry(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var req appfinance.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.financeService.CreateEntry(c.Request.Context(), tid, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Cancel cancels a pending ledger entry
func (h *FinanceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	entry, err := h.financeService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// ConfirmPayment settles a ledger entry and confirms its payment
func (h *FinanceHandler) ConfirmPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	entry, err := h.financeService.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// CreatePixCharge creates (or returns the pending) PIX charge for a
// ledger entry
func (h *FinanceHandler) CreatePixCharge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payment, err := h.financeService.CreatePixCharge(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetPayment returns the payment attached to a ledger entry
func (h *FinanceHandler) GetPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payment, err := h.financeService.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}
