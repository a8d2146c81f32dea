package handler

import (
	appservice "github.com/osworks/backend/internal/application/service"
	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles service order requests
type OrderHandler struct {
	BaseHandler
	orderService *appservice.OrderService
	gates        *middleware.Gates
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *appservice.OrderService, gates *middleware.Gates) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		gates:        gates,
	}
}

// RegisterRoutes registers the order endpoints. Creation is gated
// against the plan's monthly order ceiling.
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", middleware.RequirePermission("os.view|os.manage"), h.List)
	orders.GET("/:id", middleware.RequirePermission("os.view|os.manage"), h.Get)
	orders.POST("",
		middleware.RequirePermission("os.manage"),
		h.gates.RequireLimit(billing.LimitMaxOSMes),
		h.Create)
	orders.PUT("/:id/status", middleware.RequirePermission("os.manage"), h.ChangeStatus)
}

// List returns a page of the tenant's orders
func (h *OrderHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one order with items and status history
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Create opens a new service order
func (h *OrderHandler) Create(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var req appservice.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), tid, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// ChangeStatus moves an order through its status state machine
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req appservice.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
