package handler

import (
	"github.com/osworks/backend/internal/application/partner"
	"github.com/osworks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client (customer) requests
type ClientHandler struct {
	BaseHandler
	clientService *partner.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *partner.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// RegisterRoutes registers the client endpoints
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	clients.GET("", middleware.RequirePermission("clientes.view|clientes.manage"), h.List)
	clients.GET("/:id", middleware.RequirePermission("clientes.view|clientes.manage"), h.Get)
	clients.POST("", middleware.RequirePermission("clientes.manage"), h.Create)
	clients.PUT("/:id", middleware.RequirePermission("clientes.manage"), h.Update)
	clients.DELETE("/:id", middleware.RequirePermission("clientes.manage"), h.Delete)
}

// List returns a page of the tenant's clients
func (h *ClientHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	page, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one client
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	client, err := h.clientService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Create registers a new client
func (h *ClientHandler) Create(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var req partner.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), tid, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// Update mutates client fields
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req partner.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete removes a client
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
