package handler

import (
	"github.com/osworks/backend/internal/application/identity"
	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user management requests
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
	gates       *middleware.Gates
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService, gates *middleware.Gates) *UserHandler {
	return &UserHandler{
		userService: userService,
		gates:       gates,
	}
}

// RegisterRoutes registers the user endpoints. User creation and
// activation are gated against the plan's active-user ceiling.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("", middleware.RequirePermission("usuarios.view|usuarios.manage"), h.List)
	users.GET("/:id", middleware.RequirePermission("usuarios.view|usuarios.manage"), h.Get)
	users.POST("",
		middleware.RequirePermission("usuarios.manage"),
		h.gates.RequireLimit(billing.LimitMaxUsuarios),
		h.Create)
	users.PUT("/:id",
		middleware.RequirePermission("usuarios.manage"),
		h.gates.RequireLimitOnActivation(billing.LimitMaxUsuarios),
		h.Update)
}

// List returns a page of the tenant's users
func (h *UserHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	page, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one user
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Create registers a new user
func (h *UserHandler) Create(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var req identity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), tid, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Update mutates user fields
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req identity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
