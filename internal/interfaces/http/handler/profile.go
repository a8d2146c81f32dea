package handler

import (
	"github.com/osworks/backend/internal/application/identity"
	"github.com/osworks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles permission profile requests
type ProfileHandler struct {
	BaseHandler
	profileService *identity.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *identity.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// RegisterRoutes registers the profile endpoints
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profiles := rg.Group("/profiles")
	profiles.GET("", middleware.RequirePermission("perfis.view|perfis.manage"), h.List)
	profiles.POST("", middleware.RequirePermission("perfis.manage"), h.Create)
	profiles.PUT("/:id", middleware.RequirePermission("perfis.manage"), h.Update)
}

// List returns all profiles of the tenant
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profileService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profiles)
}

// Create registers a new profile
func (h *ProfileHandler) Create(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var req identity.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.profileService.Create(c.Request.Context(), tid, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, profile)
}

// Update mutates a profile's name and permission set
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req identity.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}
