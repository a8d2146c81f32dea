// Package router assembles the versioned API route tree from handler
// registrars and the shared middleware chain.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router builds the /api/<version> route tree. Public registrars skip
// the protected middleware chain (auth, tenant guard, read-only gate);
// protected registrars run behind it.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	public     []func(rg *gin.RouterGroup)
	protected  []RouteRegistrar
	middleware []gin.HandlerFunc
}

// Option is a functional option for Router configuration
type Option func(*Router)

// WithAPIVersion sets the API version prefix, "v1" by default
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// New creates a Router
func New(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Public registers routes that bypass the protected chain
func (r *Router) Public(register func(rg *gin.RouterGroup)) *Router {
	r.public = append(r.public, register)
	return r
}

// Protected adds middleware every protected registrar runs behind, in
// registration order
func (r *Router) Protected(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register adds a protected route registrar
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.protected = append(r.protected, registrars...)
	return r
}

// Setup mounts all registered routes on the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, register := range r.public {
		register(api)
	}

	guarded := api.Group("")
	guarded.Use(r.middleware...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(guarded)
	}
}
