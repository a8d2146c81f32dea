package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/osworks/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newPermissionRouter(claims *auth.Claims, expression string) *gin.Engine {
	engine := gin.New()
	engine.GET("/resource",
		func(c *gin.Context) {
			if claims != nil {
				c.Set(ClaimsKey, claims)
			}
		},
		RequirePermission(expression),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)
	return engine
}

func performRequest(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequirePermission_AllowsMatchingKey(t *testing.T) {
	claims := &auth.Claims{
		TenantID:    "tenant-a",
		Profile:     "atendente",
		Permissions: []string{"os.view"},
	}
	engine := newPermissionRouter(claims, "os.view|os.manage")

	w := performRequest(engine, http.MethodGet, "/resource", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermission_DeniesMissingKey(t *testing.T) {
	claims := &auth.Claims{
		TenantID:    "tenant-a",
		Profile:     "atendente",
		Permissions: []string{"clientes.view"},
	}
	engine := newPermissionRouter(claims, "os.manage")

	w := performRequest(engine, http.MethodGet, "/resource", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequirePermission_AdminBypassesEverything(t *testing.T) {
	claims := &auth.Claims{
		TenantID:    "tenant-a",
		Profile:     "Admin",
		Permissions: nil,
	}
	engine := newPermissionRouter(claims, "os.manage")

	w := performRequest(engine, http.MethodGet, "/resource", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermission_WildcardGrantsAll(t *testing.T) {
	claims := &auth.Claims{
		TenantID:    "tenant-a",
		Profile:     "gerente",
		Permissions: []string{"*"},
	}
	engine := newPermissionRouter(claims, "financeiro.manage")

	w := performRequest(engine, http.MethodGet, "/resource", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermission_TenantMismatchDenied(t *testing.T) {
	claims := &auth.Claims{
		TenantID:    "tenant-a",
		Profile:     "Admin",
		Permissions: []string{"*"},
	}
	engine := newPermissionRouter(claims, "os.view")

	w := performRequest(engine, http.MethodGet, "/resource",
		map[string]string{"X-Tenant-ID": "tenant-b"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_MISMATCH")
}

func TestRequirePermission_NoClaimsUnauthorized(t *testing.T) {
	engine := newPermissionRouter(nil, "os.view")

	w := performRequest(engine, http.MethodGet, "/resource", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
