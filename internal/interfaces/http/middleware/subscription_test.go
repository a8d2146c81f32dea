package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appbilling "github.com/osworks/backend/internal/application/billing"
	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubGate struct {
	readOnly bool
	features map[string]bool
	limits   map[string]*appbilling.LimitCheck
}

func (s *stubGate) IsReadOnly(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	return s.readOnly, nil
}

func (s *stubGate) HasFeature(ctx context.Context, tenantID uuid.UUID, feature string) (bool, error) {
	return s.features[feature], nil
}

func (s *stubGate) CheckLimit(ctx context.Context, tenantID uuid.UUID, key string) (*appbilling.LimitCheck, error) {
	if check, ok := s.limits[key]; ok {
		return check, nil
	}
	return &appbilling.LimitCheck{Allowed: true}, nil
}

func withTestClaims() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ClaimsKey, &auth.Claims{
			TenantID: uuid.New().String(),
			UserID:   uuid.New().String(),
		})
	}
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestReadOnly_BlocksMutationsAllowsReads(t *testing.T) {
	gates := NewGates(&stubGate{readOnly: true}, zap.NewNop())
	engine := gin.New()
	engine.Use(withTestClaims(), gates.ReadOnly())
	engine.GET("/orders", okHandler)
	engine.POST("/orders", okHandler)
	engine.POST("/auth/logout", okHandler)

	w := performRequest(engine, http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(engine, http.MethodPost, "/orders", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "SAAS_READ_ONLY")

	w = performRequest(engine, http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireFeature_DeniedWhenFlagOff(t *testing.T) {
	gates := NewGates(&stubGate{features: map[string]bool{billing.FeaturePix: false}}, zap.NewNop())
	engine := gin.New()
	engine.Use(withTestClaims())
	engine.POST("/pix", gates.RequireFeature(billing.FeaturePix), okHandler)

	w := performRequest(engine, http.MethodPost, "/pix", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "SAAS_FEATURE_BLOCKED")
}

func TestRequireLimit_DenialCarriesCurrentAndMax(t *testing.T) {
	gates := NewGates(&stubGate{limits: map[string]*appbilling.LimitCheck{
		billing.LimitMaxOSMes: {Allowed: false, Current: 50, Max: 50},
	}}, zap.NewNop())
	engine := gin.New()
	engine.Use(withTestClaims())
	engine.POST("/orders", gates.RequireLimit(billing.LimitMaxOSMes), okHandler)

	w := performRequest(engine, http.MethodPost, "/orders", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Current *int64 `json:"current"`
			Max     *int64 `json:"max"`
		} `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SAAS_LIMIT_REACHED", body.Error.Code)
	assert.EqualValues(t, 50, *body.Error.Current)
	assert.EqualValues(t, 50, *body.Error.Max)
}

func TestRequireLimitOnActivation_OnlyFiresOnActivation(t *testing.T) {
	gates := NewGates(&stubGate{limits: map[string]*appbilling.LimitCheck{
		billing.LimitMaxUsuarios: {Allowed: false, Current: 5, Max: 5},
	}}, zap.NewNop())
	engine := gin.New()
	engine.Use(withTestClaims())
	engine.PUT("/users/1", gates.RequireLimitOnActivation(billing.LimitMaxUsuarios), okHandler)

	send := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	// plain rename does not consume quota
	w := send(`{"name":"Novo Nome"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// deactivation does not consume quota
	w = send(`{"active":false}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// activation checks the ceiling
	w = send(`{"active":true}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "SAAS_LIMIT_REACHED")
}
