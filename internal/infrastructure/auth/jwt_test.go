package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-which-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "osworks-test",
	})
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		TenantID:    tenantID,
		UserID:      userID,
		Name:        "Maria Souza",
		Profile:     "atendente",
		Permissions: []string{"os.visualizar", "os.criar"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "atendente", claims.Profile)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.ElementsMatch(t, []string{"os.visualizar", "os.criar"}, claims.Permissions)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	svc := newTestService()
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Profile:  "admin",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-which-is-long-enough",
		AccessTokenExpiration:  -1 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "osworks-test",
	})
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidSignature(t *testing.T) {
	svc := newTestService()
	other := NewJWTService(config.JWTConfig{
		Secret:                 "a-completely-different-secret-key",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "osworks-test",
	})
	pair, err := other.GenerateTokenPair(GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_Permissions(t *testing.T) {
	tests := []struct {
		name       string
		claims     Claims
		permission string
		want       bool
	}{
		{
			name:       "direct match",
			claims:     Claims{Permissions: []string{"os.criar"}},
			permission: "os.criar",
			want:       true,
		},
		{
			name:       "no match",
			claims:     Claims{Permissions: []string{"os.criar"}},
			permission: "financeiro.baixar",
			want:       false,
		},
		{
			name:       "wildcard grants everything",
			claims:     Claims{Permissions: []string{"*"}},
			permission: "financeiro.baixar",
			want:       true,
		},
		{
			name:       "empty set denies",
			claims:     Claims{},
			permission: "os.criar",
			want:       false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.HasPermission(tt.permission))
		})
	}
}

func TestClaims_HasAnyPermission(t *testing.T) {
	c := Claims{Permissions: []string{"os.visualizar"}}
	assert.True(t, c.HasAnyPermission("os.editar", "os.visualizar"))
	assert.False(t, c.HasAnyPermission("os.editar", "os.excluir"))
}

func TestClaims_IsAdmin(t *testing.T) {
	tests := []struct {
		profile string
		want    bool
	}{
		{"admin", true},
		{"Admin", true},
		{"atendente", false},
	}
	for _, tt := range tests {
		c := Claims{Profile: tt.profile}
		assert.Equal(t, tt.want, c.IsAdmin(), "profile %q", tt.profile)
	}
}
