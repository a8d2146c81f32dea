package identity

import (
	"time"

	"github.com/osworks/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned after a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// UserInfo is the authenticated user snapshot embedded in auth responses
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Profile     string    `json:"profile"`
	Permissions []string  `json:"permissions"`
}

// RefreshTokenRequest carries a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult is returned after a successful token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// CreateUserRequest creates a user within the acting tenant
type CreateUserRequest struct {
	Name      string    `json:"name" binding:"required,min=1,max=100"`
	Email     string    `json:"email" binding:"required,email"`
	Password  string    `json:"password" binding:"required,min=8"`
	ProfileID uuid.UUID `json:"profile_id" binding:"required"`
}

// UpdateUserRequest updates mutable user fields
type UpdateUserRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Password  *string    `json:"password" binding:"omitempty,min=8"`
	ProfileID *uuid.UUID `json:"profile_id"`
	Active    *bool      `json:"active"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ProfileID uuid.UUID `json:"profile_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		ProfileID: user.ProfileID,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}

// CreateProfileRequest creates a profile within the acting tenant
type CreateProfileRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Permissions []string `json:"permissions"`
}

// UpdateProfileRequest updates a profile's permission set
type UpdateProfileRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Permissions []string `json:"permissions"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
}

// ToProfileResponse converts a domain profile to a response
func ToProfileResponse(profile *identity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          profile.ID,
		Name:        profile.Name,
		Permissions: profile.Permissions,
	}
}

// OnboardRequest creates a tenant with its first admin user
type OnboardRequest struct {
	CompanyName   string `json:"company_name" binding:"required,min=1,max=150"`
	Document      string `json:"document" binding:"max=20"`
	AdminName     string `json:"admin_name" binding:"required,min=1,max=100"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
	PlanName      string `json:"plan_name"`
}

// OnboardResult is returned after tenant onboarding
type OnboardResult struct {
	TenantID     uuid.UUID  `json:"tenant_id"`
	AdminUserID  uuid.UUID  `json:"admin_user_id"`
	PlanID       uuid.UUID  `json:"plan_id"`
	TrialEndsAt  *time.Time `json:"trial_ends_at,omitempty"`
	TenantName   string     `json:"tenant_name"`
	AdminProfile string     `json:"admin_profile"`
}
