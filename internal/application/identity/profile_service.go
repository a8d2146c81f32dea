package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/osworks/backend/internal/domain/identity"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProfileService manages the permission profiles of the acting tenant
type ProfileService struct {
	profileRepo identity.ProfileRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo identity.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// Create registers a new profile
func (s *ProfileService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProfileRequest) (*ProfileResponse, error) {
	if existing, err := s.profileRepo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("NAME_IN_USE", "A profile with this name already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	profile, err := identity.NewProfile(tenantID, req.Name, req.Permissions)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	response := ToProfileResponse(profile)
	return &response, nil
}

// List returns all profiles of the tenant
func (s *ProfileService) List(ctx context.Context) ([]ProfileResponse, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = ToProfileResponse(&profiles[i])
	}
	return responses, nil
}

// Update mutates a profile. The admin profile cannot be renamed; its
// superuser status rides on the name.
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && !strings.EqualFold(*req.Name, profile.Name) {
		if profile.IsAdmin() {
			return nil, shared.NewDomainError("ADMIN_PROFILE_LOCKED", "The admin profile cannot be renamed")
		}
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.Permissions != nil {
		profile.Permissions = req.Permissions
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	response := ToProfileResponse(profile)
	return &response, nil
}
