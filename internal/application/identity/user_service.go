package identity

import (
	"context"
	"errors"

	"github.com/osworks/backend/internal/domain/identity"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserService manages the users of the acting tenant. Plan limits on
// active user counts are enforced at the gate layer before requests
// reach this service.
type UserService struct {
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, profileRepo identity.ProfileRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// Create registers a new active user
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if _, err := s.profileRepo.FindByID(ctx, req.ProfileID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PROFILE", "Profile not found")
		}
		return nil, err
	}

	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, shared.NewDomainError("EMAIL_IN_USE", "A user with this email already exists")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(tenantID, req.Name, req.Email, hash, req.ProfileID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[UserResponse], error) {
	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update mutates user fields. Activation is gated upstream against the
// plan's active-user ceiling.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.ProfileID != nil {
		if _, err := s.profileRepo.FindByID(ctx, *req.ProfileID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_PROFILE", "Profile not found")
			}
			return nil, err
		}
		user.ProfileID = *req.ProfileID
	}
	if req.Active != nil {
		if *req.Active {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// CountActive returns the tenant's active user count, used by the plan
// limit gate.
func (s *UserService) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.userRepo.CountActive(ctx, tenantID)
}
