package identity

import (
	"context"
	"testing"
	"time"

	"github.com/osworks/backend/internal/domain/identity"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/auth"
	"github.com/osworks/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockUserRepository mocks identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProfileRepository mocks identity.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByName(ctx context.Context, name string) (*identity.Profile, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindAll(ctx context.Context) ([]identity.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockTenantRepository mocks identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAllActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-service",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "osworks-test",
	})
}

type authFixture struct {
	service     *AuthService
	userRepo    *MockUserRepository
	profileRepo *MockProfileRepository
	tenantRepo  *MockTenantRepository
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo:    new(MockUserRepository),
		profileRepo: new(MockProfileRepository),
		tenantRepo:  new(MockTenantRepository),
	}
	f.service = NewAuthService(f.userRepo, f.profileRepo, f.tenantRepo,
		newTestJWTService(), auth.NoopTokenBlacklist{}, zap.NewNop())
	return f
}

func newActiveFixtures(t *testing.T, password string) (*identity.Tenant, *identity.Profile, *identity.User) {
	t.Helper()
	tenant, err := identity.NewTenant("Oficina do Zé", "12345678000190")
	assert.NoError(t, err)
	profile, err := identity.NewProfile(tenant.ID, "atendente", []string{"clientes.view", "os.view"})
	assert.NoError(t, err)
	hash, err := HashPassword(password)
	assert.NoError(t, err)
	user, err := identity.NewUser(tenant.ID, "Ana", "ana@oficina.com", hash, profile.ID)
	assert.NoError(t, err)
	return tenant, profile, user
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture()
	tenant, profile, user := newActiveFixtures(t, "s3nha-forte")

	f.userRepo.On("FindByEmail", mock.Anything, "ana@oficina.com").Return(user, nil)
	f.tenantRepo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.profileRepo.On("FindByID", mock.Anything, profile.ID).Return(profile, nil)

	result, err := f.service.Login(context.Background(), LoginRequest{
		Email:    "ana@oficina.com",
		Password: "s3nha-forte",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, tenant.ID, result.User.TenantID)
	assert.Equal(t, "atendente", result.User.Profile)
	assert.Contains(t, result.User.Permissions, "os.view")
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture()
	_, _, user := newActiveFixtures(t, "s3nha-forte")

	f.userRepo.On("FindByEmail", mock.Anything, "ana@oficina.com").Return(user, nil)

	_, err := f.service.Login(context.Background(), LoginRequest{
		Email:    "ana@oficina.com",
		Password: "errada",
	})
	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_Login_InactiveTenant(t *testing.T) {
	f := newAuthFixture()
	tenant, _, user := newActiveFixtures(t, "s3nha-forte")
	tenant.Deactivate()

	f.userRepo.On("FindByEmail", mock.Anything, "ana@oficina.com").Return(user, nil)
	f.tenantRepo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

	_, err := f.service.Login(context.Background(), LoginRequest{
		Email:    "ana@oficina.com",
		Password: "s3nha-forte",
	})
	assert.ErrorIs(t, err, shared.ErrTenantInactive)
}

func TestAuthService_Refresh_RotatesPair(t *testing.T) {
	f := newAuthFixture()
	tenant, profile, user := newActiveFixtures(t, "s3nha-forte")

	f.userRepo.On("FindByEmail", mock.Anything, "ana@oficina.com").Return(user, nil)
	f.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.tenantRepo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.profileRepo.On("FindByID", mock.Anything, profile.ID).Return(profile, nil)

	login, err := f.service.Login(context.Background(), LoginRequest{
		Email:    "ana@oficina.com",
		Password: "s3nha-forte",
	})
	assert.NoError(t, err)

	refreshed, err := f.service.Refresh(context.Background(), RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	f := newAuthFixture()
	tenant, profile, user := newActiveFixtures(t, "s3nha-forte")

	f.userRepo.On("FindByEmail", mock.Anything, "ana@oficina.com").Return(user, nil)
	f.tenantRepo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.profileRepo.On("FindByID", mock.Anything, profile.ID).Return(profile, nil)

	login, err := f.service.Login(context.Background(), LoginRequest{
		Email:    "ana@oficina.com",
		Password: "s3nha-forte",
	})
	assert.NoError(t, err)

	_, err = f.service.Refresh(context.Background(), RefreshTokenRequest{
		RefreshToken: login.AccessToken,
	})
	assert.Error(t, err)
}
