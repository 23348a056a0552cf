package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmachado/fleet-manager/internal/auth"
	"github.com/rmachado/fleet-manager/internal/domain"
	"github.com/rmachado/fleet-manager/internal/repo"
	"github.com/rmachado/fleet-manager/internal/service"
)

// mockUserRepo is a test double for repo.UserRepo.
type mockUserRepo struct {
	create        func(ctx context.Context, user domain.User) (domain.User, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByUsername func(ctx context.Context, username string) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return m.getByUsername(ctx, username)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// mockRefreshTokenRepo is an in-memory repo.RefreshTokenRepo good enough to
// exercise the issue/consume cycle.
type mockRefreshTokenRepo struct {
	saved map[string]uuid.UUID
}

func newMockRefreshTokenRepo() *mockRefreshTokenRepo {
	return &mockRefreshTokenRepo{saved: make(map[string]uuid.UUID)}
}

func (m *mockRefreshTokenRepo) Save(_ context.Context, userID uuid.UUID, hash string, _ time.Time) error {
	m.saved[hash] = userID
	return nil
}

func (m *mockRefreshTokenRepo) Consume(_ context.Context, hash string) (uuid.UUID, error) {
	userID, ok := m.saved[hash]
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	delete(m.saved, hash)
	return userID, nil
}

func (m *mockRefreshTokenRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for hash, id := range m.saved {
		if id == userID {
			delete(m.saved, hash)
		}
	}
	return nil
}

var _ repo.RefreshTokenRepo = (*mockRefreshTokenRepo)(nil)

// ---- fixtures --------------------------------------------------------------

const testSecret = "test-secret-at-least-32-bytes-long!!"

func authConfig() service.AuthConfig {
	return service.AuthConfig{
		JWTSecret:       testSecret,
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		BcryptCost:      4, // minimum cost keeps tests fast
	}
}

func userFixture(t *testing.T, username, password string, role domain.Role) domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	return domain.User{
		ID:           uuid.New(),
		Username:     username,
		Role:         role,
		PasswordHash: hash,
	}
}

// ---- Login -----------------------------------------------------------------

func TestAuthService_Login(t *testing.T) {
	ana := userFixture(t, "ana", "secret-pw", domain.RoleOperator)
	users := &mockUserRepo{
		getByUsername: func(_ context.Context, username string) (domain.User, error) {
			require.Equal(t, "ana", username)
			return ana, nil
		},
	}
	refresh := newMockRefreshTokenRepo()
	svc := service.NewAuthService(users, &mockDriverRepo{}, refresh, authConfig())

	pair, err := svc.Login(context.Background(), "ana", "secret-pw")

	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.Len(t, refresh.saved, 1, "refresh token hash stored")

	claims, userID, err := auth.ParseAccessToken(testSecret, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, userID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, domain.RoleOperator, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ana := userFixture(t, "ana", "secret-pw", domain.RoleOperator)
	users := &mockUserRepo{
		getByUsername: func(context.Context, string) (domain.User, error) { return ana, nil },
	}
	svc := service.NewAuthService(users, &mockDriverRepo{}, newMockRefreshTokenRepo(), authConfig())

	_, err := svc.Login(context.Background(), "ana", "wrong")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	users := &mockUserRepo{
		getByUsername: func(context.Context, string) (domain.User, error) {
			return domain.User{}, domain.ErrNotFound
		},
	}
	svc := service.NewAuthService(users, &mockDriverRepo{}, newMockRefreshTokenRepo(), authConfig())

	_, err := svc.Login(context.Background(), "nobody", "x")

	// Unknown user and wrong password answer identically.
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ---- Refresh ---------------------------------------------------------------

func TestAuthService_Refresh_SingleUse(t *testing.T) {
	ana := userFixture(t, "ana", "secret-pw", domain.RoleOperator)
	users := &mockUserRepo{
		getByUsername: func(context.Context, string) (domain.User, error) { return ana, nil },
		getByID:       func(context.Context, uuid.UUID) (domain.User, error) { return ana, nil },
	}
	svc := service.NewAuthService(users, &mockDriverRepo{}, newMockRefreshTokenRepo(), authConfig())

	pair, err := svc.Login(context.Background(), "ana", "secret-pw")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, rotated.Refresh, "refresh token rotates")

	_, err = svc.Refresh(context.Background(), pair.Refresh)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "consumed token cannot be replayed")
}

// ---- Register --------------------------------------------------------------

func TestAuthService_Register_OperatorWithCPFGetsDriver(t *testing.T) {
	var createdDriver *domain.Driver
	users := &mockUserRepo{
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			u.ID = uuid.New()
			return u, nil
		},
	}
	drivers := &mockDriverRepo{
		create: func(_ context.Context, d domain.Driver) (domain.Driver, error) {
			createdDriver = &d
			return d, nil
		},
	}
	svc := service.NewAuthService(users, drivers, newMockRefreshTokenRepo(), authConfig())

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Username:  "carlos",
		FirstName: "Carlos",
		LastName:  "Silva",
		Password:  "secret-pw",
		Role:      domain.RoleOperator,
		CPF:       "123.456.789-00",
	})

	require.NoError(t, err)
	require.NotNil(t, createdDriver, "operator with CPF gets a linked driver")
	assert.Equal(t, "Carlos Silva", createdDriver.FullName)
	assert.Equal(t, "123.456.789-00", createdDriver.CPF)
	require.NotNil(t, createdDriver.UserID)
	assert.Equal(t, user.ID, *createdDriver.UserID)
}

func TestAuthService_Register_ManagerSkipsDriver(t *testing.T) {
	users := &mockUserRepo{
		create: func(_ context.Context, u domain.User) (domain.User, error) {
			u.ID = uuid.New()
			return u, nil
		},
	}
	driverCreated := false
	drivers := &mockDriverRepo{
		create: func(_ context.Context, d domain.Driver) (domain.Driver, error) {
			driverCreated = true
			return d, nil
		},
	}
	svc := service.NewAuthService(users, drivers, newMockRefreshTokenRepo(), authConfig())

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "gestor",
		Password: "secret-pw",
		Role:     domain.RoleManager,
		CPF:      "123.456.789-00",
	})

	require.NoError(t, err)
	assert.False(t, driverCreated, "managers never get driver records")
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := service.NewAuthService(&mockUserRepo{}, &mockDriverRepo{}, newMockRefreshTokenRepo(), authConfig())

	tests := []struct {
		name string
		in   service.RegisterInput
	}{
		{"missing username", service.RegisterInput{Password: "secret-pw", Role: domain.RoleOperator}},
		{"short password", service.RegisterInput{Username: "ana", Password: "12345", Role: domain.RoleOperator}},
		{"bad role", service.RegisterInput{Username: "ana", Password: "secret-pw", Role: "ADMIN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	users := &mockUserRepo{
		create: func(context.Context, domain.User) (domain.User, error) {
			return domain.User{}, domain.ErrConflict
		},
	}
	svc := service.NewAuthService(users, &mockDriverRepo{}, newMockRefreshTokenRepo(), authConfig())

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "ana",
		Password: "secret-pw",
		Role:     domain.RoleOperator,
	})

	assert.ErrorIs(t, err, domain.ErrValidation, "duplicate username surfaces as a field error")
}
