package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa-management/sa-backend/internal/config"
	"github.com/sa-management/sa-backend/internal/model"
	"github.com/sa-management/sa-backend/internal/repository"
	"github.com/sa-management/sa-backend/internal/service"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*model.User), nextID: 1}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = f.nextID
	f.nextID++
	cp := *user
	f.byEmail[user.Email] = &cp
	return nil
}

func newAuthService(users repository.UserRepository) *service.AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // MinCost for fast tests
	}
	return service.NewAuthService(cfg, nil, users)
}

// addUser stores a user with a hashed password and an active admin role.
func addUser(t *testing.T, svc *service.AuthService, repo *fakeUserRepo, email, password string, active, roleActive bool) *model.User {
	t.Helper()
	hash, err := svc.HashPassword(password)
	require.NoError(t, err)

	user := &model.User{
		Name:            "Test User",
		Email:           email,
		PasswordHash:    hash,
		RoleID:          1,
		IsActive:        active,
		RoleName:        model.ProtectedRoleName,
		RoleActive:      roleActive,
		RolePermissions: []string{"manage_roles", "view_audit_logs"},
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestPasswordHashRoundtrip(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	hash, err := svc.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, svc.CheckPassword(hash, "s3cret-pass"))
	assert.ErrorIs(t, svc.CheckPassword(hash, "wrong"), service.ErrInvalidCredentials)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	addUser(t, svc, repo, "admin@example.org", "s3cret-pass", true, true)

	token, user, err := svc.Login(context.Background(), "admin@example.org", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin@example.org", user.Email)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.ProtectedRoleName, claims.RoleName)
	assert.Contains(t, claims.Permissions, "manage_roles")
	assert.NotEmpty(t, claims.ID, "token must carry a JTI for revocation")
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	addUser(t, svc, repo, "admin@example.org", "s3cret-pass", true, true)

	_, _, err := svc.Login(context.Background(), "admin@example.org", "nope")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, _, err := svc.Login(context.Background(), "ghost@example.org", "whatever")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	addUser(t, svc, repo, "off@example.org", "s3cret-pass", false, true)

	_, _, err := svc.Login(context.Background(), "off@example.org", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrAccountDisabled)
}

func TestLoginDeactivatedRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	addUser(t, svc, repo, "norole@example.org", "s3cret-pass", true, false)

	_, _, err := svc.Login(context.Background(), "norole@example.org", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrAccountDisabled)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(repo)
	user := addUser(t, svc, repo, "admin@example.org", "s3cret-pass", true, true)

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-jwt")
	assert.Error(t, err)
}
