package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sa-management/sa-backend/internal/config"
	"github.com/sa-management/sa-backend/internal/handler"
	"github.com/sa-management/sa-backend/internal/model"
	"github.com/sa-management/sa-backend/internal/repository"
	"github.com/sa-management/sa-backend/internal/service"
	"github.com/sa-management/sa-backend/internal/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// memRoleRepo is an in-memory RoleRepository for handler tests.
type memRoleRepo struct {
	roles  map[int64]*model.Role
	nextID int64
	audits []model.AuditLog
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{roles: make(map[int64]*model.Role), nextID: 1}
}

func (m *memRoleRepo) List(_ context.Context, f model.RoleFilter) ([]model.Role, error) {
	out := []model.Role{}
	for _, r := range m.roles {
		if f.IsActive != nil && r.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(r.Name), needle) &&
				!strings.Contains(strings.ToLower(r.DisplayName), needle) &&
				!strings.Contains(strings.ToLower(r.Description), needle) {
				continue
			}
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *memRoleRepo) GetByID(_ context.Context, id int64) (*model.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRoleRepo) NameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, r := range m.roles {
		if r.Name == name && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRoleRepo) Create(_ context.Context, role *model.Role) error {
	role.ID = m.nextID
	m.nextID++
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt
	cp := *role
	m.roles[role.ID] = &cp
	m.audits = append(m.audits, *model.NewRoleAudit(model.ActionRoleCreated, role.ID, nil, role.Snapshot()))
	return nil
}

func (m *memRoleRepo) Update(_ context.Context, role *model.Role, before map[string]any) error {
	if _, ok := m.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *role
	m.roles[role.ID] = &cp
	m.audits = append(m.audits, *model.NewRoleAudit(model.ActionRoleUpdated, role.ID, before, role.Snapshot()))
	return nil
}

func (m *memRoleRepo) SetActive(_ context.Context, role *model.Role, active bool) error {
	stored, ok := m.roles[role.ID]
	if !ok {
		return repository.ErrNotFound
	}
	old := stored.IsActive
	stored.IsActive = active
	role.IsActive = active
	m.audits = append(m.audits, *model.NewRoleAudit(
		model.ActionRoleStatusChanged, role.ID,
		map[string]any{"is_active": old},
		map[string]any{"is_active": active},
	))
	return nil
}

func (m *memRoleRepo) Delete(_ context.Context, role *model.Role) error {
	if _, ok := m.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	m.audits = append(m.audits, *model.NewRoleAudit(model.ActionRoleDeleted, role.ID, role.Snapshot(), nil))
	delete(m.roles, role.ID)
	return nil
}

// envelope mirrors the wire shape of every API response.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
}

// newRoleRouter wires the role handler onto a bare engine, without the
// auth middleware so requests need no token.
func newRoleRouter(repo *memRoleRepo) *gin.Engine {
	cfg := &config.Config{ActiveRolesCacheTTL: time.Minute}
	svc := service.NewRoleService(repo, nil, cfg, zerolog.Nop())
	h := handler.NewRoleHandler(svc, zerolog.Nop())

	r := gin.New()
	r.GET("/roles", h.ListRoles)
	r.GET("/roles/active", h.ListActiveRoles)
	r.GET("/roles/permissions", h.GetPermissions)
	r.GET("/roles/:id", h.GetRole)
	r.POST("/roles", h.CreateRole)
	r.PUT("/roles/:id", h.UpdateRole)
	r.DELETE("/roles/:id", h.DeleteRole)
	r.PATCH("/roles/:id/toggle-status", h.ToggleRoleStatus)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func seedRole(t *testing.T, r *gin.Engine, name, displayName string) model.Role {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/roles", gin.H{
		"name":         name,
		"display_name": displayName,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var role model.Role
	require.NoError(t, json.Unmarshal(env.Data, &role))
	return role
}

func TestCreateRoleEndpoint(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())

	w, env := doJSON(t, r, http.MethodPost, "/roles", gin.H{
		"name":         "consultant",
		"display_name": "Consultant",
		"permissions":  []string{"view_dossiers"},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Rôle créé avec succès", env.Message)

	var role model.Role
	require.NoError(t, json.Unmarshal(env.Data, &role))
	assert.Equal(t, "consultant", role.Name)
	assert.True(t, role.IsActive)
}

func TestCreateRoleValidationError(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())

	w, env := doJSON(t, r, http.MethodPost, "/roles", gin.H{
		"display_name": "Sans nom",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
	assert.Contains(t, env.Errors, "name")
}

func TestCreateRoleDuplicateNameEndpoint(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())
	seedRole(t, r, "consultant", "Consultant")

	w, env := doJSON(t, r, http.MethodPost, "/roles", gin.H{
		"name":         "consultant",
		"display_name": "Doublon",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Ce nom de rôle existe déjà", env.Errors["name"])
}

func TestCreateRoleUnknownPermissionEndpoint(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())

	w, env := doJSON(t, r, http.MethodPost, "/roles", gin.H{
		"name":         "consultant",
		"display_name": "Consultant",
		"permissions":  []string{"fly_to_the_moon"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Errors, "permissions")
}

func TestGetRoleNotFound(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())

	w, env := doJSON(t, r, http.MethodGet, "/roles/42", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "ROLE_NOT_FOUND", env.Error)
	assert.Equal(t, "Rôle non trouvé", env.Message)
}

func TestGetRoleInvalidID(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())

	w, env := doJSON(t, r, http.MethodGet, "/roles/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", env.Error)
}

func TestUpdateProtectedRoleRename(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())
	role := seedRole(t, r, model.ProtectedRoleName, "Administrateur SI")

	w, env := doJSON(t, r, http.MethodPut, fmt.Sprintf("/roles/%d", role.ID), gin.H{
		"name":         "admin",
		"display_name": "Administrateur",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Vous ne pouvez pas modifier le nom du rôle Admin SI", env.Message)
}

func TestDeleteProtectedRole(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())
	role := seedRole(t, r, model.ProtectedRoleName, "Administrateur SI")

	w, env := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/roles/%d", role.ID), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Le rôle Admin SI ne peut pas être supprimé", env.Message)
}

func TestDeleteRoleInUse(t *testing.T) {
	repo := newMemRoleRepo()
	r := newRoleRouter(repo)
	role := seedRole(t, r, "gestionnaire", "Gestionnaire")
	repo.roles[role.ID].UsersCount = 2

	w, env := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/roles/%d", role.ID), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ROLE_IN_USE", env.Error)
	assert.Equal(t, "Ce rôle est attribué à des utilisateurs et ne peut pas être supprimé", env.Message)
}

func TestDeleteRoleEndpoint(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())
	role := seedRole(t, r, "temporaire", "Temporaire")

	w, env := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/roles/%d", role.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Rôle supprimé avec succès", env.Message)
	assert.Nil(t, env.Data)

	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/roles/%d", role.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleRoleStatusMessages(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())
	role := seedRole(t, r, "consultant", "Consultant")
	path := fmt.Sprintf("/roles/%d/toggle-status", role.ID)

	w, env := doJSON(t, r, http.MethodPatch, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rôle désactivé avec succès", env.Message)

	w, env = doJSON(t, r, http.MethodPatch, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rôle activé avec succès", env.Message)
}

func TestToggleProtectedRole(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())
	role := seedRole(t, r, model.ProtectedRoleName, "Administrateur SI")

	w, env := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/roles/%d/toggle-status", role.ID), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Le rôle Admin SI ne peut pas être désactivé", env.Message)
}

func TestListRolesWithFilters(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())
	seedRole(t, r, "gestionnaire", "Gestionnaire")
	consultant := seedRole(t, r, "consultant", "Consultant")

	doJSON(t, r, http.MethodPatch, fmt.Sprintf("/roles/%d/toggle-status", consultant.ID), nil)

	w, env := doJSON(t, r, http.MethodGet, "/roles?is_active=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var roles []model.Role
	require.NoError(t, json.Unmarshal(env.Data, &roles))
	require.Len(t, roles, 1)
	assert.Equal(t, "gestionnaire", roles[0].Name)

	w, env = doJSON(t, r, http.MethodGet, "/roles?search=consult", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &roles))
	require.Len(t, roles, 1)
	assert.Equal(t, "consultant", roles[0].Name)
}

func TestGetPermissionsCatalog(t *testing.T) {
	r := newRoleRouter(newMemRoleRepo())

	w, env := doJSON(t, r, http.MethodGet, "/roles/permissions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var catalog []model.PermissionEntry
	require.NoError(t, json.Unmarshal(env.Data, &catalog))
	assert.Equal(t, model.PermissionCatalog, catalog)
}
