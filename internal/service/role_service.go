package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sa-management/sa-backend/internal/config"
	"github.com/sa-management/sa-backend/internal/model"
	"github.com/sa-management/sa-backend/internal/repository"
)

// Guard errors raised by role operations. Handlers translate these into
// the matching HTTP status and French message.
var (
	ErrProtectedRename     = errors.New("cannot rename protected role")
	ErrProtectedDelete     = errors.New("protected role cannot be deleted")
	ErrProtectedDeactivate = errors.New("protected role cannot be deactivated")
	ErrRoleInUse           = errors.New("role is assigned to users")
)

// UnknownPermissionError reports a permission key absent from the catalog.
type UnknownPermissionError struct {
	Key string
}

func (e *UnknownPermissionError) Error() string {
	return fmt.Sprintf("unknown permission %q", e.Key)
}

// RoleInput is the payload for Create and Update. Description and IsActive
// are pointers so an omitted field can be told apart from a zero value on
// update.
type RoleInput struct {
	Name        string   `json:"name" binding:"required,max=255"`
	DisplayName string   `json:"display_name" binding:"required,max=255"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
	IsActive    *bool    `json:"is_active"`
}

// RoleService orchestrates role CRUD: validation, protected-role guards,
// store calls, audit recording (via the repository's transactions), and
// active-roles cache invalidation.
type RoleService struct {
	roles repository.RoleRepository
	rdb   *redis.Client
	cfg   *config.Config
	log   zerolog.Logger
}

// NewRoleService creates a new RoleService. rdb may be nil in tests; the
// active-roles cache is then bypassed.
func NewRoleService(roles repository.RoleRepository, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *RoleService {
	return &RoleService{
		roles: roles,
		rdb:   rdb,
		cfg:   cfg,
		log:   log.With().Str("component", "role_service").Logger(),
	}
}

// List retrieves all roles matching the filter, newest first, each with
// its users_count.
func (s *RoleService) List(ctx context.Context, f model.RoleFilter) ([]model.Role, error) {
	return s.roles.List(ctx, f)
}

// ListActive retrieves active roles for any authenticated caller. The
// result is served from Redis when possible and repopulated on a miss.
func (s *RoleService) ListActive(ctx context.Context) ([]model.Role, error) {
	key := config.CacheKey.ActiveRolesKey()

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var roles []model.Role
			if err := json.Unmarshal(cached, &roles); err == nil {
				return roles, nil
			}
			// Corrupt entry: fall through to the store and overwrite it.
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("active roles cache read failed")
		}
	}

	active := true
	roles, err := s.roles.List(ctx, model.RoleFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(roles); err == nil {
			if err := s.rdb.Set(ctx, key, payload, s.cfg.ActiveRolesCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("active roles cache write failed")
			}
		}
	}

	return roles, nil
}

// Get retrieves one role with its users_count.
func (s *RoleService) Get(ctx context.Context, id int64) (*model.Role, error) {
	return s.roles.GetByID(ctx, id)
}

// Create validates the input, persists a new role, and records the audit
// entry. is_active defaults to true when omitted.
func (s *RoleService) Create(ctx context.Context, in RoleInput) (*model.Role, error) {
	if err := s.checkPermissions(in.Permissions); err != nil {
		return nil, err
	}

	taken, err := s.roles.NameExists(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrDuplicateName
	}

	role := &model.Role{
		Name:        in.Name,
		DisplayName: in.DisplayName,
		Permissions: normalizePermissions(in.Permissions),
		IsActive:    true,
	}
	if in.Description != nil {
		role.Description = *in.Description
	}
	if in.IsActive != nil {
		role.IsActive = *in.IsActive
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}

	s.invalidateActiveRoles(ctx)
	s.log.Info().Int64("role_id", role.ID).Str("name", role.Name).Msg("role created")

	return role, nil
}

// Update applies all submitted fields to an existing role. Renaming the
// protected role is rejected; no other field is blocked by that guard.
// Omitted optional fields keep their stored value.
func (s *RoleService) Update(ctx context.Context, id int64, in RoleInput) (*model.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if role.IsProtected() && in.Name != model.ProtectedRoleName {
		return nil, ErrProtectedRename
	}

	if err := s.checkPermissions(in.Permissions); err != nil {
		return nil, err
	}

	taken, err := s.roles.NameExists(ctx, in.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrDuplicateName
	}

	before := role.Snapshot()

	role.Name = in.Name
	role.DisplayName = in.DisplayName
	if in.Description != nil {
		role.Description = *in.Description
	}
	if in.Permissions != nil {
		role.Permissions = normalizePermissions(in.Permissions)
	}
	if in.IsActive != nil {
		role.IsActive = *in.IsActive
	}

	if err := s.roles.Update(ctx, role, before); err != nil {
		return nil, err
	}

	s.invalidateActiveRoles(ctx)
	s.log.Info().Int64("role_id", role.ID).Str("name", role.Name).Msg("role updated")

	return role, nil
}

// Delete removes a role. The protected role and roles still referenced by
// users are rejected. The audit entry commits atomically with the delete.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if role.IsProtected() {
		return ErrProtectedDelete
	}

	if !role.CanBeDeleted() {
		return ErrRoleInUse
	}

	if err := s.roles.Delete(ctx, role); err != nil {
		return err
	}

	s.invalidateActiveRoles(ctx)
	s.log.Info().Int64("role_id", id).Str("name", role.Name).Msg("role deleted")

	return nil
}

// ToggleStatus flips a role's is_active flag. Deactivating the protected
// role is rejected; re-activating it is allowed (a no-op in practice since
// it can never be turned off).
func (s *RoleService) ToggleStatus(ctx context.Context, id int64) (*model.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if role.IsProtected() && role.IsActive {
		return nil, ErrProtectedDeactivate
	}

	if err := s.roles.SetActive(ctx, role, !role.IsActive); err != nil {
		return nil, err
	}

	s.invalidateActiveRoles(ctx)
	s.log.Info().
		Int64("role_id", role.ID).
		Bool("is_active", role.IsActive).
		Msg("role status changed")

	return role, nil
}

// Permissions returns the static permission catalog, in display order.
func (s *RoleService) Permissions() []model.PermissionEntry {
	return model.PermissionCatalog
}

// checkPermissions rejects keys absent from the catalog.
func (s *RoleService) checkPermissions(keys []string) error {
	for _, key := range keys {
		if !model.IsValidPermission(key) {
			return &UnknownPermissionError{Key: key}
		}
	}
	return nil
}

// invalidateActiveRoles drops the cached active-roles listing after a
// mutation. The mutation has already committed, so a cache error is only
// logged; the next ListActive repopulates from the store.
func (s *RoleService) invalidateActiveRoles(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.ActiveRolesKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("active roles cache invalidation failed")
	}
}

// normalizePermissions replaces a nil slice with an empty one so the
// persisted column and JSON output are always an array.
func normalizePermissions(keys []string) []string {
	if keys == nil {
		return []string{}
	}
	return keys
}
