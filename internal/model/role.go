package model

import "time"

// ProtectedRoleName is the name of the singleton system role. It can never
// be renamed, deleted, or deactivated.
const ProtectedRoleName = "admin_si"

// Role represents a named bundle of permissions assignable to users.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
	// UsersCount is derived at query time from the users table and is
	// never stored.
	UsersCount int64     `json:"users_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsProtected reports whether this is the system role.
func (r *Role) IsProtected() bool {
	return r.Name == ProtectedRoleName
}

// CanBeDeleted reports whether the role may be removed: true iff no user
// record references it.
func (r *Role) CanBeDeleted() bool {
	return r.UsersCount == 0
}

// Snapshot captures the full field state of the role for audit trail
// before/after records. users_count is derived, so it is excluded.
func (r *Role) Snapshot() map[string]any {
	return map[string]any{
		"id":           r.ID,
		"name":         r.Name,
		"display_name": r.DisplayName,
		"description":  r.Description,
		"permissions":  r.Permissions,
		"is_active":    r.IsActive,
		"created_at":   r.CreatedAt,
		"updated_at":   r.UpdatedAt,
	}
}

// RoleFilter narrows role listings. A nil IsActive means no status filter;
// an empty Search means no text filter.
type RoleFilter struct {
	IsActive *bool
	// Search matches case-insensitive substrings of name, display_name,
	// or description (OR-combined).
	Search string
}
