package model

import "time"

// User is an account that authenticates against the API. Each user holds
// exactly one role; the role relation is what feeds users_count and the
// role deletion guard.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int64     `json:"role_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Joined from the roles table when loaded for authentication.
	RoleName        string   `json:"role_name,omitempty"`
	RoleActive      bool     `json:"-"`
	RolePermissions []string `json:"permissions,omitempty"`
}
