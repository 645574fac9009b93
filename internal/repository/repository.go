// Package repository contains the data-access layer. Interfaces are defined
// here so services can be exercised against in-memory fakes; the production
// implementations run on a pgx connection pool.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sa-management/sa-backend/internal/model"
)

// Sentinel errors surfaced by repository implementations.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateName is returned when a unique name constraint would be
	// violated.
	ErrDuplicateName = errors.New("name already taken")
)

// RoleRepository handles role persistence. Every mutating method writes the
// matching audit entry in the same transaction as the mutation, so a role
// change and its trail record commit or roll back together.
type RoleRepository interface {
	List(ctx context.Context, f model.RoleFilter) ([]model.Role, error)
	GetByID(ctx context.Context, id int64) (*model.Role, error)
	// NameExists reports whether another role already uses name.
	// excludeID is ignored when 0.
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	// Create inserts the role, fills its ID and timestamps, and records a
	// role_created audit entry.
	Create(ctx context.Context, role *model.Role) error
	// Update persists all fields of role and records a role_updated audit
	// entry with the given before snapshot.
	Update(ctx context.Context, role *model.Role, before map[string]any) error
	// SetActive flips the role's status and records a role_status_changed
	// audit entry holding only the is_active field.
	SetActive(ctx context.Context, role *model.Role, active bool) error
	// Delete records a role_deleted audit entry, then removes the role.
	Delete(ctx context.Context, role *model.Role) error
}

// AuditRepository reads the audit trail. Writes happen inside the owning
// repository's transactions; this subsystem never updates or deletes entries.
type AuditRepository interface {
	List(ctx context.Context, f model.AuditFilter, page, perPage int) ([]model.AuditLog, int64, error)
}

// UserRepository handles user accounts.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting the audit
// insert run inside a caller's transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// insertAudit appends one immutable entry to the audit trail.
func insertAudit(ctx context.Context, q querier, e *model.AuditLog) error {
	before, after, err := marshalSnapshots(e)
	if err != nil {
		return err
	}

	return q.QueryRow(ctx,
		`INSERT INTO audit_logs (action, subject_type, subject_id, before_state, after_state)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.Action, e.SubjectType, e.SubjectID, before, after,
	).Scan(&e.ID, &e.CreatedAt)
}

func marshalSnapshots(e *model.AuditLog) (before, after []byte, err error) {
	if e.Before != nil {
		if before, err = json.Marshal(e.Before); err != nil {
			return nil, nil, err
		}
	}
	if e.After != nil {
		if after, err = json.Marshal(e.After); err != nil {
			return nil, nil, err
		}
	}
	return before, after, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
