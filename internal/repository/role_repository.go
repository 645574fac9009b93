package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sa-management/sa-backend/internal/model"
)

// roleColumns selects a full role row plus the derived users_count.
const roleColumns = `
	r.id, r.name, r.display_name, COALESCE(r.description, ''), r.permissions,
	r.is_active, r.created_at, r.updated_at,
	(SELECT COUNT(*) FROM users u WHERE u.role_id = r.id) AS users_count`

// PgRoleRepository is the PostgreSQL RoleRepository.
type PgRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPgRoleRepository creates a new PgRoleRepository.
func NewPgRoleRepository(pool *pgxpool.Pool) *PgRoleRepository {
	return &PgRoleRepository{pool: pool}
}

// List retrieves roles matching the filter, newest first, each annotated
// with its users_count.
func (r *PgRoleRepository) List(ctx context.Context, f model.RoleFilter) ([]model.Role, error) {
	query := `SELECT` + roleColumns + ` FROM roles r WHERE 1=1`
	args := []any{}

	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		query += fmt.Sprintf(" AND r.is_active = $%d", len(args))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		query += fmt.Sprintf(
			" AND (r.name ILIKE $%d OR r.display_name ILIKE $%d OR r.description ILIKE $%d)",
			n, n, n,
		)
	}

	query += " ORDER BY r.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []model.Role{}
	for rows.Next() {
		var role model.Role
		if err := scanRole(rows, &role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	return roles, rows.Err()
}

// GetByID retrieves one role with its users_count.
func (r *PgRoleRepository) GetByID(ctx context.Context, id int64) (*model.Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+roleColumns+` FROM roles r WHERE r.id = $1`, id)

	var role model.Role
	if err := scanRole(row, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &role, nil
}

// NameExists reports whether a role other than excludeID already uses name.
func (r *PgRoleRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM roles WHERE name = $1 AND id <> $2)`,
		name, excludeID,
	).Scan(&exists)
	return exists, err
}

// Create inserts the role and its role_created audit entry in one
// transaction. The role's ID and timestamps are filled from the database.
func (r *PgRoleRepository) Create(ctx context.Context, role *model.Role) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO roles (name, display_name, description, permissions, is_active)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at, updated_at`,
			role.Name, role.DisplayName, role.Description, role.Permissions, role.IsActive,
		).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateName
			}
			return err
		}

		entry := model.NewRoleAudit(model.ActionRoleCreated, role.ID, nil, role.Snapshot())
		return insertAudit(ctx, tx, entry)
	})
}

// Update persists all fields of role and its role_updated audit entry in
// one transaction. before is the snapshot captured prior to the change.
func (r *PgRoleRepository) Update(ctx context.Context, role *model.Role, before map[string]any) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE roles
			 SET name = $1, display_name = $2, description = $3, permissions = $4,
			     is_active = $5, updated_at = NOW()
			 WHERE id = $6
			 RETURNING updated_at`,
			role.Name, role.DisplayName, role.Description, role.Permissions,
			role.IsActive, role.ID,
		).Scan(&role.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			if isUniqueViolation(err) {
				return ErrDuplicateName
			}
			return err
		}

		entry := model.NewRoleAudit(model.ActionRoleUpdated, role.ID, before, role.Snapshot())
		return insertAudit(ctx, tx, entry)
	})
}

// SetActive flips the role's status and records the transition in one
// transaction. Only is_active appears in the audit snapshots.
func (r *PgRoleRepository) SetActive(ctx context.Context, role *model.Role, active bool) error {
	oldStatus := role.IsActive

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`UPDATE roles SET is_active = $1, updated_at = NOW() WHERE id = $2
			 RETURNING updated_at`,
			active, role.ID,
		).Scan(&role.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		role.IsActive = active

		entry := model.NewRoleAudit(
			model.ActionRoleStatusChanged,
			role.ID,
			map[string]any{"is_active": oldStatus},
			map[string]any{"is_active": active},
		)
		return insertAudit(ctx, tx, entry)
	})
}

// Delete records the role_deleted audit entry, then removes the role, in
// one transaction. The entry is written first so the full before snapshot
// survives the delete.
func (r *PgRoleRepository) Delete(ctx context.Context, role *model.Role) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		entry := model.NewRoleAudit(model.ActionRoleDeleted, role.ID, role.Snapshot(), nil)
		if err := insertAudit(ctx, tx, entry); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, role.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// scanRole reads one role row in roleColumns order.
func scanRole(row pgx.Row, role *model.Role) error {
	return row.Scan(
		&role.ID, &role.Name, &role.DisplayName, &role.Description, &role.Permissions,
		&role.IsActive, &role.CreatedAt, &role.UpdatedAt, &role.UsersCount,
	)
}
