package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sa-management/sa-backend/internal/model"
)

// PgUserRepository is the PostgreSQL UserRepository.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository creates a new PgUserRepository.
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role_id, u.is_active,
	u.created_at, u.updated_at,
	r.name, r.is_active, r.permissions`

// GetByEmail retrieves a user by email, with the role fields authentication
// needs (role name, role status, permission keys).
func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT`+userColumns+` FROM users u JOIN roles r ON u.role_id = r.id WHERE u.email = $1`,
		email,
	)
	return scanUser(row)
}

// GetByID retrieves a user by ID with the same role fields as GetByEmail.
func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT`+userColumns+` FROM users u JOIN roles r ON u.role_id = r.id WHERE u.id = $1`,
		id,
	)
	return scanUser(row)
}

// Create inserts a user and fills its ID and timestamps.
func (r *PgUserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role_id, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		user.Name, user.Email, user.PasswordHash, user.RoleID, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
		&u.RoleName, &u.RoleActive, &u.RolePermissions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
