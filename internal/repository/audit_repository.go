package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sa-management/sa-backend/internal/model"
)

// PgAuditRepository is the PostgreSQL AuditRepository.
type PgAuditRepository struct {
	pool *pgxpool.Pool
}

// NewPgAuditRepository creates a new PgAuditRepository.
func NewPgAuditRepository(pool *pgxpool.Pool) *PgAuditRepository {
	return &PgAuditRepository{pool: pool}
}

// List retrieves a page of audit entries, newest first, with the total
// count of entries matching the filter.
func (r *PgAuditRepository) List(ctx context.Context, f model.AuditFilter, page, perPage int) ([]model.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 25
	}
	offset := (page - 1) * perPage

	where := " WHERE 1=1"
	args := []any{}

	if f.Action != "" {
		args = append(args, f.Action)
		where += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if f.SubjectType != "" {
		args = append(args, f.SubjectType)
		where += fmt.Sprintf(" AND subject_type = $%d", len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, perPage, offset)
	query := fmt.Sprintf(
		`SELECT id, action, subject_type, subject_id, before_state, after_state, created_at
		 FROM audit_logs%s
		 ORDER BY created_at DESC, id DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := []model.AuditLog{}
	for rows.Next() {
		var (
			e             model.AuditLog
			before, after []byte
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.SubjectType, &e.SubjectID, &before, &after, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(before) > 0 {
			if err := json.Unmarshal(before, &e.Before); err != nil {
				return nil, 0, err
			}
		}
		if len(after) > 0 {
			if err := json.Unmarshal(after, &e.After); err != nil {
				return nil, 0, err
			}
		}
		entries = append(entries, e)
	}

	return entries, total, rows.Err()
}
