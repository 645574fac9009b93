package service

import (
	"context"

	"github.com/sa-management/sa-backend/internal/model"
	"github.com/sa-management/sa-backend/internal/repository"
)

// AuditService exposes the audit trail read side. Entries are written by
// the role repository inside each mutation's transaction, so this service
// never appends, updates, or deletes anything.
type AuditService struct {
	audit repository.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(audit repository.AuditRepository) *AuditService {
	return &AuditService{audit: audit}
}

// List retrieves a page of audit entries, newest first.
func (s *AuditService) List(ctx context.Context, f model.AuditFilter, page, perPage int) ([]model.AuditLog, int64, error) {
	return s.audit.List(ctx, f, page, perPage)
}
