package model

import "time"

// Audit action tags. The audit trail is shared with other subject types,
// so the tag carries the subject in its prefix.
const (
	ActionRoleCreated       = "role_created"
	ActionRoleUpdated       = "role_updated"
	ActionRoleDeleted       = "role_deleted"
	ActionRoleStatusChanged = "role_status_changed"
)

// SubjectTypeRole identifies role records in the audit trail.
const SubjectTypeRole = "role"

// AuditLog is an immutable record of a mutation's before/after state.
// Entries are written exactly once per successful mutation and are never
// updated or deleted by this subsystem.
type AuditLog struct {
	ID          int64          `json:"id"`
	Action      string         `json:"action"`
	SubjectType string         `json:"subject_type"`
	SubjectID   int64          `json:"subject_id"`
	Before      map[string]any `json:"before,omitempty"`
	After       map[string]any `json:"after,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewRoleAudit builds an audit entry for a role mutation. Before is nil for
// creations, After is nil for deletions.
func NewRoleAudit(action string, roleID int64, before, after map[string]any) *AuditLog {
	return &AuditLog{
		Action:      action,
		SubjectType: SubjectTypeRole,
		SubjectID:   roleID,
		Before:      before,
		After:       after,
	}
}

// AuditFilter narrows audit trail listings.
type AuditFilter struct {
	Action      string
	SubjectType string
}
