package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sa-management/sa-backend/internal/model"
	"github.com/sa-management/sa-backend/internal/response"
	"github.com/sa-management/sa-backend/internal/service"
)

const (
	defaultAuditPerPage = 25
	maxAuditPerPage     = 100
)

// AuditHandler serves the audit trail, read-only and newest first.
type AuditHandler struct {
	service *service.AuditService
	log     zerolog.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(service *service.AuditService, log zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		log:     log.With().Str("component", "audit_handler").Logger(),
	}
}

// ListAuditLogs returns a page of audit entries, optionally filtered by
// action and subject type.
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	filter := model.AuditFilter{
		Action:      c.Query("action"),
		SubjectType: c.Query("subject_type"),
	}

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", defaultAuditPerPage)
	if perPage > maxAuditPerPage {
		perPage = maxAuditPerPage
	}

	logs, total, err := h.service.List(c.Request.Context(), filter, page, perPage)
	if err != nil {
		h.log.Error().Err(err).Msg("list audit logs failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items":    logs,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// queryInt parses a positive integer query parameter with a fallback.
func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
