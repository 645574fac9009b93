// Package handler contains the HTTP handlers. Handlers bind and validate
// input, call the service layer, and translate outcomes into the uniform
// response envelope.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sa-management/sa-backend/internal/model"
	"github.com/sa-management/sa-backend/internal/repository"
	"github.com/sa-management/sa-backend/internal/response"
	"github.com/sa-management/sa-backend/internal/service"
	"github.com/sa-management/sa-backend/internal/validator"
)

// User-facing French messages for successful role operations.
const (
	msgRoleCreated     = "Rôle créé avec succès"
	msgRoleUpdated     = "Rôle mis à jour avec succès"
	msgRoleDeleted     = "Rôle supprimé avec succès"
	msgRoleActivated   = "Rôle activé avec succès"
	msgRoleDeactivated = "Rôle désactivé avec succès"
)

// RoleHandler serves the role management endpoints.
type RoleHandler struct {
	service *service.RoleService
	log     zerolog.Logger
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(service *service.RoleService, log zerolog.Logger) *RoleHandler {
	return &RoleHandler{
		service: service,
		log:     log.With().Str("component", "role_handler").Logger(),
	}
}

// ListRoles gets all roles, optionally filtered by status and a search
// term, each annotated with users_count.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	var filter model.RoleFilter

	if raw := c.Query("is_active"); raw != "" {
		active := raw == "1" || raw == "true"
		filter.IsActive = &active
	}
	filter.Search = c.Query("search")

	roles, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("list roles failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, roles)
}

// ListActiveRoles gets active roles only. Unlike the rest of the role
// surface this is open to any authenticated caller.
func (h *RoleHandler) ListActiveRoles(c *gin.Context) {
	roles, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list active roles failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, roles)
}

// GetRole gets one role by ID.
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := h.roleID(c)
	if !ok {
		return
	}

	role, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.failRole(c, err)
		return
	}

	response.Success(c, http.StatusOK, role)
}

// CreateRole creates a new role.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var in service.RoleInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	role, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.failRole(c, err)
		return
	}

	response.SuccessMessage(c, http.StatusCreated, msgRoleCreated, role)
}

// UpdateRole applies all submitted fields to an existing role.
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := h.roleID(c)
	if !ok {
		return
	}

	var in service.RoleInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	role, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		h.failRole(c, err)
		return
	}

	response.SuccessMessage(c, http.StatusOK, msgRoleUpdated, role)
}

// DeleteRole removes a role that is neither protected nor in use.
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := h.roleID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.failRole(c, err)
		return
	}

	response.SuccessMessage(c, http.StatusOK, msgRoleDeleted, nil)
}

// ToggleRoleStatus flips a role's is_active flag.
func (h *RoleHandler) ToggleRoleStatus(c *gin.Context) {
	id, ok := h.roleID(c)
	if !ok {
		return
	}

	role, err := h.service.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.failRole(c, err)
		return
	}

	msg := msgRoleDeactivated
	if role.IsActive {
		msg = msgRoleActivated
	}

	response.SuccessMessage(c, http.StatusOK, msg, role)
}

// GetPermissions lists the static permission catalog.
func (h *RoleHandler) GetPermissions(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Permissions())
}

// roleID parses the :id path parameter, failing the request on bad input.
func (h *RoleHandler) roleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// failRole maps service and repository errors to the envelope. Anything
// unrecognized is logged and collapsed to a 500 with a generic message.
func (h *RoleHandler) failRole(c *gin.Context, err error) {
	var unknownPerm *service.UnknownPermissionError

	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrRoleNotFound)
	case errors.Is(err, repository.ErrDuplicateName):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
			map[string]string{"name": "Ce nom de rôle existe déjà"})
	case errors.As(err, &unknownPerm):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation,
			map[string]string{"permissions": "La permission « " + unknownPerm.Key + " » n'existe pas"})
	case errors.Is(err, service.ErrProtectedRename):
		response.Fail(c, http.StatusForbidden, response.ErrProtectedRename)
	case errors.Is(err, service.ErrProtectedDelete):
		response.Fail(c, http.StatusForbidden, response.ErrProtectedDelete)
	case errors.Is(err, service.ErrProtectedDeactivate):
		response.Fail(c, http.StatusForbidden, response.ErrProtectedDeactivate)
	case errors.Is(err, service.ErrRoleInUse):
		response.Fail(c, http.StatusBadRequest, response.ErrRoleInUse)
	default:
		h.log.Error().Err(err).Msg("role operation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
