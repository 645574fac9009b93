package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sa-management/sa-backend/internal/middleware"
	"github.com/sa-management/sa-backend/internal/repository"
	"github.com/sa-management/sa-backend/internal/response"
	"github.com/sa-management/sa-backend/internal/service"
	"github.com/sa-management/sa-backend/internal/validator"
)

// LoginInput is the expected login payload.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler serves login, logout, and the current-user profile.
type AuthHandler struct {
	service *service.AuthService
	log     zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login verifies credentials and returns a bearer token with the user record.
func (h *AuthHandler) Login(c *gin.Context) {
	var in LoginInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		case errors.Is(err, service.ErrAccountDisabled):
			response.Fail(c, http.StatusForbidden, response.ErrAccountDisabled)
		default:
			h.log.Error().Err(err).Msg("login failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.SuccessMessage(c, http.StatusOK, "Connexion réussie", gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the caller's token until its natural expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.service.RevokeToken(c.Request.Context(), claims); err != nil {
		h.log.Error().Err(err).Msg("token revocation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessMessage(c, http.StatusOK, "Déconnexion réussie", nil)
}

// Me returns the authenticated user's profile with role details.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	user, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("profile lookup failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, user)
}
