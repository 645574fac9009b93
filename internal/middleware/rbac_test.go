package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sa-management/sa-backend/internal/middleware"
	"github.com/sa-management/sa-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withClaims injects claims into the context the way RequireAuth would.
func withClaims(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, &service.Claims{
			UserID:      1,
			RoleName:    "gestionnaire",
			Permissions: permissions,
		})
	}
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRequirePermission(t *testing.T) {
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	r.GET("/granted", withClaims("manage_roles"), middleware.RequirePermission("manage_roles"), ok)
	r.GET("/denied", withClaims("view_dossiers"), middleware.RequirePermission("manage_roles"), ok)
	r.GET("/anonymous", middleware.RequirePermission("manage_roles"), ok)

	assert.Equal(t, http.StatusOK, serve(r, "/granted").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/denied").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/anonymous").Code)
}

func TestRequireAnyPermission(t *testing.T) {
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	mw := middleware.RequireAnyPermission("manage_roles", "view_audit_logs")
	r.GET("/audit", withClaims("view_audit_logs"), mw, ok)
	r.GET("/none", withClaims("view_dossiers"), mw, ok)

	assert.Equal(t, http.StatusOK, serve(r, "/audit").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/none").Code)
}
