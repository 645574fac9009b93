package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sa-management/sa-backend/internal/config"
	"github.com/sa-management/sa-backend/internal/handler"
	"github.com/sa-management/sa-backend/internal/middleware"
	"github.com/sa-management/sa-backend/internal/model"
	"github.com/sa-management/sa-backend/internal/response"
	"github.com/sa-management/sa-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth  *handler.AuthHandler
	Role  *handler.RoleHandler
	Audit *handler.AuditHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Every response carries a request ID for log correlation.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login attempts (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── Auth ──────────────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// Active roles are readable by any authenticated user, e.g. to fill
	// a role selector in a user form.
	router.GET("/api/v1/roles/active",
		middleware.RequireAuth(authService),
		handlers.Role.ListActiveRoles,
	)

	// ─── Admin (JWT + RBAC) ────────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAuth(authService))
	{
		// Role management
		adminAPI.GET("/roles",
			middleware.RequirePermission(string(model.PermissionManageRoles)),
			handlers.Role.ListRoles,
		)
		adminAPI.GET("/roles/permissions",
			middleware.RequirePermission(string(model.PermissionManageRoles)),
			handlers.Role.GetPermissions,
		)
		adminAPI.GET("/roles/:id",
			middleware.RequirePermission(string(model.PermissionManageRoles)),
			handlers.Role.GetRole,
		)
		adminAPI.POST("/roles",
			middleware.RequirePermission(string(model.PermissionManageRoles)),
			handlers.Role.CreateRole,
		)
		adminAPI.PUT("/roles/:id",
			middleware.RequirePermission(string(model.PermissionManageRoles)),
			handlers.Role.UpdateRole,
		)
		adminAPI.DELETE("/roles/:id",
			middleware.RequirePermission(string(model.PermissionManageRoles)),
			handlers.Role.DeleteRole,
		)
		adminAPI.PATCH("/roles/:id/toggle-status",
			middleware.RequirePermission(string(model.PermissionManageRoles)),
			handlers.Role.ToggleRoleStatus,
		)

		// Audit trail
		adminAPI.GET("/audit-logs",
			middleware.RequirePermission(string(model.PermissionViewAuditLogs)),
			handlers.Audit.ListAuditLogs,
		)
	}

	return router
}
