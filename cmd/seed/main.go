// Command seed upserts the baseline roles. Running it twice is safe:
// existing roles are updated in place, keyed by name.
package main

import (
	"context"

	"github.com/sa-management/sa-backend/internal/config"
	"github.com/sa-management/sa-backend/internal/database"
	"github.com/sa-management/sa-backend/internal/logger"
	"github.com/sa-management/sa-backend/internal/model"
)

type seedRole struct {
	name        string
	displayName string
	description string
	permissions []model.Permission
}

var baselineRoles = []seedRole{
	{
		name:        model.ProtectedRoleName,
		displayName: "Administrateur SI",
		description: "Super administrateur du système",
		permissions: []model.Permission{
			model.PermissionManageUsers,
			model.PermissionManageRoles,
			model.PermissionManageDictionaries,
			model.PermissionViewAuditLogs,
			model.PermissionAccessAdminDashboard,
			model.PermissionActivateUsers,
			model.PermissionAssignRoles,
			model.PermissionResetPasswords,
		},
	},
	{
		name:        "gestionnaire",
		displayName: "Gestionnaire",
		description: "Gestionnaire des dossiers d'assistance",
		permissions: []model.Permission{
			model.PermissionViewDossiers,
			model.PermissionCreateDossiers,
			model.PermissionEditDossiers,
			model.PermissionDeleteDossiers,
		},
	},
	{
		name:        "consultant",
		displayName: "Consultant",
		description: "Consultation des dossiers uniquement",
		permissions: []model.Permission{
			model.PermissionViewDossiers,
		},
	},
}

const upsertRoleSQL = `
	INSERT INTO roles (name, display_name, description, permissions, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
	ON CONFLICT (name) DO UPDATE SET
		display_name = EXCLUDED.display_name,
		description  = EXCLUDED.description,
		permissions  = EXCLUDED.permissions,
		is_active    = TRUE,
		updated_at   = NOW()`

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	for _, role := range baselineRoles {
		perms := make([]string, len(role.permissions))
		for i, p := range role.permissions {
			perms[i] = string(p)
		}

		if _, err := pool.Exec(ctx, upsertRoleSQL,
			role.name, role.displayName, role.description, perms,
		); err != nil {
			log.Fatal().Err(err).Str("role", role.name).Msg("Failed to seed role")
		}
		log.Info().Str("role", role.name).Msg("Role seeded")
	}

	log.Info().Msg("Seeding complete")
}
