package model

// Permission represents a string key for a grantable capability.
type Permission string

const (
	// PermissionManageUsers allows managing user accounts.
	PermissionManageUsers Permission = "manage_users"

	// PermissionManageRoles allows creating, updating, and deleting roles.
	PermissionManageRoles Permission = "manage_roles"

	// PermissionManageDictionaries allows editing reference dictionaries.
	PermissionManageDictionaries Permission = "manage_dictionaries"

	// PermissionViewAuditLogs allows reading the audit trail.
	PermissionViewAuditLogs Permission = "view_audit_logs"

	// PermissionAccessAdminDashboard allows access to the admin dashboard.
	PermissionAccessAdminDashboard Permission = "access_admin_dashboard"

	// PermissionActivateUsers allows activating user accounts.
	PermissionActivateUsers Permission = "activate_users"

	// PermissionAssignRoles allows assigning roles to users.
	PermissionAssignRoles Permission = "assign_roles"

	// PermissionResetPasswords allows resetting user passwords.
	PermissionResetPasswords Permission = "reset_passwords"

	// PermissionViewDossiers allows viewing assistance cases.
	PermissionViewDossiers Permission = "view_dossiers"

	// PermissionCreateDossiers allows opening new assistance cases.
	PermissionCreateDossiers Permission = "create_dossiers"

	// PermissionEditDossiers allows editing assistance cases.
	PermissionEditDossiers Permission = "edit_dossiers"

	// PermissionDeleteDossiers allows removing assistance cases.
	PermissionDeleteDossiers Permission = "delete_dossiers"

	// PermissionValidateDossiers allows validating assistance cases.
	PermissionValidateDossiers Permission = "validate_dossiers"

	// PermissionExportData allows exporting data.
	PermissionExportData Permission = "export_data"
)

// PermissionEntry pairs a permission key with its human-readable label
// shown in the admin UI.
type PermissionEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PermissionCatalog is the ordered, static list of grantable permissions.
// It is read-only after process start and safe for concurrent reads.
var PermissionCatalog = []PermissionEntry{
	{Key: string(PermissionManageUsers), Label: "Gérer les utilisateurs"},
	{Key: string(PermissionManageRoles), Label: "Gérer les rôles"},
	{Key: string(PermissionManageDictionaries), Label: "Gérer les dictionnaires"},
	{Key: string(PermissionViewAuditLogs), Label: "Voir les logs d'audit"},
	{Key: string(PermissionAccessAdminDashboard), Label: "Accéder au dashboard admin"},
	{Key: string(PermissionActivateUsers), Label: "Activer les utilisateurs"},
	{Key: string(PermissionAssignRoles), Label: "Attribuer des rôles"},
	{Key: string(PermissionResetPasswords), Label: "Réinitialiser les mots de passe"},
	{Key: string(PermissionViewDossiers), Label: "Voir les dossiers"},
	{Key: string(PermissionCreateDossiers), Label: "Créer des dossiers"},
	{Key: string(PermissionEditDossiers), Label: "Modifier des dossiers"},
	{Key: string(PermissionDeleteDossiers), Label: "Supprimer des dossiers"},
	{Key: string(PermissionValidateDossiers), Label: "Valider des dossiers"},
	{Key: string(PermissionExportData), Label: "Exporter des données"},
}

var permissionKeys = func() map[string]struct{} {
	keys := make(map[string]struct{}, len(PermissionCatalog))
	for _, entry := range PermissionCatalog {
		keys[entry.Key] = struct{}{}
	}
	return keys
}()

// IsValidPermission reports whether key exists in the permission catalog.
func IsValidPermission(key string) bool {
	_, ok := permissionKeys[key]
	return ok
}
