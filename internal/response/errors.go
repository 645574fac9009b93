package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountDisabled    ErrCode = "ACCOUNT_DISABLED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Roles ─────────────────────────────────────────────────────────
	ErrRoleNotFound         ErrCode = "ROLE_NOT_FOUND"
	ErrProtectedRename      ErrCode = "PROTECTED_ROLE_RENAME"
	ErrProtectedDelete      ErrCode = "PROTECTED_ROLE_DELETE"
	ErrProtectedDeactivate  ErrCode = "PROTECTED_ROLE_DEACTIVATE"
	ErrRoleInUse            ErrCode = "ROLE_IN_USE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the user-facing French message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email ou mot de passe incorrect."
	case ErrAccountDisabled:
		return "Votre compte est désactivé."
	case ErrTokenRequired:
		return "Un jeton d'authentification est requis."
	case ErrTokenInvalid:
		return "Le jeton d'authentification est invalide."
	case ErrTokenRevoked:
		return "Votre session a expiré. Veuillez vous reconnecter."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrPermissionDenied:
		return "Vous n'avez pas la permission d'accéder à cette ressource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Erreur de validation"
	case ErrInvalidID:
		return "Le format de l'identifiant est invalide."
	case ErrInvalidPayload:
		return "Le contenu de la requête est invalide."

	// ─── Roles ─────────────────────────────────────────────────────────
	case ErrRoleNotFound:
		return "Rôle non trouvé"
	case ErrProtectedRename:
		return "Vous ne pouvez pas modifier le nom du rôle Admin SI"
	case ErrProtectedDelete:
		return "Le rôle Admin SI ne peut pas être supprimé"
	case ErrProtectedDeactivate:
		return "Le rôle Admin SI ne peut pas être désactivé"
	case ErrRoleInUse:
		return "Ce rôle est attribué à des utilisateurs et ne peut pas être supprimé"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Ressource non trouvée"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Trop de requêtes. Veuillez réessayer plus tard."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Une erreur est survenue"
	default:
		return "Une erreur inattendue est survenue"
	}
}
