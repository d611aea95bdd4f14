package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Session ───────────────────────────────────────────────────────
	ErrNoActiveSession ErrCode = "NO_ACTIVE_SESSION"
	ErrSessionActive   ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrEmptyCriteria   ErrCode = "EMPTY_FILTER_CRITERIA"

	// ─── Generation ────────────────────────────────────────────────────
	ErrGenerationFailed  ErrCode = "GENERATION_FAILED"
	ErrProviderRateLimit ErrCode = "PROVIDER_RATE_LIMITED"
	ErrProviderAuth      ErrCode = "PROVIDER_AUTH_REQUIRED"

	// ─── Backup ────────────────────────────────────────────────────────
	ErrImportInvalid ErrCode = "IMPORT_INVALID"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Session ───────────────────────────────────────────────────────
	case ErrNoActiveSession:
		return "No quiz session is in progress."
	case ErrSessionActive:
		return "A quiz session is already in progress."
	case ErrEmptyCriteria:
		return "Select at least one specialty or enter a topic to generate questions."

	// ─── Generation ────────────────────────────────────────────────────
	case ErrGenerationFailed:
		return "Question generation failed. Please try again."
	case ErrProviderRateLimit:
		return "The AI provider is rate-limiting requests. Wait a moment and try again."
	case ErrProviderAuth:
		return "The AI provider rejected the configured credentials. Check your API key."

	// ─── Backup ────────────────────────────────────────────────────────
	case ErrImportInvalid:
		return "The backup file is malformed and was not imported."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
