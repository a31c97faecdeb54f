package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrDuplicateIdentity  ErrCode = "DUPLICATE_IDENTITY"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidInput   ErrCode = "INVALID_INPUT"
	ErrInvalidImport  ErrCode = "INVALID_IMPORT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Attempts ──────────────────────────────────────────────────────
	ErrInvalidQuiz   ErrCode = "INVALID_QUIZ"
	ErrAttemptActive ErrCode = "ATTEMPT_ACTIVE"
	ErrNoAttempt     ErrCode = "NO_ATTEMPT"
	ErrNotInProgress ErrCode = "ATTEMPT_NOT_IN_PROGRESS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimited ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Username/email or password is incorrect."
	case ErrDuplicateIdentity:
		return "An account with this username or email already exists."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is not valid."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is not valid."
	case ErrInvalidInput:
		return "A question or option index is out of range."
	case ErrInvalidImport:
		return "The progress backup is malformed and was not applied."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The resource was not found."

	// ─── Attempts ──────────────────────────────────────────────────────
	case ErrInvalidQuiz:
		return "This quiz has no questions."
	case ErrAttemptActive:
		return "Another attempt is already in progress. Finish or cancel it first."
	case ErrNoAttempt:
		return "There is no active attempt."
	case ErrNotInProgress:
		return "The attempt is not in progress."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimited:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
