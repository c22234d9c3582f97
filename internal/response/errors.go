package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrNotAuthenticated   ErrCode = "NOT_AUTHENTICATED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Quiz-specific ─────────────────────────────────────────────────
	ErrNoQuestions       ErrCode = "NO_QUESTIONS_AVAILABLE"
	ErrNoActiveSession   ErrCode = "NO_ACTIVE_SESSION"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrResultSaveFailed  ErrCode = "RESULT_SAVE_FAILED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrStorage  ErrCode = "STORAGE_ERROR"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Username or password is incorrect."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your login session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrNotAuthenticated:
		return "No student is logged in."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "The request payload is invalid."
	case ErrNotFound:
		return "Resource not found."
	case ErrNoQuestions:
		return "This subject has no questions yet."
	case ErrNoActiveSession:
		return "There is no quiz session in progress."
	case ErrInvalidTransition:
		return "This action is not allowed in the current quiz state."
	case ErrResultSaveFailed:
		return "Your result could not be saved. It will be retried automatically."
	case ErrStorage:
		return "The storage backend is unavailable. Please try again."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
