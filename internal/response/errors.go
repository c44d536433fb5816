package response

// ErrCode is a typed error code enum for consistent API error identification.
// Clients branch on the code; messages may change between versions.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation ErrCode = "VALIDATION_ERROR"

	// ─── Booking ───────────────────────────────────────────────────────
	ErrClassNotFound  ErrCode = "CLASS_NOT_FOUND"
	ErrClassFull      ErrCode = "CLASS_FULL"
	ErrAlreadyBooked  ErrCode = "ALREADY_BOOKED"
	ErrBookingMissing ErrCode = "NOT_FOUND"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "ROUTE_NOT_FOUND"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrClassNotFound:
		return "Class not found."
	case ErrClassFull:
		return "No available slots for this class."
	case ErrAlreadyBooked:
		return "You have already booked this class."
	case ErrBookingMissing:
		return "No bookings found for this email."
	case ErrNotFound:
		return "Resource not found."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
