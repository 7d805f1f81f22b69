package constants

const (
	ROLE_ADMIN  = "ADMIN"
	ROLE_USER   = "USER"
	ROLE_VENDOR = "VENDOR"
)

const (
	ERROR_INTERNAL_ERROR      = "Internal server error"
	ERROR_INVALID_INPUT       = "Invalid input"
	ERROR_UNAUTHORIZED        = "Unauthorized"
	ERROR_FORBIDDEN           = "Forbidden"
	DATA_INPUT_IS_NOT_NUMBER  = "Path parameter must be a number"
	ERROR_SEAT_UNAVAILABLE    = "Some seats are no longer available"
	ERROR_HOLD_MISMATCH       = "Seats are not held by you"
	ERROR_HOLD_EXPIRED        = "Your seat hold has expired"
	ERROR_PAYMENT_FAILED      = "Payment failed"
	ERROR_NOT_FOUND           = "Resource not found"
	ERROR_DUPLICATE_REQUEST   = "Request already in progress"
	ERROR_EMAIL_ALREADY_USED  = "Email already registered"
	ERROR_INVALID_CREDENTIALS = "Invalid email or password"
	ERROR_VENDOR_NOT_APPROVED = "Vendor account is not approved"
)

// Error codes returned in the "code" field of error responses.
const (
	CODE_NOT_FOUND        = "NOT_FOUND"
	CODE_SEAT_UNAVAILABLE = "SEAT_UNAVAILABLE"
	CODE_HOLD_MISMATCH    = "HOLD_MISMATCH"
	CODE_HOLD_EXPIRED     = "HOLD_EXPIRED"
	CODE_VALIDATION       = "VALIDATION_ERROR"
	CODE_PAYMENT_FAILED   = "PAYMENT_FAILED"
	CODE_INTERNAL         = "INTERNAL_ERROR"
	CODE_CONFLICT         = "CONFLICT"
	CODE_UNAUTHORIZED     = "UNAUTHORIZED"
)

const (
	FEEDBACK_GENERAL        = "GENERAL"
	FEEDBACK_CLEANLINESS    = "CLEANLINESS"
	FEEDBACK_PUNCTUALITY    = "PUNCTUALITY"
	FEEDBACK_STAFF_BEHAVIOR = "STAFF_BEHAVIOR"
	FEEDBACK_COMFORT        = "COMFORT"
	FEEDBACK_SAFETY         = "SAFETY"
	FEEDBACK_COMPLAINT      = "COMPLAINT"
	FEEDBACK_SUGGESTION     = "SUGGESTION"
)
