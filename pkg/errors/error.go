package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalError represents an unexpected internal failure.
	GeneralInternalError ErrorCode = "general_internal_error"

	// OrderNotFound represents a cancel or modify referencing an id
	// that is not currently resting in the book.
	OrderNotFound ErrorCode = "order_not_found"
	// InvalidOrder represents an order rejected at the engine boundary,
	// e.g. non-positive quantity or a limit order without a positive price.
	InvalidOrder ErrorCode = "invalid_order"
	// MalformedCommand represents console input that could not be parsed.
	MalformedCommand ErrorCode = "malformed_command"
)
