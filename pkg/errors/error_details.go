package errors

// ErrorDetails represents detailed information about an error that is
// safe to surface to the user.
type ErrorDetails struct {
	// Message (required) is the user-facing error message.
	// E.g. "order not found: <id>".
	Message string

	// Code (required) is the machine-readable error code.
	Code ErrorCode

	// Field (optional) is the input field the error occurred on, if any.
	Field string
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message string, code ErrorCode, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// Error is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` has a specific code.
func ErrorCodeEquals(err error, code ErrorCode) bool {
	errDetails, ok := err.(*ErrorDetails)
	if !ok {
		return false
	}

	return errDetails.Code == code
}
