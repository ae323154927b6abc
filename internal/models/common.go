package models

// ErrorDetail provides a structured way to represent a failed method call.
type ErrorDetail struct {
	// Code is a short machine-readable tag such as INVALID_ARGUMENT.
	Code string `json:"code"`
	// Message is a human-readable error message. For native I/O failures this
	// is the operating system's error text.
	Message string `json:"message"`
	// Details is always null on the wire; it is kept so callers that expect
	// the key find it.
	Details interface{} `json:"details"`
}

// Error implements the error interface so an ErrorDetail can travel through
// code paths that deal in plain errors.
func (e *ErrorDetail) Error() string {
	return e.Code + ": " + e.Message
}

// ErrorResponse is a generic structure for returning errors, often used in HTTP responses.
type ErrorResponse struct {
	// Error contains the details of the error.
	Error ErrorDetail `json:"error"`
}
