// Package apierror defines the error envelopes returned by the REST API.
// Internal errors never reach clients; handlers map them to these types.
package apierror

// APIError is the canonical envelope for 4xx/5xx responses
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries field level validation failures
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// ConfirmationError is returned when a destructive action is attempted without confirm=true.
// Nothing was changed.
type ConfirmationError struct {
	Detail  string `json:"detail"`
	Applied bool   `json:"applied"`
}

func NewConfirmation() *ConfirmationError {
	return &ConfirmationError{Detail: "this action requires confirm=true", Applied: false}
}
