// Package types holds the wire envelopes shared by every JSON endpoint.
// The checkout and webhook endpoints are the exception: their bodies are
// fixed by the storefront contract and skip the envelope entirely.
package types

// SuccessEnvelope wraps a successful JSON response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError carries a machine-readable code alongside the human message.
// Details is optional structured context, e.g. field validation failures.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps a failed JSON response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewError builds an ErrorEnvelope in one expression.
func NewError(code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{Error: APIError{Code: code, Message: message, Details: details}}
}
