package types

// SuccessEnvelope wraps every successful JSON response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape; Details is populated only for codes
// that allow it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error JSON response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
