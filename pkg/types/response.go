package types

// SuccessEnvelope wraps every successful API payload under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body: a stable machine code plus a
// human-readable message. Details carry field-level validation issues.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under an "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
