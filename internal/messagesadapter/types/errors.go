package types

// Error type strings used in the caller-facing error envelope.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeAuthentication = "authentication_error"
	ErrorTypePermission     = "permission_error"
	ErrorTypeNotFound       = "not_found_error"
	ErrorTypeRateLimit      = "rate_limit_error"
	ErrorTypeAPI            = "api_error"
	ErrorTypeOverloaded     = "overloaded_error"
)

// ErrorResponse is the structured error envelope returned to callers:
// {"type":"error","error":{"type":...,"message":...}}. Failures are never
// surfaced as bare text.
type ErrorResponse struct {
	Type string      `json:"type"`
	Err  ErrorDetail `json:"error"`

	// StatusCode is the HTTP status to respond with. Zero means derive it
	// from Err.Type. Set explicitly when passing an upstream status through.
	StatusCode int `json:"-"`
}

// ErrorDetail is the inner error object.
type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorResponse builds an envelope with the given error type and message.
func NewErrorResponse(errType, message string) *ErrorResponse {
	return &ErrorResponse{
		Type: "error",
		Err:  ErrorDetail{Type: errType, Message: message},
	}
}

// Error implements the error interface, returning the inner message. This
// allows ErrorResponse to travel through error returns while keeping the full
// envelope for marshaling.
func (e *ErrorResponse) Error() string {
	return e.Err.Message
}
