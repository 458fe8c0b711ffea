package openaichat

import (
	"fmt"
	"net/http"
	"strings"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// transportError wraps a failure to reach the upstream at all. Connection
// refusals, DNS failures and timeouts all surface as a 502 envelope.
func transportError(err error) *types.ErrorResponse {
	resp := types.NewErrorResponse(types.ErrorTypeAPI, fmt.Sprintf("upstream request failed: %v", err))
	resp.StatusCode = http.StatusBadGateway
	return resp
}

// upstreamError converts a non-2xx upstream response into a caller envelope.
// The upstream status is passed through unchanged; the error type is derived
// from it.
func upstreamError(status int, body []byte) *types.ErrorResponse {
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(status)
	}
	resp := types.NewErrorResponse(errorTypeForStatus(status), fmt.Sprintf("upstream returned status %d: %s", status, message))
	resp.StatusCode = status
	return resp
}

func errorTypeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return types.ErrorTypeInvalidRequest
	case http.StatusUnauthorized:
		return types.ErrorTypeAuthentication
	case http.StatusForbidden:
		return types.ErrorTypePermission
	case http.StatusNotFound:
		return types.ErrorTypeNotFound
	case http.StatusTooManyRequests:
		return types.ErrorTypeRateLimit
	case http.StatusServiceUnavailable, 529:
		return types.ErrorTypeOverloaded
	default:
		return types.ErrorTypeAPI
	}
}
