package proxy

import (
	"net/http"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// Recovery recovers from panics in HTTP handlers and returns an error
// envelope to the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recover() != nil {
				// Logging of panics is handled in Logging middleware
				writeJSONMessagesError(r.Context(), w, types.NewErrorResponse(
					types.ErrorTypeAPI,
					http.StatusText(http.StatusInternalServerError),
				))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// RequestSizeLimit enforces maximum request body size.
// Handlers that read the body will receive *http.MaxBytesError when the limit is exceeded.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
