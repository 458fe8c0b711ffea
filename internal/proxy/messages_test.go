package proxy

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// stubStreamAdapter returns a canned event stream and records whether the
// iterator's cleanup ran.
type stubStreamAdapter struct {
	cleanedUp bool
}

func (a *stubStreamAdapter) ProcessRequest(
	_ context.Context, _ types.MessagesRequest, _ http.RoundTripper,
) (*types.MessagesResponse, error) {
	return &types.MessagesResponse{}, nil
}

func (a *stubStreamAdapter) ProcessStreamingRequest(
	_ context.Context, _ types.MessagesRequest, _ http.RoundTripper,
) (iter.Seq2[types.StreamEvent, error], error) {
	return func(yield func(types.StreamEvent, error) bool) {
		defer func() { a.cleanedUp = true }()
		yield(types.NewMessageStopEvent(), nil)
	}, nil
}

// plainResponseWriter hides the recorder's Flush method so the handler sees a
// writer without http.Flusher support.
type plainResponseWriter struct {
	rec *httptest.ResponseRecorder
}

func (w *plainResponseWriter) Header() http.Header         { return w.rec.Header() }
func (w *plainResponseWriter) Write(b []byte) (int, error) { return w.rec.Write(b) }
func (w *plainResponseWriter) WriteHeader(code int)        { w.rec.WriteHeader(code) }

func TestStreamResponseReleasesStreamWithoutFlusher(t *testing.T) {
	adapter := &stubStreamAdapter{}
	handler := &CreateMessageHandler{Adapter: adapter}

	req := httptest.NewRequest(http.MethodPost, "/v1/messages",
		strings.NewReader(`{"model": "gpt-4o", "stream": true, "messages": [{"role": "user", "content": "hi"}]}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(&plainResponseWriter{rec: rec}, req)

	assert.True(t, adapter.cleanedUp, "stream cleanup must run when SSE setup fails")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope types.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, types.ErrorTypeAPI, envelope.Err.Type)
}
