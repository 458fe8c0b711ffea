package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// SSEWriter writes server-sent events in the named-event form the Messages
// streaming protocol uses: an "event:" line naming the event type followed by
// a "data:" line carrying the JSON payload. Every event is flushed immediately
// so clients observe deltas as they are produced.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter prepares the response for streaming and returns a writer. It
// fails when the ResponseWriter does not support flushing, before any response
// headers are committed.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent writes one named event with a JSON-encoded payload and flushes.
func (s *SSEWriter) WriteEvent(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", name, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("writing %s event: %w", name, err)
	}
	s.flusher.Flush()
	return nil
}
