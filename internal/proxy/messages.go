package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"localhost/claude-relay/internal/messagesadapter"
	"localhost/claude-relay/internal/messagesadapter/types"
)

// CreateMessageHandler handles Anthropic Messages API requests.
type CreateMessageHandler struct {
	Adapter   messagesadapter.CreateMessageAdapter
	Transport http.RoundTripper

	// ModelMap remaps requested model names before they reach the adapter.
	// Missing entries pass through unchanged.
	ModelMap map[string]string
}

// Compile-time check to ensure CreateMessageHandler implements http.Handler
var _ http.Handler = (*CreateMessageHandler)(nil)

// ServeHTTP implements http.Handler interface for streaming or non-streaming requests.
func (h *CreateMessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req types.MessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			slog.WarnContext(ctx, "request exceeds size limit", "limit_bytes", maxBytesErr.Limit)
			errResp := types.NewErrorResponse(
				types.ErrorTypeInvalidRequest,
				http.StatusText(http.StatusRequestEntityTooLarge),
			)
			errResp.StatusCode = http.StatusRequestEntityTooLarge
			writeJSONMessagesError(ctx, w, errResp)
			return
		}
		slog.ErrorContext(ctx, "failed to decode request", "error", err)
		writeJSONMessagesError(ctx, w, types.NewErrorResponse(
			types.ErrorTypeInvalidRequest,
			"request body is not a valid messages request",
		))
		return
	}

	if mapped, ok := h.ModelMap[req.Model]; ok {
		req.Model = mapped
	}

	if req.Stream {
		h.streamResponse(ctx, w, req)
	} else {
		h.writeResponse(ctx, w, req)
	}
}

// writeResponse handles non-streaming requests.
func (h *CreateMessageHandler) writeResponse(
	ctx context.Context,
	w http.ResponseWriter,
	req types.MessagesRequest,
) {
	if ctx.Err() != nil {
		return
	}
	response, err := h.Adapter.ProcessRequest(ctx, req, h.Transport)
	if err != nil {
		slog.ErrorContext(ctx, "request failed", "error", err)

		var errResp *types.ErrorResponse
		if errors.As(err, &errResp) {
			writeJSONMessagesError(ctx, w, errResp)
			return
		}

		writeJSONMessagesError(ctx, w, types.NewErrorResponse(
			types.ErrorTypeAPI,
			http.StatusText(http.StatusInternalServerError),
		))
		return
	}

	writeJSON(ctx, w, response, http.StatusOK)
}

// streamResponse streams reconstructed events using SSE. Upstream failures
// before the first event are written as a plain JSON error response so clients
// can distinguish them from stream aborts.
func (h *CreateMessageHandler) streamResponse(
	ctx context.Context,
	w http.ResponseWriter,
	req types.MessagesRequest,
) {
	if ctx.Err() != nil {
		return
	}
	stream, err := h.Adapter.ProcessStreamingRequest(ctx, req, h.Transport)
	if err != nil {
		slog.ErrorContext(ctx, "streaming request failed", "error", err)

		var errResp *types.ErrorResponse
		if errors.As(err, &errResp) {
			writeJSONMessagesError(ctx, w, errResp)
			return
		}

		writeJSONMessagesError(ctx, w, types.NewErrorResponse(
			types.ErrorTypeAPI,
			http.StatusText(http.StatusInternalServerError),
		))
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		// Run the iterator once so its cleanup releases the upstream body
		// and the stream timeout.
		stream(func(types.StreamEvent, error) bool { return false })
		slog.ErrorContext(ctx, "SSE not supported", "error", err)
		writeJSONMessagesError(ctx, w, types.NewErrorResponse(
			types.ErrorTypeAPI,
			http.StatusText(http.StatusInternalServerError),
		))
		return
	}

	for event, err := range stream {
		// Check for client disconnect before processing the event
		if ctx.Err() != nil {
			slog.DebugContext(ctx, "client disconnected during stream")
			return
		}

		if err != nil {
			slog.ErrorContext(ctx, "stream error", "error", err)

			var errResp *types.ErrorResponse
			if !errors.As(err, &errResp) {
				errResp = types.NewErrorResponse(types.ErrorTypeAPI, err.Error())
			}
			// Mid-stream failures use the protocol's error event; the HTTP
			// status is already committed at this point.
			if writeErr := sse.WriteEvent("error", errResp); writeErr != nil {
				slog.ErrorContext(ctx, "failed to write error event", "error", writeErr)
			}
			return
		}

		if writeErr := sse.WriteEvent(event.StreamEventType(), event); writeErr != nil {
			slog.ErrorContext(ctx, "failed to write event", "error", writeErr)
			return
		}
	}
}
