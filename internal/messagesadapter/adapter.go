package messagesadapter

import (
	"context"
	"iter"
	"net/http"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// Adapter defines the contract for transforming client requests to provider
// API calls.
//
// Type parameters allow the interface to express transformation contracts for
// different request/response shapes while maintaining compile-time type safety.
//
// Type parameters:
//   - TRequest:  Client-specific request structure
//   - TResponse: Client-specific response structure
//   - TEvent:    Client-specific streaming event protocol
type Adapter[TRequest, TResponse any, TEvent any] interface {
	// ProcessRequest transforms the client request, calls the provider API, and
	// returns the transformed response. Implementations should remain stateless
	// across requests.
	ProcessRequest(ctx context.Context, clientReq TRequest, transport http.RoundTripper) (*TResponse, error)

	// ProcessStreamingRequest transforms the client request, calls the provider
	// streaming API, and returns an iterator of transformed events. All
	// per-stream state lives in the iterator; nothing is shared or pooled.
	ProcessStreamingRequest(ctx context.Context, clientReq TRequest, transport http.RoundTripper) (iter.Seq2[TEvent, error], error)
}

// Type aliases for the Anthropic Messages operation handled by this gateway.
// CreateMessageAdapter is the concrete adapter interface for the operation.
type (
	CreateMessageRequest  = types.MessagesRequest
	CreateMessageResponse = types.MessagesResponse
	CreateMessageEvent    = types.StreamEvent

	CreateMessageAdapter = Adapter[
		CreateMessageRequest,
		CreateMessageResponse,
		CreateMessageEvent,
	]
)

// Type aliases for the caller-facing error envelope.
type (
	ErrorResponse = types.ErrorResponse
	ErrorDetail   = types.ErrorDetail
)
