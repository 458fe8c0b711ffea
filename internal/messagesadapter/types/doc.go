// Package types provides Anthropic Messages API types for server-side
// request/response handling.
//
// This package hand-maintains the wire shapes rather than using the
// anthropic-sdk-go SDK:
//
//  1. SERVER-SIDE vs CLIENT-SIDE: the SDK is designed for making outbound API
//     calls TO Anthropic. This gateway receives inbound requests FROM clients
//     and translates them TO an OpenAI-compatible provider. The client-oriented
//     param types would add unnecessary complexity for server-side JSON decoding.
//
//  2. FIELD PATTERNS: the SDK uses param.Opt[T] wrappers for optional fields.
//     Hand-written types use standard Go pointers and omitempty tags, which work
//     naturally with encoding/json via json.NewDecoder().
//
//  3. UNION HANDLING: the Messages API has three string-or-array unions (system
//     prompt, message content, tool_result content). Small custom UnmarshalJSON
//     methods cover exactly the shapes the transformers read; unknown fields on
//     the wire are tolerated and ignored, never rejected.
package types
