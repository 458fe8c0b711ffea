// Package openaichat adapts Anthropic Messages requests to OpenAI Chat
// Completions, enabling Anthropic SDK clients to work with OpenAI-compatible
// providers without code changes.
//
// The adapter handles:
//
//   - Message transformation: the Messages system field is flattened to one
//     string and carried as a leading system-role message. tool_result blocks
//     are split out into separate tool-role messages (required by OpenAI's
//     tool-call correlation rules), one per result, in input order.
//
//   - Tool calling: bidirectional {name, description, schema} re-nesting
//     between input_schema and function.parameters, tool-call ID preservation
//     with generated fallbacks, and structured-input ↔ argument-string
//     serialization with a raw-string carrier for unparsable arguments.
//
//   - Content blocks: maps between Anthropic's content blocks and OpenAI's
//     content parts. Thinking blocks have no OpenAI equivalent and are
//     dropped.
//
//   - Streaming: translates OpenAI's chunk deltas into Anthropic's SSE event
//     sequence with per-connection state for content-block indexing, tool-call
//     argument accumulation and usage tracking.
//
// # Adapters
//
// MessagesAdapter: Anthropic CreateMessage → OpenAI Chat Completions
package openaichat
