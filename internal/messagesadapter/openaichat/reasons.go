package openaichat

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// StopReasonFromFinish maps OpenAI finish reasons to the caller's stop reasons.
// The mapping is total: anything unrecognized (including "stop", "null" and
// absent values) means the turn ended naturally.
func StopReasonFromFinish(finishReason string) string {
	switch finishReason {
	case string(openai.FinishReasonToolCalls):
		return types.StopReasonToolUse
	case string(openai.FinishReasonLength):
		return types.StopReasonMaxTokens
	default:
		return types.StopReasonEndTurn
	}
}

// FinishReasonFromStop is the inverse mapping, used when re-encoding a caller
// response in the provider's shape. Unknown values map to "stop".
func FinishReasonFromStop(stopReason string) string {
	switch stopReason {
	case types.StopReasonToolUse:
		return string(openai.FinishReasonToolCalls)
	case types.StopReasonMaxTokens:
		return string(openai.FinishReasonLength)
	default:
		return string(openai.FinishReasonStop)
	}
}

// newMessageID generates an Anthropic-style message ID (msg_<token>).
// Used when the provider response carries no usable ID.
func newMessageID() string {
	b := make([]byte, 24) // 24 bytes yields 32 URL-safe base64 characters
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	// RawURLEncoding avoids '+', '/' and trailing '='
	return "msg_" + base64.RawURLEncoding.EncodeToString(b)
}

// newToolCallID generates an OpenAI-style tool call ID (call_<8-char-uuid>),
// used when the provider omitted the ID on a tool-call delta.
func newToolCallID() string {
	return fmt.Sprintf("call_%s", uuid.New().String()[:8])
}
