package openaichat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"localhost/claude-relay/internal/messagesadapter/types"
)

func TestStopReasonFromFinish(t *testing.T) {
	tests := []struct {
		finishReason string
		want         string
	}{
		{"tool_calls", types.StopReasonToolUse},
		{"length", types.StopReasonMaxTokens},
		{"stop", types.StopReasonEndTurn},
		{"null", types.StopReasonEndTurn},
		{"", types.StopReasonEndTurn},
		{"content_filter", types.StopReasonEndTurn},
	}

	for _, tt := range tests {
		t.Run("finish_"+tt.finishReason, func(t *testing.T) {
			assert.Equal(t, tt.want, StopReasonFromFinish(tt.finishReason))
		})
	}
}

func TestFinishReasonFromStop(t *testing.T) {
	tests := []struct {
		stopReason string
		want       string
	}{
		{types.StopReasonToolUse, "tool_calls"},
		{types.StopReasonMaxTokens, "length"},
		{types.StopReasonEndTurn, "stop"},
		{"unknown", "stop"},
	}

	for _, tt := range tests {
		t.Run("stop_"+tt.stopReason, func(t *testing.T) {
			assert.Equal(t, tt.want, FinishReasonFromStop(tt.stopReason))
		})
	}
}

func TestNewMessageID(t *testing.T) {
	id := newMessageID()
	assert.True(t, strings.HasPrefix(id, "msg_"))
	assert.Len(t, id, len("msg_")+32)
	assert.NotEqual(t, id, newMessageID())
}

func TestNewToolCallID(t *testing.T) {
	id := newToolCallID()
	assert.True(t, strings.HasPrefix(id, "call_"))
	assert.Len(t, id, len("call_")+8)
}
