package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageContentUnmarshalString(t *testing.T) {
	var c MessageContent
	require.NoError(t, json.Unmarshal([]byte(`"hello"`), &c))

	require.NotNil(t, c.String)
	assert.Equal(t, "hello", *c.String)
	assert.Nil(t, c.Blocks)
}

func TestMessageContentUnmarshalBlocks(t *testing.T) {
	var c MessageContent
	require.NoError(t, json.Unmarshal([]byte(`[
		{"type": "text", "text": "look at this"},
		{"type": "image", "source": {"type": "base64", "media_type": "image/png", "data": "aGk="}}
	]`), &c))

	assert.Nil(t, c.String)
	require.Len(t, c.Blocks, 2)
	assert.Equal(t, ContentBlockTypeText, c.Blocks[0].Type)
	require.NotNil(t, c.Blocks[1].Source)
	assert.Equal(t, "image/png", c.Blocks[1].Source.MediaType)
}

func TestMessageContentToleratesUnknownFields(t *testing.T) {
	var c MessageContent
	require.NoError(t, json.Unmarshal([]byte(`[
		{"type": "text", "text": "hi", "cache_control": {"type": "ephemeral"}}
	]`), &c))

	require.Len(t, c.Blocks, 1)
	assert.Equal(t, "hi", c.Blocks[0].Text)
}

func TestContentBlockMarshalText(t *testing.T) {
	raw, err := json.Marshal(ContentBlock{Type: ContentBlockTypeText})
	require.NoError(t, err)

	// Text blocks always carry their text field, even when empty.
	assert.JSONEq(t, `{"type":"text","text":""}`, string(raw))
}

func TestContentBlockMarshalToolUse(t *testing.T) {
	raw, err := json.Marshal(ContentBlock{
		Type: ContentBlockTypeToolUse,
		ID:   "call_1",
		Name: "get_weather",
	})
	require.NoError(t, err)

	// Missing input defaults to an empty object, never null.
	assert.JSONEq(t, `{"type":"tool_use","id":"call_1","name":"get_weather","input":{}}`, string(raw))
}

func TestContentBlockMarshalToolUseDropsForeignFields(t *testing.T) {
	raw, err := json.Marshal(ContentBlock{
		Type:  ContentBlockTypeToolUse,
		ID:    "call_1",
		Name:  "f",
		Input: json.RawMessage(`{"a":1}`),
		Text:  "should not appear",
	})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "should not appear")
}

func TestToolResultContentFlatten(t *testing.T) {
	tests := []struct {
		name    string
		content ToolResultContent
		want    string
	}{
		{
			name:    "bare_string",
			content: TextToolResult("42"),
			want:    "42",
		},
		{
			name: "text_blocks_joined",
			content: ToolResultContent{Blocks: []ContentBlock{
				{Type: ContentBlockTypeText, Text: "line one"},
				{Type: ContentBlockTypeText, Text: "line two"},
			}},
			want: "line one\nline two",
		},
		{
			name:    "empty",
			content: ToolResultContent{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.content.Flatten())
		})
	}
}

func TestToolResultContentFlattenNonText(t *testing.T) {
	content := ToolResultContent{Blocks: []ContentBlock{
		{Type: ContentBlockTypeImage, Source: &ImageSource{Type: ImageSourceTypeBase64, Data: "aGk="}},
	}}

	// Without any text block the result falls back to JSON encoding.
	got := content.Flatten()
	assert.True(t, json.Valid([]byte(got)))
	assert.Contains(t, got, "image")
}

func TestSystemPromptUnmarshal(t *testing.T) {
	var plain SystemPrompt
	require.NoError(t, json.Unmarshal([]byte(`"be brief"`), &plain))
	assert.Equal(t, "be brief", plain.Flatten())
	assert.False(t, plain.IsZero())

	var blocks SystemPrompt
	require.NoError(t, json.Unmarshal([]byte(`[{"type":"text","text":"a"},{"type":"text","text":"b"}]`), &blocks))
	assert.Equal(t, "a\nb", blocks.Flatten())

	var zero SystemPrompt
	assert.True(t, zero.IsZero())
}

func TestMessagesRequestUnmarshal(t *testing.T) {
	var req MessagesRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"model": "claude-sonnet-4-20250514",
		"max_tokens": 1024,
		"system": "be helpful",
		"messages": [
			{"role": "user", "content": "hi"},
			{"role": "assistant", "content": [{"type": "text", "text": "hello"}]}
		],
		"stream": true,
		"metadata": {"user_id": "ignored"}
	}`), &req))

	assert.Equal(t, "claude-sonnet-4-20250514", req.Model)
	assert.Equal(t, 1024, req.MaxTokens)
	assert.True(t, req.Stream)
	require.Len(t, req.Messages, 2)
	require.NotNil(t, req.Messages[0].Content.String)
	require.Len(t, req.Messages[1].Content.Blocks, 1)
}

func TestErrorResponseEnvelope(t *testing.T) {
	errResp := NewErrorResponse(ErrorTypeInvalidRequest, "missing model")

	raw, err := json.Marshal(errResp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","error":{"type":"invalid_request_error","message":"missing model"}}`, string(raw))

	assert.Equal(t, "missing model", errResp.Error())
}
