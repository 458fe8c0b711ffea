package openaichat

import (
	openai "github.com/sashabaranov/go-openai"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// ToMessagesResponse converts a buffered provider completion to the caller's
// shape. Only the first choice is considered. fallbackModel fills in when the
// provider omits the model name, so the caller always sees the model it asked
// for.
func ToMessagesResponse(resp openai.ChatCompletionResponse, fallbackModel string) *types.MessagesResponse {
	out := &types.MessagesResponse{
		ID:    resp.ID,
		Type:  "message",
		Role:  types.RoleAssistant,
		Model: resp.Model,
		Usage: types.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}
	if out.ID == "" {
		out.ID = newMessageID()
	}
	if out.Model == "" {
		out.Model = fallbackModel
	}

	var finishReason string
	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		finishReason = string(choice.FinishReason)

		if choice.Message.Content != "" {
			out.Content = append(out.Content, types.ContentBlock{
				Type: types.ContentBlockTypeText,
				Text: choice.Message.Content,
			})
		}
		for _, tc := range choice.Message.ToolCalls {
			id := tc.ID
			if id == "" {
				id = newToolCallID()
			}
			out.Content = append(out.Content, types.ContentBlock{
				Type:  types.ContentBlockTypeToolUse,
				ID:    id,
				Name:  tc.Function.Name,
				Input: toolInputFromArguments(tc.Function.Arguments),
			})
		}
	}

	// The caller's schema requires at least one block.
	if len(out.Content) == 0 {
		out.Content = []types.ContentBlock{{Type: types.ContentBlockTypeText}}
	}

	out.StopReason = StopReasonFromFinish(finishReason)

	return out
}
