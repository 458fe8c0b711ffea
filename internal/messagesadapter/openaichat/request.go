package openaichat

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// FromMessagesRequest converts a caller request to the provider's shape. The
// conversion is pure: the input is never mutated, every output list is freshly
// allocated. Fields the provider does not define are omitted, never zeroed.
func FromMessagesRequest(req types.MessagesRequest) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Stream:    req.Stream,
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if system := req.System.Flatten(); system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, fromMessage(m)...)
	}
	out.Messages = messages

	if req.Temperature != nil {
		out.Temperature = float32(*req.Temperature)
	}
	if req.TopP != nil {
		out.TopP = float32(*req.TopP)
	}
	if len(req.StopSequences) > 0 {
		out.Stop = append([]string(nil), req.StopSequences...)
	}

	out.Tools = ToolsFromMessages(req.Tools)
	out.ToolChoice = toolChoiceFromMessages(req.ToolChoice)

	// Streaming requests ask for usage totals in-band so the terminal figures
	// are available without an extra round trip.
	if req.Stream {
		out.StreamOptions = &openai.StreamOptions{IncludeUsage: true}
	}

	return out
}

// fromMessage expands one caller message into one or more provider messages.
// tool_result blocks each become their own tool-role message, ahead of any
// accompanying user content.
func fromMessage(m types.Message) []openai.ChatCompletionMessage {
	if m.Role == types.RoleAssistant {
		return []openai.ChatCompletionMessage{fromAssistantMessage(m)}
	}
	return fromUserMessage(m)
}

func fromUserMessage(m types.Message) []openai.ChatCompletionMessage {
	if m.Content.String != nil {
		return []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: *m.Content.String,
		}}
	}

	var out []openai.ChatCompletionMessage
	var rest []types.ContentBlock
	for _, b := range m.Content.Blocks {
		if b.Type == types.ContentBlockTypeToolResult {
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: b.ToolUseID,
				Content:    b.Content.Flatten(),
			})
			continue
		}
		rest = append(rest, b)
	}

	switch {
	case len(rest) == 1 && rest[0].Type == types.ContentBlockTypeText:
		// Single text block collapses to the simplest form the provider accepts.
		out = append(out, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: rest[0].Text,
		})
	case len(rest) > 0:
		parts := toChatMessageParts(rest)
		if len(parts) > 0 {
			out = append(out, openai.ChatCompletionMessage{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: parts,
			})
		}
	}

	return out
}

// fromAssistantMessage merges text and tool_use blocks into one provider
// message. Thinking blocks have no provider equivalent and are dropped.
func fromAssistantMessage(m types.Message) openai.ChatCompletionMessage {
	out := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}

	if m.Content.String != nil {
		out.Content = *m.Content.String
		return out
	}

	var text strings.Builder
	for _, b := range m.Content.Blocks {
		switch b.Type {
		case types.ContentBlockTypeText:
			text.WriteString(b.Text)
		case types.ContentBlockTypeToolUse:
			out.ToolCalls = append(out.ToolCalls, openai.ToolCall{
				ID:   b.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      b.Name,
					Arguments: argumentsFromToolInput(b.Input),
				},
			})
		}
	}
	out.Content = text.String()
	return out
}

// ToMessagesRequest converts a provider request back to the caller's shape.
// Leading system and developer messages are hoisted into the system field;
// tool-role messages become tool_result blocks on a user message, consecutive
// results sharing one message.
func ToMessagesRequest(req openai.ChatCompletionRequest) types.MessagesRequest {
	out := types.MessagesRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Stream:    req.Stream,
	}

	var systemParts []string
	var messages []types.Message
	for _, m := range req.Messages {
		switch m.Role {
		case openai.ChatMessageRoleSystem, "developer":
			systemParts = append(systemParts, flattenProviderContent(m))
		case openai.ChatMessageRoleTool:
			block := types.ContentBlock{
				Type:      types.ContentBlockTypeToolResult,
				ToolUseID: m.ToolCallID,
				Content:   types.TextToolResult(m.Content),
			}
			// Consecutive tool results belong to the same turn.
			if n := len(messages); n > 0 && isToolResultMessage(messages[n-1]) {
				messages[n-1].Content.Blocks = append(messages[n-1].Content.Blocks, block)
				continue
			}
			messages = append(messages, types.Message{
				Role:    types.RoleUser,
				Content: types.BlocksContent(block),
			})
		case openai.ChatMessageRoleAssistant:
			messages = append(messages, toAssistantMessage(m))
		default:
			messages = append(messages, toUserMessage(m))
		}
	}
	out.Messages = messages

	if system := strings.Join(systemParts, "\n"); system != "" {
		out.System = types.SystemPrompt{String: &system}
	}

	// The provider cannot distinguish unset numeric fields from zero, so zero
	// values stay omitted on the caller side as well.
	if req.Temperature != 0 {
		v := float64(req.Temperature)
		out.Temperature = &v
	}
	if req.TopP != 0 {
		v := float64(req.TopP)
		out.TopP = &v
	}
	if len(req.Stop) > 0 {
		out.StopSequences = append([]string(nil), req.Stop...)
	}

	out.Tools = ToolsToMessages(req.Tools)
	out.ToolChoice = toolChoiceToMessages(req.ToolChoice)

	return out
}

func toUserMessage(m openai.ChatCompletionMessage) types.Message {
	if len(m.MultiContent) > 0 {
		blocks := fromChatMessageParts(m.MultiContent)
		if len(blocks) == 1 && blocks[0].Type == types.ContentBlockTypeText {
			return types.Message{Role: types.RoleUser, Content: types.TextContent(blocks[0].Text)}
		}
		return types.Message{Role: types.RoleUser, Content: types.MessageContent{Blocks: blocks}}
	}
	return types.Message{Role: types.RoleUser, Content: types.TextContent(m.Content)}
}

func toAssistantMessage(m openai.ChatCompletionMessage) types.Message {
	if len(m.ToolCalls) == 0 {
		return types.Message{Role: types.RoleAssistant, Content: types.TextContent(m.Content)}
	}

	var blocks []types.ContentBlock
	if m.Content != "" {
		blocks = append(blocks, types.ContentBlock{
			Type: types.ContentBlockTypeText,
			Text: m.Content,
		})
	}
	for _, tc := range m.ToolCalls {
		blocks = append(blocks, types.ContentBlock{
			Type:  types.ContentBlockTypeToolUse,
			ID:    tc.ID,
			Name:  tc.Function.Name,
			Input: toolInputFromArguments(tc.Function.Arguments),
		})
	}
	return types.Message{Role: types.RoleAssistant, Content: types.MessageContent{Blocks: blocks}}
}

func flattenProviderContent(m openai.ChatCompletionMessage) string {
	if len(m.MultiContent) == 0 {
		return m.Content
	}
	parts := make([]string, 0, len(m.MultiContent))
	for _, p := range m.MultiContent {
		if p.Type == openai.ChatMessagePartTypeText {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func isToolResultMessage(m types.Message) bool {
	if m.Role != types.RoleUser || len(m.Content.Blocks) == 0 {
		return false
	}
	for _, b := range m.Content.Blocks {
		if b.Type != types.ContentBlockTypeToolResult {
			return false
		}
	}
	return true
}
