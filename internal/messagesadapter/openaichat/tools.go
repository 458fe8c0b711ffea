package openaichat

import (
	openai "github.com/sashabaranov/go-openai"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// ToolsFromMessages transforms inbound tool definitions to OpenAI format.
// The conversion is pure re-nesting: input_schema becomes function.parameters
// with no loss in either direction.
func ToolsFromMessages(tools []types.Tool) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}

	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		fn := &openai.FunctionDefinition{
			Name:        t.Name,
			Description: t.Description,
		}
		if t.InputSchema != nil {
			fn.Parameters = t.InputSchema
		}
		out = append(out, openai.Tool{
			Type:     openai.ToolTypeFunction,
			Function: fn,
		})
	}
	return out
}

// ToolsToMessages is the inverse re-nesting, from OpenAI tool definitions to
// the caller's shape. Non-function tools are skipped; the Messages protocol
// has no equivalent.
func ToolsToMessages(tools []openai.Tool) []types.Tool {
	if len(tools) == 0 {
		return nil
	}

	out := make([]types.Tool, 0, len(tools))
	for _, t := range tools {
		if t.Type != openai.ToolTypeFunction || t.Function == nil {
			continue
		}
		tool := types.Tool{
			Name:        t.Function.Name,
			Description: t.Function.Description,
		}
		if schema, ok := t.Function.Parameters.(map[string]any); ok {
			tool.InputSchema = schema
		}
		out = append(out, tool)
	}
	return out
}

// toolChoiceFromMessages converts the inbound tool_choice to OpenAI's union:
// a mode string or a named-function selector. A nil choice stays nil so the
// provider applies its own default.
func toolChoiceFromMessages(tc *types.ToolChoice) any {
	if tc == nil {
		return nil
	}
	switch tc.Type {
	case types.ToolChoiceTypeAny:
		return "required"
	case types.ToolChoiceTypeNone:
		return "none"
	case types.ToolChoiceTypeTool:
		return openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: tc.Name},
		}
	default:
		return "auto"
	}
}

// toolChoiceToMessages converts OpenAI's tool_choice union back to the
// caller's shape. Unrecognized values map to nil (provider default).
func toolChoiceToMessages(tc any) *types.ToolChoice {
	switch v := tc.(type) {
	case string:
		switch v {
		case "required":
			return &types.ToolChoice{Type: types.ToolChoiceTypeAny}
		case "none":
			return &types.ToolChoice{Type: types.ToolChoiceTypeNone}
		case "auto":
			return &types.ToolChoice{Type: types.ToolChoiceTypeAuto}
		}
	case openai.ToolChoice:
		return &types.ToolChoice{Type: types.ToolChoiceTypeTool, Name: v.Function.Name}
	case map[string]any:
		if fn, ok := v["function"].(map[string]any); ok {
			if name, ok := fn["name"].(string); ok && name != "" {
				return &types.ToolChoice{Type: types.ToolChoiceTypeTool, Name: name}
			}
		}
	}
	return nil
}
