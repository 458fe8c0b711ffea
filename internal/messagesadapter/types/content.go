package types

import (
	"bytes"
	"encoding/json"
)

// Content block discriminator values.
const (
	ContentBlockTypeText       = "text"
	ContentBlockTypeImage      = "image"
	ContentBlockTypeToolUse    = "tool_use"
	ContentBlockTypeToolResult = "tool_result"
	ContentBlockTypeThinking   = "thinking"
)

// Image source discriminator values.
const (
	ImageSourceTypeBase64 = "base64"
	ImageSourceTypeURL    = "url"
)

// ContentBlock is the tagged union over text, image, tool_use, tool_result and
// thinking blocks. Type selects the variant; only that variant's fields are
// meaningful, and MarshalJSON emits only those fields.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// image
	Source *ImageSource `json:"source,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string            `json:"tool_use_id,omitempty"`
	Content   ToolResultContent `json:"content,omitempty"`
	IsError   bool              `json:"is_error,omitempty"`

	// thinking
	Thinking string `json:"thinking,omitempty"`
}

// ImageSource carries inline base64 image data or an image URL.
type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

// MarshalJSON emits the variant-specific shape. A text block always carries its
// "text" field (even when empty); a tool_use block always carries an "input"
// object so callers never observe a missing input.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case ContentBlockTypeText:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{b.Type, b.Text})
	case ContentBlockTypeImage:
		return json.Marshal(struct {
			Type   string       `json:"type"`
			Source *ImageSource `json:"source"`
		}{b.Type, b.Source})
	case ContentBlockTypeToolUse:
		input := b.Input
		if len(input) == 0 {
			input = json.RawMessage("{}")
		}
		return json.Marshal(struct {
			Type  string          `json:"type"`
			ID    string          `json:"id"`
			Name  string          `json:"name"`
			Input json.RawMessage `json:"input"`
		}{b.Type, b.ID, b.Name, input})
	case ContentBlockTypeToolResult:
		return json.Marshal(struct {
			Type      string            `json:"type"`
			ToolUseID string            `json:"tool_use_id"`
			Content   ToolResultContent `json:"content"`
			IsError   bool              `json:"is_error,omitempty"`
		}{b.Type, b.ToolUseID, b.Content, b.IsError})
	case ContentBlockTypeThinking:
		return json.Marshal(struct {
			Type     string `json:"type"`
			Thinking string `json:"thinking"`
		}{b.Type, b.Thinking})
	default:
		// Unknown block kinds round-trip their discriminator only.
		return json.Marshal(struct {
			Type string `json:"type"`
		}{b.Type})
	}
}

func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	// Alias type drops the custom methods to avoid recursion.
	type contentBlock ContentBlock
	return json.Unmarshal(data, (*contentBlock)(b))
}

// ToolResultContent is the string-or-block-list union used for tool_result
// content.
type ToolResultContent struct {
	String *string
	Blocks []ContentBlock
}

// TextToolResult builds a bare-string tool result content.
func TextToolResult(s string) ToolResultContent {
	return ToolResultContent{String: &s}
}

// Flatten collapses the tool result to one string for protocols that accept
// only plain text: a bare string passes through, text blocks join by newline,
// and block lists without any text fall back to their JSON encoding.
func (c ToolResultContent) Flatten() string {
	if c.String != nil {
		return *c.String
	}
	var buf bytes.Buffer
	for _, b := range c.Blocks {
		if b.Type != ContentBlockTypeText {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(b.Text)
	}
	if buf.Len() == 0 && len(c.Blocks) > 0 {
		raw, err := json.Marshal(c.Blocks)
		if err == nil {
			return string(raw)
		}
	}
	return buf.String()
}

func (c *ToolResultContent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		c.String = &s
		c.Blocks = nil
		return nil
	}
	c.String = nil
	return json.Unmarshal(trimmed, &c.Blocks)
}

func (c ToolResultContent) MarshalJSON() ([]byte, error) {
	if c.String != nil {
		return json.Marshal(*c.String)
	}
	if c.Blocks == nil {
		return []byte(`""`), nil
	}
	return json.Marshal(c.Blocks)
}
