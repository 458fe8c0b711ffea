package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Message roles accepted on the inbound wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessagesRequest is the inbound request body for POST /v1/messages.
// Only the fields the transformers read are modeled; unknown fields are ignored.
type MessagesRequest struct {
	Model         string       `json:"model"`
	Messages      []Message    `json:"messages"`
	System        SystemPrompt `json:"system,omitempty"`
	Tools         []Tool       `json:"tools,omitempty"`
	ToolChoice    *ToolChoice  `json:"tool_choice,omitempty"`
	MaxTokens     int          `json:"max_tokens,omitempty"`
	Temperature   *float64     `json:"temperature,omitempty"`
	TopP          *float64     `json:"top_p,omitempty"`
	StopSequences []string     `json:"stop_sequences,omitempty"`
	Stream        bool         `json:"stream,omitempty"`
}

// Message is one conversation turn.
type Message struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageContent is the string-or-block-list union used for message content.
// Exactly one of String and Blocks is set after unmarshaling.
type MessageContent struct {
	String *string
	Blocks []ContentBlock
}

// TextContent builds a bare-string message content.
func TextContent(s string) MessageContent {
	return MessageContent{String: &s}
}

// BlocksContent builds a structured message content.
func BlocksContent(blocks ...ContentBlock) MessageContent {
	return MessageContent{Blocks: blocks}
}

// AsBlocks returns the content as a block list, promoting a bare string to a
// single text block.
func (c MessageContent) AsBlocks() []ContentBlock {
	if c.String != nil {
		return []ContentBlock{{Type: ContentBlockTypeText, Text: *c.String}}
	}
	return c.Blocks
}

func (c *MessageContent) UnmarshalJSON(data []byte) error {
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

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.String != nil {
		return json.Marshal(*c.String)
	}
	return json.Marshal(c.Blocks)
}

// SystemPrompt is the string-or-text-block-list union used for the system field.
type SystemPrompt struct {
	String *string
	Blocks []ContentBlock
}

// Flatten collapses the system prompt to one string, joining text blocks by
// newline. Non-text blocks are skipped.
func (s SystemPrompt) Flatten() string {
	if s.String != nil {
		return *s.String
	}
	parts := make([]string, 0, len(s.Blocks))
	for _, b := range s.Blocks {
		if b.Type == ContentBlockTypeText {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// IsZero reports whether no system prompt was supplied.
func (s SystemPrompt) IsZero() bool {
	return s.String == nil && len(s.Blocks) == 0
}

func (s *SystemPrompt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		s.String = &str
		s.Blocks = nil
		return nil
	}
	s.String = nil
	return json.Unmarshal(trimmed, &s.Blocks)
}

func (s SystemPrompt) MarshalJSON() ([]byte, error) {
	if s.String != nil {
		return json.Marshal(*s.String)
	}
	return json.Marshal(s.Blocks)
}
