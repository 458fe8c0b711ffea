package types

import "encoding/json"

// Stream event names on the caller-facing SSE wire.
const (
	EventTypeMessageStart      = "message_start"
	EventTypeContentBlockStart = "content_block_start"
	EventTypeContentBlockDelta = "content_block_delta"
	EventTypeContentBlockStop  = "content_block_stop"
	EventTypeMessageDelta      = "message_delta"
	EventTypeMessageStop       = "message_stop"
)

// StreamEvent is one caller-facing streaming event. StreamEventType is the SSE
// event name; the value itself is the data payload.
type StreamEvent interface {
	StreamEventType() string
}

// MessageStartEvent opens a streamed message. Emitted exactly once per stream,
// before any other event.
type MessageStartEvent struct {
	Type    string       `json:"type"`
	Message MessageStart `json:"message"`
}

// MessageStart is the skeleton message carried by message_start: empty content,
// zero usage, stop fields null.
type MessageStart struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   *string        `json:"stop_reason"`
	StopSequence *string        `json:"stop_sequence"`
	Usage        Usage          `json:"usage"`
}

func (e *MessageStartEvent) StreamEventType() string { return EventTypeMessageStart }

// NewMessageStartEvent builds the canonical message_start payload.
func NewMessageStartEvent(id, model string) *MessageStartEvent {
	return &MessageStartEvent{
		Type: EventTypeMessageStart,
		Message: MessageStart{
			ID:      id,
			Type:    "message",
			Role:    RoleAssistant,
			Content: []ContentBlock{},
			Model:   model,
		},
	}
}

// ContentBlockStartEvent opens one content block at a caller-visible index.
type ContentBlockStartEvent struct {
	Type         string             `json:"type"`
	Index        int                `json:"index"`
	ContentBlock StreamContentBlock `json:"content_block"`
}

// StreamContentBlock is the block header carried by content_block_start.
// Text is a pointer so text blocks serialize an explicit empty "text" field
// while tool_use blocks omit it.
type StreamContentBlock struct {
	Type  string          `json:"type"`
	Text  *string         `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

func (e *ContentBlockStartEvent) StreamEventType() string { return EventTypeContentBlockStart }

// NewTextBlockStartEvent opens an empty text block at index.
func NewTextBlockStartEvent(index int) *ContentBlockStartEvent {
	empty := ""
	return &ContentBlockStartEvent{
		Type:         EventTypeContentBlockStart,
		Index:        index,
		ContentBlock: StreamContentBlock{Type: ContentBlockTypeText, Text: &empty},
	}
}

// NewToolUseBlockStartEvent opens a tool_use block at index with an empty input
// object; the input arrives via input_json_delta fragments.
func NewToolUseBlockStartEvent(index int, id, name string) *ContentBlockStartEvent {
	return &ContentBlockStartEvent{
		Type:  EventTypeContentBlockStart,
		Index: index,
		ContentBlock: StreamContentBlock{
			Type:  ContentBlockTypeToolUse,
			ID:    id,
			Name:  name,
			Input: json.RawMessage("{}"),
		},
	}
}

// Delta kinds carried by content_block_delta.
const (
	DeltaTypeText      = "text_delta"
	DeltaTypeInputJSON = "input_json_delta"
)

// ContentBlockDeltaEvent appends an increment to an open content block.
type ContentBlockDeltaEvent struct {
	Type  string     `json:"type"`
	Index int        `json:"index"`
	Delta BlockDelta `json:"delta"`
}

// BlockDelta is either a text fragment or a raw partial-JSON fragment of tool
// arguments, never both.
type BlockDelta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
}

func (e *ContentBlockDeltaEvent) StreamEventType() string { return EventTypeContentBlockDelta }

// NewTextDeltaEvent appends text to the block at index.
func NewTextDeltaEvent(index int, text string) *ContentBlockDeltaEvent {
	return &ContentBlockDeltaEvent{
		Type:  EventTypeContentBlockDelta,
		Index: index,
		Delta: BlockDelta{Type: DeltaTypeText, Text: text},
	}
}

// NewInputJSONDeltaEvent appends a raw tool-argument fragment to the block at
// index. The fragment is passed through verbatim, never re-concatenated.
func NewInputJSONDeltaEvent(index int, fragment string) *ContentBlockDeltaEvent {
	return &ContentBlockDeltaEvent{
		Type:  EventTypeContentBlockDelta,
		Index: index,
		Delta: BlockDelta{Type: DeltaTypeInputJSON, PartialJSON: fragment},
	}
}

// ContentBlockStopEvent closes the content block at index.
type ContentBlockStopEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

func (e *ContentBlockStopEvent) StreamEventType() string { return EventTypeContentBlockStop }

// NewContentBlockStopEvent closes the block at index.
func NewContentBlockStopEvent(index int) *ContentBlockStopEvent {
	return &ContentBlockStopEvent{Type: EventTypeContentBlockStop, Index: index}
}

// MessageDeltaEvent carries the terminal stop reason and accumulated usage.
type MessageDeltaEvent struct {
	Type  string            `json:"type"`
	Delta MessageDeltaBody  `json:"delta"`
	Usage MessageDeltaUsage `json:"usage"`
}

// MessageDeltaBody is the terminal delta: stop reason plus a null stop
// sequence.
type MessageDeltaBody struct {
	StopReason   string  `json:"stop_reason"`
	StopSequence *string `json:"stop_sequence"`
}

// MessageDeltaUsage carries the last-known output token total.
type MessageDeltaUsage struct {
	OutputTokens int `json:"output_tokens"`
}

func (e *MessageDeltaEvent) StreamEventType() string { return EventTypeMessageDelta }

// NewMessageDeltaEvent builds the terminal message_delta payload.
func NewMessageDeltaEvent(stopReason string, outputTokens int) *MessageDeltaEvent {
	return &MessageDeltaEvent{
		Type:  EventTypeMessageDelta,
		Delta: MessageDeltaBody{StopReason: stopReason},
		Usage: MessageDeltaUsage{OutputTokens: outputTokens},
	}
}

// MessageStopEvent ends the stream. No event is valid after it.
type MessageStopEvent struct {
	Type string `json:"type"`
}

func (e *MessageStopEvent) StreamEventType() string { return EventTypeMessageStop }

// NewMessageStopEvent builds the terminal message_stop payload.
func NewMessageStopEvent() *MessageStopEvent {
	return &MessageStopEvent{Type: EventTypeMessageStop}
}
