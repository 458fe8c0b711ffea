package openaichat

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// StreamTransformer rebuilds a caller event stream from provider stream
// chunks. It is stateful and single-use: create one per response, feed chunks
// in arrival order. Not safe for concurrent use.
type StreamTransformer struct {
	messageID string
	model     string

	messageStarted bool
	textBlockOpen  bool
	done           bool

	// contentBlockIndex is the index the next opened block will take.
	contentBlockIndex int
	textBlockIndex    int

	toolBlocks map[int]*toolBlock
	toolOrder  []int

	outputTokens int
}

// toolBlock tracks one in-flight tool call, keyed by the provider's tool call
// slot in the chunk delta.
type toolBlock struct {
	index int
	open  bool
}

func NewStreamTransformer(model string) *StreamTransformer {
	return &StreamTransformer{
		messageID:  newMessageID(),
		model:      model,
		toolBlocks: make(map[int]*toolBlock),
	}
}

// Feed parses one SSE data payload and returns the caller events it produces.
// Unparsable payloads are dropped so a single malformed chunk cannot kill the
// stream.
func (t *StreamTransformer) Feed(payload []byte) []types.StreamEvent {
	var chunk openai.ChatCompletionStreamResponse
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil
	}
	return t.Transform(chunk)
}

// Transform maps one provider chunk to zero or more caller events. Chunks
// arriving after the terminal event are ignored.
func (t *StreamTransformer) Transform(chunk openai.ChatCompletionStreamResponse) []types.StreamEvent {
	if t.done {
		return nil
	}

	var events []types.StreamEvent
	if !t.messageStarted {
		if chunk.ID != "" {
			t.messageID = chunk.ID
		}
		events = append(events, types.NewMessageStartEvent(t.messageID, t.model))
		t.messageStarted = true
	}

	if chunk.Usage != nil {
		t.outputTokens = chunk.Usage.CompletionTokens
	}

	if len(chunk.Choices) == 0 {
		return events
	}
	choice := chunk.Choices[0]

	if choice.Delta.Content != "" {
		if !t.textBlockOpen {
			events = append(events, t.closePrecedingBlocks()...)
			t.textBlockIndex = t.contentBlockIndex
			events = append(events, types.NewTextBlockStartEvent(t.textBlockIndex))
			t.textBlockOpen = true
		}
		events = append(events, types.NewTextDeltaEvent(t.textBlockIndex, choice.Delta.Content))
	}

	for _, tc := range choice.Delta.ToolCalls {
		slot := 0
		if tc.Index != nil {
			slot = *tc.Index
		}
		blk, seen := t.toolBlocks[slot]
		if !seen {
			events = append(events, t.closePrecedingBlocks()...)
			id := tc.ID
			if id == "" {
				id = newToolCallID()
			}
			blk = &toolBlock{index: t.contentBlockIndex, open: true}
			t.toolBlocks[slot] = blk
			t.toolOrder = append(t.toolOrder, slot)
			events = append(events, types.NewToolUseBlockStartEvent(blk.index, id, tc.Function.Name))
		}
		// Fragments for a slot whose block was already closed are dropped.
		if tc.Function.Arguments != "" && blk.open {
			events = append(events, types.NewInputJSONDeltaEvent(blk.index, tc.Function.Arguments))
		}
	}

	if choice.FinishReason != "" {
		events = append(events, t.finish(string(choice.FinishReason))...)
	}

	return events
}

// finish closes every open block and emits the terminal event pair. The
// transformer accepts no further chunks afterwards.
func (t *StreamTransformer) finish(finishReason string) []types.StreamEvent {
	events := t.closePrecedingBlocks()
	events = append(events,
		types.NewMessageDeltaEvent(StopReasonFromFinish(finishReason), t.outputTokens),
		types.NewMessageStopEvent(),
	)
	t.done = true
	return events
}

// closePrecedingBlocks stops every block that is still open, text first, then
// tool blocks in the order they were opened. The caller protocol allows only
// one open block at a time, so any block start must be preceded by this.
func (t *StreamTransformer) closePrecedingBlocks() []types.StreamEvent {
	var events []types.StreamEvent
	if t.textBlockOpen {
		events = append(events, types.NewContentBlockStopEvent(t.textBlockIndex))
		t.contentBlockIndex++
		t.textBlockOpen = false
	}
	for _, slot := range t.toolOrder {
		blk := t.toolBlocks[slot]
		if !blk.open {
			continue
		}
		events = append(events, types.NewContentBlockStopEvent(blk.index))
		t.contentBlockIndex++
		blk.open = false
	}
	return events
}
