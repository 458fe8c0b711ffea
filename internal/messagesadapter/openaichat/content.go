package openaichat

import (
	"encoding/json"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"localhost/claude-relay/internal/messagesadapter/types"
)

// toChatMessageParts converts caller content blocks to OpenAI content parts.
// Only text and image blocks have a part representation; everything else has
// been split off or dropped by the caller before this point.
func toChatMessageParts(blocks []types.ContentBlock) []openai.ChatMessagePart {
	parts := make([]openai.ChatMessagePart, 0, len(blocks))
	for _, b := range blocks {
		switch b.Type {
		case types.ContentBlockTypeText:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: b.Text,
			})
		case types.ContentBlockTypeImage:
			url, ok := imageSourceToURL(b.Source)
			if !ok {
				continue
			}
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: url},
			})
		}
	}
	return parts
}

// imageSourceToURL assembles the provider-side image reference: inline base64
// sources become data: URIs, URL sources pass through.
func imageSourceToURL(src *types.ImageSource) (string, bool) {
	if src == nil {
		return "", false
	}
	switch src.Type {
	case types.ImageSourceTypeBase64:
		mediaType := src.MediaType
		if mediaType == "" {
			mediaType = "image/jpeg"
		}
		return "data:" + mediaType + ";base64," + src.Data, true
	case types.ImageSourceTypeURL:
		return src.URL, src.URL != ""
	default:
		return "", false
	}
}

// fromChatMessageParts converts OpenAI content parts to caller content blocks.
// Image parts that fail to parse are skipped silently rather than failing the
// whole request.
func fromChatMessageParts(parts []openai.ChatMessagePart) []types.ContentBlock {
	blocks := make([]types.ContentBlock, 0, len(parts))
	for _, p := range parts {
		switch p.Type {
		case openai.ChatMessagePartTypeText:
			blocks = append(blocks, types.ContentBlock{
				Type: types.ContentBlockTypeText,
				Text: p.Text,
			})
		case openai.ChatMessagePartTypeImageURL:
			if p.ImageURL == nil {
				continue
			}
			src, ok := parseImageURL(p.ImageURL.URL)
			if !ok {
				continue
			}
			blocks = append(blocks, types.ContentBlock{
				Type:   types.ContentBlockTypeImage,
				Source: src,
			})
		}
	}
	return blocks
}

// parseImageURL splits a data: URI into media type and base64 payload, or
// wraps a plain http(s) URL. Malformed data: URIs report !ok so the caller can
// skip the block.
func parseImageURL(url string) (*types.ImageSource, bool) {
	if strings.HasPrefix(url, "data:") {
		header, data, found := strings.Cut(url, ",")
		if !found || data == "" {
			return nil, false
		}
		mediaType, _, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
		if mediaType == "" {
			mediaType = "image/jpeg"
		}
		return &types.ImageSource{
			Type:      types.ImageSourceTypeBase64,
			MediaType: mediaType,
			Data:      data,
		}, true
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return &types.ImageSource{Type: types.ImageSourceTypeURL, URL: url}, true
	}
	return nil, false
}

// toolInputFromArguments converts a provider argument string to the caller's
// structured input. Empty arguments become an empty object; arguments that are
// not valid JSON surface the raw string under the raw_arguments sentinel key
// instead of raising.
func toolInputFromArguments(arguments string) json.RawMessage {
	trimmed := strings.TrimSpace(arguments)
	if trimmed == "" {
		return json.RawMessage("{}")
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	raw, err := json.Marshal(map[string]string{"raw_arguments": arguments})
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}

// argumentsFromToolInput is the reverse serialization: structured input to a
// provider argument string. Absent input becomes the empty object.
func argumentsFromToolInput(input json.RawMessage) string {
	if len(input) == 0 {
		return "{}"
	}
	return string(input)
}
