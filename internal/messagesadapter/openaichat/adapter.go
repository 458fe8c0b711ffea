package openaichat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/oauth2"

	"localhost/claude-relay/internal/messagesadapter"
	"localhost/claude-relay/internal/messagesadapter/types"
)

const (
	defaultStreamTimeout = 5 * time.Minute

	// maxErrorBodyBytes bounds how much of an upstream error body is read into
	// the caller envelope.
	maxErrorBodyBytes = 8 * 1024

	// scanBufSize and maxScanTokenSize size the SSE line scanner. Individual
	// deltas are small but tool call arguments can arrive in large pieces.
	scanBufSize      = 64 * 1024
	maxScanTokenSize = 1024 * 1024
)

// MessagesAdapter translates Anthropic Messages requests into OpenAI Chat
// Completions calls. Instances are stateless and safe for concurrent use; all
// per-stream state lives in the iterators ProcessStreamingRequest returns.
type MessagesAdapter struct {
	endpoint      string
	tokenSource   oauth2.TokenSource
	streamTimeout time.Duration
}

var _ messagesadapter.CreateMessageAdapter = (*MessagesAdapter)(nil)

// MessagesAdapterOption configures a MessagesAdapter.
type MessagesAdapterOption func(*MessagesAdapter)

// WithStreamTimeout bounds the total lifetime of one streaming response. A
// stalled upstream is cut off when the timeout elapses.
func WithStreamTimeout(d time.Duration) MessagesAdapterOption {
	return func(a *MessagesAdapter) {
		if d > 0 {
			a.streamTimeout = d
		}
	}
}

// NewMessagesAdapter builds an adapter for the given upstream base URL. The
// URL is normalized with ResolveEndpoint, so any of the accepted spellings
// work. tokenSource may be nil for upstreams that need no credentials.
func NewMessagesAdapter(baseURL string, tokenSource oauth2.TokenSource, opts ...MessagesAdapterOption) *MessagesAdapter {
	a := &MessagesAdapter{
		endpoint:      ResolveEndpoint(baseURL),
		tokenSource:   tokenSource,
		streamTimeout: defaultStreamTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProcessRequest handles the buffered path: convert, call upstream once,
// convert back. All failures come back as *types.ErrorResponse so the handler
// can write the envelope directly.
func (a *MessagesAdapter) ProcessRequest(ctx context.Context, clientReq types.MessagesRequest, transport http.RoundTripper) (*types.MessagesResponse, error) {
	upstreamReq := FromMessagesRequest(clientReq)
	upstreamReq.Stream = false
	upstreamReq.StreamOptions = nil

	resp, err := a.roundTrip(ctx, upstreamReq, transport)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, upstreamError(resp.StatusCode, body)
	}

	var completion openai.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		errResp := types.NewErrorResponse(types.ErrorTypeAPI, "upstream returned an unparsable response body")
		errResp.StatusCode = http.StatusBadGateway
		return nil, errResp
	}

	return ToMessagesResponse(completion, clientReq.Model), nil
}

// ProcessStreamingRequest handles the streaming path. The upstream call is
// made eagerly so connection and status failures surface as the returned
// error, before any event has been written to the caller. The iterator then
// yields reconstructed events until the upstream terminates.
func (a *MessagesAdapter) ProcessStreamingRequest(ctx context.Context, clientReq types.MessagesRequest, transport http.RoundTripper) (iter.Seq2[types.StreamEvent, error], error) {
	upstreamReq := FromMessagesRequest(clientReq)
	upstreamReq.Stream = true
	upstreamReq.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	ctx, cancel := context.WithTimeout(ctx, a.streamTimeout)

	resp, err := a.roundTrip(ctx, upstreamReq, transport)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()
		cancel()
		return nil, upstreamError(resp.StatusCode, body)
	}

	return func(yield func(types.StreamEvent, error) bool) {
		defer cancel()
		defer resp.Body.Close()

		transformer := NewStreamTransformer(clientReq.Model)

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, scanBufSize), maxScanTokenSize)
		for scanner.Scan() {
			line := scanner.Bytes()
			if !bytes.HasPrefix(line, []byte("data:")) {
				continue
			}
			payload := bytes.TrimSpace(line[len("data:"):])
			if len(payload) == 0 {
				continue
			}
			if bytes.Equal(payload, []byte("[DONE]")) {
				break
			}
			for _, event := range transformer.Feed(payload) {
				if !yield(event, nil) {
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, transportError(err))
		}
	}, nil
}

// roundTrip issues one upstream call through the supplied transport, falling
// back to http.DefaultTransport. Transport failures are wrapped in the caller
// envelope here so both paths share the mapping.
func (a *MessagesAdapter) roundTrip(ctx context.Context, payload openai.ChatCompletionRequest, transport http.RoundTripper) (*http.Response, error) {
	req, err := newUpstreamRequest(ctx, a.endpoint, a.tokenSource, payload)
	if err != nil {
		return nil, transportError(err)
	}

	if transport == nil {
		transport = http.DefaultTransport
	}
	resp, err := transport.RoundTrip(req)
	if err != nil {
		return nil, transportError(err)
	}
	return resp, nil
}
