package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"localhost/claude-relay/internal/messagesadapter/openaichat"
	"localhost/claude-relay/internal/messagesadapter/types"
)

// mockUpstreamTransport returns pre-recorded responses without network calls.
type mockUpstreamTransport struct {
	responseBody   string
	responseStatus int
	isStreaming    bool

	lastBody []byte
}

func (m *mockUpstreamTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		m.lastBody, _ = io.ReadAll(req.Body)
	}

	contentType := "application/json"
	if m.isStreaming {
		contentType = "text/event-stream"
	}

	return &http.Response{
		StatusCode: m.responseStatus,
		Body:       io.NopCloser(strings.NewReader(m.responseBody)),
		Header:     http.Header{"Content-Type": []string{contentType}},
		Request:    req,
	}, nil
}

type mockReadinessChecker struct {
	ready bool
}

func (m mockReadinessChecker) IsReady() bool {
	return m.ready
}

func newTestProxy(t testing.TB, transport http.RoundTripper, opts ...Option) *Proxy {
	t.Helper()

	adapter := openaichat.NewMessagesAdapter(
		"https://api.openai.com/v1",
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-key"}),
	)

	opts = append([]Option{WithTransport(transport)}, opts...)
	p, err := New(adapter, mockReadinessChecker{ready: true}, opts...)
	require.NoError(t, err)
	return p
}

const upstreamCompletion = `{
	"id": "chatcmpl-1",
	"model": "gpt-4o",
	"choices": [{"message": {"role": "assistant", "content": "Hello!"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 9, "completion_tokens": 2}
}`

func TestCreateMessage(t *testing.T) {
	transport := &mockUpstreamTransport{
		responseStatus: http.StatusOK,
		responseBody:   upstreamCompletion,
	}
	server := httptest.NewServer(newTestProxy(t, transport))
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/messages", "application/json", strings.NewReader(`{
		"model": "gpt-4o",
		"max_tokens": 128,
		"messages": [{"role": "user", "content": "hi"}]
	}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got types.MessagesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "chatcmpl-1", got.ID)
	assert.Equal(t, "message", got.Type)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "Hello!", got.Content[0].Text)
	assert.Equal(t, "end_turn", got.StopReason)
}

func TestCreateMessageModelRemap(t *testing.T) {
	transport := &mockUpstreamTransport{
		responseStatus: http.StatusOK,
		responseBody:   upstreamCompletion,
	}
	server := httptest.NewServer(newTestProxy(t, transport, WithModelMap(map[string]string{
		"claude-sonnet-4-20250514": "gpt-4o",
	})))
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/messages", "application/json", strings.NewReader(`{
		"model": "claude-sonnet-4-20250514",
		"max_tokens": 128,
		"messages": [{"role": "user", "content": "hi"}]
	}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(transport.lastBody, &sent))
	assert.Equal(t, "gpt-4o", sent["model"])
}

func TestCreateMessageMalformedBody(t *testing.T) {
	server := httptest.NewServer(newTestProxy(t, &mockUpstreamTransport{responseStatus: http.StatusOK}))
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/messages", "application/json", strings.NewReader(`{not json`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var envelope types.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "error", envelope.Type)
	assert.Equal(t, types.ErrorTypeInvalidRequest, envelope.Err.Type)
}

func TestCreateMessageBodyTooLarge(t *testing.T) {
	server := httptest.NewServer(newTestProxy(t,
		&mockUpstreamTransport{responseStatus: http.StatusOK},
		WithMaxRequestBytes(16),
	))
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/messages", "application/json",
		strings.NewReader(`{"model": "gpt-4o", "messages": [{"role": "user", "content": "hi"}]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

	var envelope types.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, types.ErrorTypeInvalidRequest, envelope.Err.Type)
}

func TestCreateMessageUpstreamStatusPassthrough(t *testing.T) {
	transport := &mockUpstreamTransport{
		responseStatus: http.StatusUnauthorized,
		responseBody:   `{"error": {"message": "bad key"}}`,
	}
	server := httptest.NewServer(newTestProxy(t, transport))
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/messages", "application/json", strings.NewReader(`{
		"model": "gpt-4o",
		"max_tokens": 128,
		"messages": [{"role": "user", "content": "hi"}]
	}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var envelope types.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, types.ErrorTypeAuthentication, envelope.Err.Type)
}

func TestCreateMessageStreaming(t *testing.T) {
	sse := strings.Join([]string{
		`data: {"id":"chatcmpl-1","choices":[{"delta":{"role":"assistant","content":"Hel"}}]}`,
		``,
		`data: {"id":"chatcmpl-1","choices":[{"delta":{"content":"lo"}}]}`,
		``,
		`data: {"id":"chatcmpl-1","choices":[{"delta":{},"finish_reason":"stop"}],"usage":{"completion_tokens":2}}`,
		``,
		`data: [DONE]`,
		``,
	}, "\n")

	transport := &mockUpstreamTransport{
		responseStatus: http.StatusOK,
		responseBody:   sse,
		isStreaming:    true,
	}
	server := httptest.NewServer(newTestProxy(t, transport))
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/messages", "application/json", strings.NewReader(`{
		"model": "gpt-4o",
		"max_tokens": 128,
		"stream": true,
		"messages": [{"role": "user", "content": "hi"}]
	}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(body)

	for _, eventName := range []string{
		"event: message_start",
		"event: content_block_start",
		"event: content_block_delta",
		"event: content_block_stop",
		"event: message_delta",
		"event: message_stop",
	} {
		assert.Contains(t, out, eventName)
	}
	assert.Contains(t, out, `"text":"Hel"`)
	assert.Contains(t, out, `"output_tokens":2`)
	// The caller-facing stream never carries the provider's [DONE] marker.
	assert.NotContains(t, out, "[DONE]")
}

func TestUnknownPath(t *testing.T) {
	server := httptest.NewServer(newTestProxy(t, &mockUpstreamTransport{responseStatus: http.StatusOK}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/v1/complete")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope types.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, types.ErrorTypeNotFound, envelope.Err.Type)
}

func TestMethodNotAllowed(t *testing.T) {
	server := httptest.NewServer(newTestProxy(t, &mockUpstreamTransport{responseStatus: http.StatusOK}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/v1/messages")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRootHealth(t *testing.T) {
	adapter := openaichat.NewMessagesAdapter("https://api.openai.com/v1", nil)

	t.Run("ready", func(t *testing.T) {
		p, err := New(adapter, mockReadinessChecker{ready: true})
		require.NoError(t, err)
		server := httptest.NewServer(p)
		defer server.Close()

		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var status map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		assert.Equal(t, "ok", status["status"])
	})

	t.Run("not_ready", func(t *testing.T) {
		p, err := New(adapter, mockReadinessChecker{ready: false})
		require.NoError(t, err)
		server := httptest.NewServer(p)
		defer server.Close()

		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(newTestProxy(t,
		&mockUpstreamTransport{responseStatus: http.StatusOK},
		WithModelMap(map[string]string{
			"claude-sonnet-4-20250514": "gpt-4o",
			"claude-haiku-3-5":         "gpt-4o-mini",
		}),
	))
	defer server.Close()

	resp, err := http.Get(server.URL + "/v1/models")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list struct {
		Data []struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		} `json:"data"`
		HasMore bool `json:"has_more"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, "claude-haiku-3-5", list.Data[0].ID)
	assert.Equal(t, "model", list.Data[0].Type)
	assert.False(t, list.HasMore)
}

func BenchmarkCreateMessageStreaming(b *testing.B) {
	sse := strings.Join([]string{
		`data: {"id":"chatcmpl-1","choices":[{"delta":{"role":"assistant","content":"Hello"}}]}`,
		``,
		`data: {"id":"chatcmpl-1","choices":[{"delta":{},"finish_reason":"stop"}]}`,
		``,
		`data: [DONE]`,
		``,
	}, "\n")

	server := httptest.NewServer(newTestProxy(b, &mockUpstreamTransport{
		responseStatus: http.StatusOK,
		responseBody:   sse,
		isStreaming:    true,
	}))
	defer server.Close()

	payload := `{"model": "gpt-4o", "max_tokens": 128, "stream": true, "messages": [{"role": "user", "content": "hi"}]}`

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		resp, err := http.Post(server.URL+"/v1/messages", "application/json", strings.NewReader(payload))
		if err != nil {
			b.Fatalf("Request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			b.Fatalf("Unexpected status code: %d", resp.StatusCode)
		}
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			b.Fatalf("Stream read error: %v", err)
		}
		_ = resp.Body.Close()
	}
}
