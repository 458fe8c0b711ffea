package openaichat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/oauth2"
)

// versionPathRE matches a version segment at the end of a base URL path, e.g.
// /v1 or /v2beta is left alone while bare hosts get /v1 appended.
var versionPathRE = regexp.MustCompile(`/v\d+[^/]*$`)

// ResolveEndpoint normalizes a configured base URL into the full chat
// completions endpoint. Trailing slashes, an already-present endpoint path and
// an explicit version segment are all accepted:
//
//	https://api.example.com            -> https://api.example.com/v1/chat/completions
//	https://api.example.com/v1/        -> https://api.example.com/v1/chat/completions
//	https://api.example.com/v1/chat/completions -> unchanged
//	https://proxy.example.com/openai/v1 -> https://proxy.example.com/openai/v1/chat/completions
func ResolveEndpoint(baseURL string) string {
	u := strings.TrimSpace(baseURL)
	u = strings.TrimRight(u, "/")
	u = strings.TrimSuffix(u, "/chat/completions")
	u = strings.TrimRight(u, "/")
	if !versionPathRE.MatchString(u) {
		u += "/v1"
	}
	return u + "/chat/completions"
}

// newUpstreamRequest marshals the provider request and attaches auth and
// content negotiation headers. The token source is consulted per request so
// rotated credentials take effect without a restart.
func newUpstreamRequest(ctx context.Context, endpoint string, ts oauth2.TokenSource, payload openai.ChatCompletionRequest) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling upstream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if payload.Stream {
		req.Header.Set("Accept", "text/event-stream")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	if ts != nil {
		token, err := ts.Token()
		if err != nil {
			return nil, fmt.Errorf("resolving upstream credentials: %w", err)
		}
		token.SetAuthHeader(req)
	}

	return req, nil
}
