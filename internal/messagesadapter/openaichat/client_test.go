package openaichat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{
			name:    "bare_host",
			baseURL: "https://api.openai.com",
			want:    "https://api.openai.com/v1/chat/completions",
		},
		{
			name:    "versioned_path",
			baseURL: "https://api.openai.com/v1",
			want:    "https://api.openai.com/v1/chat/completions",
		},
		{
			name:    "trailing_slash",
			baseURL: "https://api.openai.com/v1/",
			want:    "https://api.openai.com/v1/chat/completions",
		},
		{
			name:    "full_endpoint_unchanged",
			baseURL: "https://api.openai.com/v1/chat/completions",
			want:    "https://api.openai.com/v1/chat/completions",
		},
		{
			name:    "prefixed_versioned_path",
			baseURL: "https://gateway.example.com/openai/v1",
			want:    "https://gateway.example.com/openai/v1/chat/completions",
		},
		{
			name:    "beta_version_segment",
			baseURL: "https://api.example.com/v2beta",
			want:    "https://api.example.com/v2beta/chat/completions",
		},
		{
			name:    "local_server_without_version",
			baseURL: "http://localhost:8080",
			want:    "http://localhost:8080/v1/chat/completions",
		},
		{
			name:    "surrounding_whitespace",
			baseURL: "  https://api.openai.com/v1  ",
			want:    "https://api.openai.com/v1/chat/completions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveEndpoint(tt.baseURL))
		})
	}
}
