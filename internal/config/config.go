// Package config loads relay configuration from defaults, an optional TOML
// file, and RELAY_-prefixed environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the complete relay configuration.
type Config struct {
	// Listen is the local address the relay binds to.
	Listen string `koanf:"listen" validate:"required,hostname_port"`

	Log      Log      `koanf:"log"`
	Upstream Upstream `koanf:"upstream"`

	// ModelMap remaps requested model names to upstream model names.
	// Requests for names not in the map pass through unchanged.
	ModelMap map[string]string `koanf:"model_map"`

	// MaxRequestBytes bounds the accepted request body size.
	MaxRequestBytes int64 `koanf:"max_request_bytes" validate:"gt=0"`
}

// Log configures the structured logger.
type Log struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// Upstream configures the provider endpoint requests are translated to.
type Upstream struct {
	// BaseURL may be a bare host, a versioned path, or the full chat
	// completions endpoint; it is normalized before use.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// APIKey overrides keyring-based credential lookup when set.
	APIKey string `koanf:"api_key"`

	// StreamTimeout bounds the total lifetime of one streaming response.
	StreamTimeout time.Duration `koanf:"stream_timeout" validate:"gt=0"`
}

func defaults() map[string]any {
	return map[string]any{
		"listen":                  "127.0.0.1:4100",
		"log.level":               "info",
		"log.format":              "text",
		"upstream.base_url":       "https://api.openai.com/v1",
		"upstream.stream_timeout": 5 * time.Minute,
		"max_request_bytes":       int64(10 << 20),
	}
}

// Load reads configuration from defaults, the TOML file at path (optional,
// skipped when empty or absent), and the environment. RELAY_UPSTREAM_BASE_URL
// overrides upstream.base_url and so on; an underscore in the variable name
// maps to the key delimiter first, the rest stays as the key.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file %s does not exist", path)
			}
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        "RELAY_",
		TransformFunc: envTransform,
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// envTransform maps RELAY_UPSTREAM_BASE_URL to upstream.base_url. Only the
// first underscore separates the section; the remainder is the key, so
// multi-word keys survive.
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, "RELAY_"))
	for _, section := range []string{"log_", "upstream_"} {
		if rest, ok := strings.CutPrefix(key, section); ok {
			return strings.TrimSuffix(section, "_") + "." + rest, value
		}
	}
	return key, value
}
