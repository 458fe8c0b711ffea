package keysource

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

const (
	keyringService = "claude-relay"
	keyringAccount = "upstream-api-key"
)

// ErrNoKey indicates that no upstream API key is stored in the keyring.
var ErrNoKey = errors.New("no upstream API key stored, run 'relay auth login'")

// Static returns a token source for a key supplied directly, e.g. from
// configuration or an environment variable.
func Static(key string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: key})
}

// Keyring returns a token source backed by the operating system keyring.
func Keyring() oauth2.TokenSource {
	return keyringSource{}
}

// Resolve picks the token source for the given configured key: a non-empty
// key is used as-is, otherwise the keyring is consulted per request.
func Resolve(configuredKey string) oauth2.TokenSource {
	if configuredKey != "" {
		return Static(configuredKey)
	}
	return keyringSource{}
}

type keyringSource struct{}

// Token implements oauth2.TokenSource by reading the stored key. The key is
// read on every call, deliberately uncached.
func (keyringSource) Token() (*oauth2.Token, error) {
	key, err := keyring.Get(keyringService, keyringAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoKey
		}
		return nil, fmt.Errorf("reading API key from keyring: %w", err)
	}
	return &oauth2.Token{AccessToken: key}, nil
}

// Store writes the upstream API key to the keyring.
func Store(key string) error {
	if key == "" {
		return errors.New("API key cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringAccount, key); err != nil {
		return fmt.Errorf("storing API key in keyring: %w", err)
	}
	return nil
}

// Clear removes the stored upstream API key. Clearing an already-empty
// keyring is not an error.
func Clear() error {
	err := keyring.Delete(keyringService, keyringAccount)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("removing API key from keyring: %w", err)
	}
	return nil
}
