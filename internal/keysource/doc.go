// Package keysource provides upstream API key resolution for the relay.
//
// Keys are modeled as oauth2.TokenSource so the rest of the code is agnostic
// to where a credential comes from. Two sources exist:
//   - Static wraps a key supplied via configuration or environment
//   - Keyring reads the key from the operating system keyring, where the
//     auth commands store it
//
// The keyring source resolves the key on every Token call, so a key stored or
// rotated while the relay is running takes effect without a restart.
package keysource
