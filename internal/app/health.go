package app

import (
	"sync/atomic"

	"localhost/claude-relay/internal/proxy"
)

// Health tracks whether the relay is ready to accept traffic. The proxy's
// readiness endpoint reads it; the app lifecycle writes it. Safe for
// concurrent use.
type Health struct {
	ready atomic.Bool
}

var _ proxy.ReadinessChecker = (*Health)(nil)

// NewHealth returns a Health that starts out not ready. Readiness flips on
// once the listener is up and off again during shutdown.
func NewHealth() *Health {
	return &Health{}
}

// SetReady records the relay's readiness state.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the relay is currently serving.
func (h *Health) IsReady() bool {
	return h.ready.Load()
}
