package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"localhost/claude-relay/internal/messagesadapter"
	"localhost/claude-relay/internal/messagesadapter/types"
	"localhost/claude-relay/internal/observability/middleware"
)

const defaultMaxRequestBytes = 10 << 20

// Proxy is the local HTTP server exposing the Anthropic Messages API surface.
// It routes requests, applies the middleware stack, and delegates translation
// to the adapter.
type Proxy struct {
	handler http.Handler

	server       *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	shutdownErr  error
}

// Compile-time check to ensure Proxy implements http.Handler
var _ http.Handler = (*Proxy)(nil)

// Option configures a Proxy.
type Option func(*options)

type options struct {
	transport       http.RoundTripper
	modelMap        map[string]string
	maxRequestBytes int64
}

// WithTransport overrides the upstream transport. Used by tests to substitute
// a mock upstream without network calls.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *options) {
		o.transport = transport
	}
}

// WithModelMap installs model name remapping applied before requests reach
// the upstream.
func WithModelMap(modelMap map[string]string) Option {
	return func(o *options) {
		o.modelMap = modelMap
	}
}

// WithMaxRequestBytes overrides the request body size limit.
func WithMaxRequestBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRequestBytes = n
		}
	}
}

// New assembles the routing table and middleware stack around the given
// adapter. The readiness checker gates the health endpoints.
func New(adapter messagesadapter.CreateMessageAdapter, health ReadinessChecker, opts ...Option) (*Proxy, error) {
	if adapter == nil {
		return nil, fmt.Errorf("adapter must not be nil")
	}
	if health == nil {
		return nil, fmt.Errorf("readiness checker must not be nil")
	}

	o := &options{
		transport:       http.DefaultTransport,
		maxRequestBytes: defaultMaxRequestBytes,
	}
	for _, opt := range opts {
		opt(o)
	}

	messagesHandler := &CreateMessageHandler{
		Adapter:   adapter,
		Transport: o.transport,
		ModelMap:  o.modelMap,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestIDGeneration)
	r.Use(middleware.TraceContextExtraction)
	r.Use(middleware.Logging(slog.Default()))
	r.Use(middleware.RequestIDPropagation)
	r.Use(Recovery)
	r.Use(RequestSizeLimit(o.maxRequestBytes))

	r.Get("/", rootHandler(health))
	r.Get("/livez", livenessHandler())
	r.Get("/readyz", readinessHandler(health))
	r.Get("/v1/models", modelsHandler(o.modelMap))
	r.Post("/v1/messages", messagesHandler.ServeHTTP)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSONMessagesError(req.Context(), w, types.NewErrorResponse(
			types.ErrorTypeNotFound,
			fmt.Sprintf("unknown path: %s", req.URL.Path),
		))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSONMessagesError(req.Context(), w, types.NewErrorResponse(
			types.ErrorTypeInvalidRequest,
			fmt.Sprintf("method %s not allowed for %s", req.Method, req.URL.Path),
		))
	})

	return &Proxy{handler: r}, nil
}

// ServeHTTP implements http.Handler, allowing the Proxy to be mounted in
// tests without a real listener.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

// Start binds the listener and begins serving in the background. The bind
// happens synchronously so address conflicts surface as the returned error;
// later serve failures are delivered on the returned channel.
func (p *Proxy) Start(ctx context.Context, addr string) (<-chan error, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	p.listener = listener

	p.server = &http.Server{
		Handler: p.handler,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.InfoContext(ctx, "listening", "addr", listener.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := p.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return errCh, nil
}

// Addr returns the bound listen address, valid after Start.
func (p *Proxy) Addr() string {
	if p.listener == nil {
		return ""
	}
	return p.listener.Addr().String()
}

// Port returns the bound port, valid after Start. Useful with an ephemeral
// listen address.
func (p *Proxy) Port() int {
	if p.listener == nil {
		return 0
	}
	if addr, ok := p.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// BaseURL returns the http URL of the bound listener, valid after Start.
func (p *Proxy) BaseURL() string {
	addr := p.Addr()
	if addr == "" {
		return ""
	}
	return "http://" + addr
}

// Shutdown gracefully stops the server, waiting for in-flight requests up to
// the context deadline. Safe to call more than once.
func (p *Proxy) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		if p.server != nil {
			p.shutdownErr = p.server.Shutdown(ctx)
		}
	})
	return p.shutdownErr
}
