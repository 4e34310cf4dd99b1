package uliza

import (
	"context"
	"log/slog"
	"time"

	"github.com/savannahworks/uliza/internal/engine"
	"github.com/savannahworks/uliza/pkg/adapters/memory"
	"github.com/savannahworks/uliza/pkg/domain"
	"github.com/savannahworks/uliza/pkg/ports"
)

// Version is the library version, printed by the CLI.
const Version = "0.3.0"

// Aliases for the resolver's request surface, so embedding hosts never
// import internal packages directly.
type (
	Request  = engine.Request
	Response = engine.Response
	Registry = engine.Registry
)

// Engine is the high-level entry point for the Uliza library. It wraps
// the internal resolver and provides a simplified API for hosts that
// embed the menu engine instead of running the bundled server.
type Engine struct {
	core     *engine.Engine
	store    ports.SessionStore
	coreOpts []engine.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a session store, bypassing the default in-memory
// one. Production hosts pass the redis adapter here.
func WithStore(store ports.SessionStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.coreOpts = append(e.coreOpts, engine.WithLogger(logger)) }
}

// WithNotifier sets the outbound notification channel fired by
// terminal screens.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) { e.coreOpts = append(e.coreOpts, engine.WithNotifier(n)) }
}

// WithSessionTTL sets the sliding idle timeout for dialogs.
func WithSessionTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.coreOpts = append(e.coreOpts, engine.WithSessionTTL(ttl)) }
}

// WithMaxDepth caps how deep a dialog may navigate.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) { e.coreOpts = append(e.coreOpts, engine.WithMaxDepth(depth)) }
}

// WithMaxScreenLen sets the gateway's single-screen payload cap.
func WithMaxScreenLen(n int) Option {
	return func(e *Engine) { e.coreOpts = append(e.coreOpts, engine.WithMaxScreenLen(n)) }
}

// NewRegistry creates an empty menu registry around a fallback tree.
func NewRegistry(fallback *domain.Tree) *Registry {
	return engine.NewRegistry(fallback)
}

// New initializes a Uliza Engine over the given registry. By default
// sessions live in process memory; use WithStore for anything that has
// to survive a restart or span instances.
func New(registry *Registry, opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}

	core, err := engine.New(registry, e.store, e.coreOpts...)
	if err != nil {
		return nil, err
	}
	e.core = core
	return e, nil
}

// Handle processes one gateway callback and always returns a
// renderable screen.
func (e *Engine) Handle(ctx context.Context, req Request) Response {
	return e.core.Handle(ctx, req)
}

// Store exposes the session store so hosts can run their own expiry
// sweeps.
func (e *Engine) Store() ports.SessionStore {
	return e.store
}
