// Package engine implements the menu state machine: tokenizing
// accumulated gateway input, resolving service codes to trees,
// advancing sessions and rendering bounded screens.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/savannahworks/uliza/internal/logging"
	"github.com/savannahworks/uliza/internal/observability"
	"github.com/savannahworks/uliza/pkg/domain"
	"github.com/savannahworks/uliza/pkg/ports"
)

// User-facing texts for conditions the state machine resolves itself.
const (
	MsgInvalidChoice  = "Invalid choice."
	MsgDegraded       = "Live data is unavailable right now."
	MsgUnavailable    = "Service unavailable, please try again later."
	MsgSessionTooLong = "Session limit reached. Please dial again."
)

// Defaults applied by New when no option overrides them.
const (
	DefaultSessionTTL   = 120 * time.Second
	DefaultStoreTimeout = 2 * time.Second
	DefaultMaxDepth     = 20
)

// Request is the inbound gateway callback, gateway-native: the text
// field carries the delimiter-joined accumulated keypresses and is
// resent in full on every keypress.
type Request struct {
	SessionID   string
	CallerID    string
	ServiceCode string
	Text        string
}

// Response is the bounded outbound payload. EndSession is true exactly
// when a terminal node was reached or a fatal error occurred.
type Response struct {
	Text       string
	EndSession bool
}

// Engine is the state machine core: it reconstructs "where is this
// caller in the conversation" from the persisted session plus the
// replayed input string, advances the selected menu tree, and always
// produces a renderable screen.
//
// Engines hold no per-dialog state; every mutation is a single
// conditional read-modify-write against the session store, so
// consecutive requests may land on different process instances.
type Engine struct {
	registry *Registry
	store    ports.SessionStore
	renderer *Renderer
	notifier ports.Notifier
	logger   *slog.Logger

	sessionTTL   time.Duration
	storeTimeout time.Duration
	maxDepth     int
	now          func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithNotifier sets the outbound notification side-channel.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithSessionTTL sets the sliding idle timeout.
func WithSessionTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.sessionTTL = ttl }
}

// WithStoreTimeout bounds store I/O (and hooks) per request. Must stay
// below the gateway's own response-time budget.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) { e.storeTimeout = d }
}

// WithMaxDepth caps the menu stack depth.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) { e.maxDepth = depth }
}

// WithMaxScreenLen sets the gateway's single-screen payload cap.
func WithMaxScreenLen(n int) Option {
	return func(e *Engine) { e.renderer = NewRenderer(n) }
}

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine. The registry must already be validated; New
// re-validates and fails fast so a misconfigured tree can never reach
// request time.
func New(registry *Registry, store ports.SessionStore, opts ...Option) (*Engine, error) {
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("menu configuration: %w", err)
	}

	e := &Engine{
		registry:     registry,
		store:        store,
		renderer:     NewRenderer(DefaultMaxScreenLen),
		logger:       logging.NewNop(),
		sessionTTL:   DefaultSessionTTL,
		storeTimeout: DefaultStoreTimeout,
		maxDepth:     DefaultMaxDepth,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// stepResult classifies the outcome of consuming one token.
type stepResult int

const (
	stepAdvance stepResult = iota
	stepBack
	stepInvalid
	stepTerminal
	stepDepthExceeded
	stepFault
)

// Handle processes one gateway request end to end. It never returns an
// error: every recoverable condition is resolved into a renderable
// screen before leaving the resolver.
func (e *Engine) Handle(ctx context.Context, req Request) Response {
	start := time.Now()
	caller := domain.NormalizeMSISDN(req.CallerID)

	tree, known := e.registry.Resolve(req.ServiceCode)
	if !known {
		e.logger.Warn("unknown service code, using fallback tree",
			"service_code", req.ServiceCode, "session_id", req.SessionID)
	}

	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	sess, _, err := e.store.LoadOrCreate(ctx, req.SessionID, caller, req.ServiceCode, tree.Root, e.sessionTTL)
	if err != nil {
		observability.RecordStoreError("load_or_create")
		e.logger.Error("session load failed", "session_id", req.SessionID, "err", err)
		return e.respond(tree, "unavailable", start, Response{
			Text:       e.renderer.RenderText(MsgUnavailable),
			EndSession: true,
		})
	}

	tokens := Tokenize(req.Text)

	// Fresh dialog: empty accumulated input positions the caller at
	// the tree root with a clean stack and context.
	if len(tokens) == 0 {
		sess.CurrentNode = tree.Root
		sess.MenuStack = []string{}
		sess.ContextData = make(map[string]any)
		sess.Steps = 0
		return e.renderAndSave(ctx, tree, sess, "", stepAdvance, start)
	}

	// Idempotent replay: the gateway redelivered an accumulated string
	// this session has already fully consumed. Re-render without
	// advancing so retries never double-step.
	if len(tokens) <= sess.Steps {
		return e.renderAndSave(ctx, tree, sess, "", stepAdvance, start)
	}

	// Consume every unseen token in order. A session created fresh for
	// a replayed multi-token string (e.g. after expiry) fast-forwards
	// from the root; input arriving before the root was ever rendered
	// is simply token #1 against the root's transition table.
	var (
		result   stepResult
		degraded bool
	)
	for i := sess.Steps; i < len(tokens); i++ {
		result, degraded = e.step(ctx, tree, sess, tokens[i])
		sess.Steps = i + 1
		if result == stepTerminal || result == stepDepthExceeded || result == stepFault {
			break
		}
	}

	switch result {
	case stepFault:
		// currentNode unknown to the tree: a programming error, not a
		// user-input error. Answer the gateway and surface loudly.
		observability.RecordStoreError("resolve_node")
		e.logger.Error("session points at unknown node",
			"session_id", sess.SessionID, "tree", tree.Name, "node", sess.CurrentNode)
		e.expire(ctx, sess.SessionID)
		return e.respond(tree, "unavailable", start, Response{
			Text:       e.renderer.RenderText(MsgUnavailable),
			EndSession: true,
		})

	case stepDepthExceeded:
		e.expire(ctx, sess.SessionID)
		return e.respond(tree, "too_long", start, Response{
			Text:       e.renderer.RenderText(MsgSessionTooLong),
			EndSession: true,
		})

	case stepTerminal:
		node := tree.Node(sess.CurrentNode)
		text := e.renderer.Render(node, sess, noticeFor(stepTerminal, degraded))
		sess.Active = false
		e.expire(ctx, sess.SessionID)
		if node.Notify != "" && e.notifier != nil {
			e.dispatchNotification(node, sess)
		}
		return e.respond(tree, "end", start, Response{Text: text, EndSession: true})

	default:
		return e.renderAndSave(ctx, tree, sess, noticeFor(result, degraded), result, start)
	}
}

// step consumes a single token against the session's current node.
func (e *Engine) step(ctx context.Context, tree *domain.Tree, sess *domain.Session, token string) (stepResult, bool) {
	node := tree.Node(sess.CurrentNode)
	if node == nil {
		return stepFault, false
	}

	target, ok := node.Transitions[token]
	if !ok {
		observability.RecordTransition(tree.Name, "invalid")
		return stepInvalid, false
	}

	if target == domain.TargetBack {
		// Pop is a no-op on an empty stack: the root re-renders.
		sess.Pop()
		observability.RecordTransition(tree.Name, "back")
		return stepBack, false
	}

	if sess.Depth()+1 > e.maxDepth {
		observability.RecordTransition(tree.Name, "depth_exceeded")
		return stepDepthExceeded, false
	}

	if node.Capture != "" {
		sess.MergeContext(map[string]any{node.Capture: token})
	}
	sess.Push(target)
	next := tree.Node(target)

	degraded := false
	if next.Hook != nil {
		patch, err := e.runHook(ctx, next, sess)
		if err != nil {
			degraded = true
			observability.RecordHookFailure(tree.Name, next.ID)
			e.logger.Warn("domain action hook failed",
				"tree", tree.Name, "node", next.ID, "session_id", sess.SessionID, "err", err)
		} else {
			sess.MergeContext(patch)
		}
	}

	if next.Terminal {
		observability.RecordTransition(tree.Name, "terminal")
		return stepTerminal, degraded
	}
	observability.RecordTransition(tree.Name, "advance")
	return stepAdvance, degraded
}

// runHook invokes a node's domain-action hook with panic isolation.
// The hook receives a clone, so the only session field it can affect
// is ContextData, through the returned patch.
func (e *Engine) runHook(ctx context.Context, node *domain.Node, sess *domain.Session) (patch map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panicked: %v", r)
		}
	}()
	return node.Hook(ctx, sess.Clone())
}

// renderAndSave refreshes the sliding expiry, persists the session,
// and renders its current screen. A version conflict means a
// concurrent duplicate of this request already advanced the session;
// navigation is deterministic, so the locally computed screen is the
// winner's screen and is returned without a second write.
func (e *Engine) renderAndSave(ctx context.Context, tree *domain.Tree, sess *domain.Session, notice string, result stepResult, start time.Time) Response {
	node := tree.Node(sess.CurrentNode)
	if node == nil {
		observability.RecordStoreError("resolve_node")
		e.logger.Error("session points at unknown node",
			"session_id", sess.SessionID, "tree", tree.Name, "node", sess.CurrentNode)
		e.expire(ctx, sess.SessionID)
		return e.respond(tree, "unavailable", start, Response{
			Text:       e.renderer.RenderText(MsgUnavailable),
			EndSession: true,
		})
	}

	sess.Touch(e.now(), e.sessionTTL)
	if err := e.store.Save(ctx, sess); err != nil {
		switch {
		case errors.Is(err, domain.ErrVersionConflict), errors.Is(err, domain.ErrSessionNotFound):
			e.logger.Debug("concurrent writer won, returning computed screen",
				"session_id", sess.SessionID, "node", sess.CurrentNode)
		default:
			observability.RecordStoreError("save")
			e.logger.Error("session save failed", "session_id", sess.SessionID, "err", err)
			return e.respond(tree, "unavailable", start, Response{
				Text:       e.renderer.RenderText(MsgUnavailable),
				EndSession: true,
			})
		}
	}

	outcome := "continue"
	if result == stepInvalid {
		outcome = "invalid"
	}
	return e.respond(tree, outcome, start, Response{
		Text:       e.renderer.Render(node, sess, notice),
		EndSession: false,
	})
}

func (e *Engine) expire(ctx context.Context, sessionID string) {
	if err := e.store.Expire(ctx, sessionID); err != nil {
		observability.RecordStoreError("expire")
		e.logger.Warn("session expire failed", "session_id", sessionID, "err", err)
	}
}

// dispatchNotification fires the terminal node's SMS template without
// awaiting the result; failure never affects the USSD response.
func (e *Engine) dispatchNotification(node *domain.Node, sess *domain.Session) {
	message := Interpolate(node.Notify, sess.ContextData)
	to := sess.CallerID
	dispatchID := uuid.NewString()
	logger := e.logger
	notifier := e.notifier

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := notifier.Send(ctx, to, message); err != nil {
			observability.RecordNotification("error")
			logger.Warn("notification send failed",
				"dispatch_id", dispatchID, "node", node.ID, "err", err)
			return
		}
		observability.RecordNotification("sent")
		logger.Info("notification dispatched", "dispatch_id", dispatchID, "node", node.ID)
	}()
}

func (e *Engine) respond(tree *domain.Tree, outcome string, start time.Time, resp Response) Response {
	observability.RecordGatewayRequest(tree.Name, outcome, time.Since(start))
	return resp
}

func noticeFor(result stepResult, degraded bool) string {
	switch {
	case result == stepInvalid:
		return MsgInvalidChoice
	case degraded:
		return MsgDegraded
	default:
		return ""
	}
}
