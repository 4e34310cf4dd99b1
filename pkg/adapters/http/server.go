package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/savannahworks/uliza/internal/engine"
	"github.com/savannahworks/uliza/internal/observability"
	"github.com/savannahworks/uliza/pkg/domain"
)

// Engine is the state machine core consumed by the gateway adapter.
type Engine interface {
	Handle(ctx context.Context, req engine.Request) engine.Response
}

// Server handles telephony gateway callbacks. The gateway POSTs a form
// for every keypress and expects a plain-text body whose first word is
// CON (keep the session open) or END (terminate it).
type Server struct {
	engine  Engine
	limiter *CallerLimiter
	logger  *slog.Logger
}

// NewHandler creates the gateway HTTP handler. A nil limiter disables
// rate limiting.
func NewHandler(eng Engine, limiter *CallerLimiter, logger *slog.Logger) http.Handler {
	s := &Server{
		engine:  eng,
		limiter: limiter,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/ussd", s.handleUSSD)
	r.Get("/health", s.handleHealth)

	return r
}

func (s *Server) handleUSSD(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		s.logger.Warn("ussd: invalid form body", "err", err)
		return
	}

	req := engine.Request{
		SessionID:   strings.TrimSpace(r.PostFormValue("sessionId")),
		CallerID:    r.PostFormValue("phoneNumber"),
		ServiceCode: r.PostFormValue("serviceCode"),
		Text:        r.PostFormValue("text"),
	}
	if req.SessionID == "" || req.CallerID == "" {
		http.Error(w, "sessionId and phoneNumber are required", http.StatusBadRequest)
		return
	}

	if s.limiter != nil && !s.limiter.Allow(domain.NormalizeMSISDN(req.CallerID)) {
		observability.RecordRateLimited()
		s.logger.Warn("ussd: caller rate limited", "session_id", req.SessionID)
		writeScreen(w, engine.Response{
			Text:       "Too many requests. Please wait a moment and dial again.",
			EndSession: true,
		})
		return
	}

	resp := s.engine.Handle(r.Context(), req)
	writeScreen(w, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// writeScreen encodes the engine response in the gateway's wire
// format. Gateways treat any non-200 as a dropped dialog, so screens
// always go out with status 200.
func writeScreen(w http.ResponseWriter, resp engine.Response) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	prefix := "CON "
	if resp.EndSession {
		prefix = "END "
	}
	w.Write([]byte(prefix + resp.Text))
}
