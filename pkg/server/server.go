// Package server serves the web dashboard, its JSON feed and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/DrSkyle/campuslab/pkg/campus"
	"github.com/DrSkyle/campuslab/pkg/engine/report"
	"github.com/DrSkyle/campuslab/pkg/engine/scheduler"
)

// Cycler produces a new frame per call. *engine.Engine satisfies it.
type Cycler interface {
	Cycle(ctx context.Context) (campus.Frame, error)
}

// Server holds only the latest frame; there is no history.
type Server struct {
	cycler    Cycler
	interval  time.Duration
	logger    *slog.Logger
	accessLog io.Writer
	clock     scheduler.Clock
	metrics   *Metrics

	latest  atomic.Pointer[campus.Frame]
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAccessLog writes Apache combined logs for every request to w.
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) {
		s.accessLog = w
	}
}

// WithClock overrides the refresh scheduler's clock.
func WithClock(c scheduler.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

// New builds a server that refreshes from cycler every interval.
func New(cycler Cycler, interval time.Duration, opts ...Option) *Server {
	s := &Server{
		cycler:   cycler,
		interval: interval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:    scheduler.RealClock(),
		metrics:  NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.handler = s.buildHandler()
	return s
}

// NewRouter registers the dashboard routes.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/", s.metrics.WrapHandler("/", http.HandlerFunc(s.handleDashboard))).Methods(http.MethodGet)
	r.Handle("/api/frame", s.metrics.WrapHandler("/api/frame", http.HandlerFunc(s.handleFrame))).Methods(http.MethodGet)
	r.Handle("/api/frame.{format}", s.metrics.WrapHandler("/api/frame.{format}", http.HandlerFunc(s.handleFrameFormat))).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	return r
}

func (s *Server) buildHandler() http.Handler {
	var h http.Handler = s.NewRouter()
	h = handlers.CompressHandler(h)
	if s.accessLog != nil {
		h = handlers.CombinedLoggingHandler(s.accessLog, h)
	}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
		handlers.PrintRecoveryStack(false),
	)(h)
}

type recoveryLogger struct{ l *slog.Logger }

func (r recoveryLogger) Println(v ...interface{}) {
	r.l.Error("Handler panic", "error", fmt.Sprint(v...))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Metrics returns the server's Prometheus collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Latest returns the most recent frame, or false before the first cycle.
func (s *Server) Latest() (campus.Frame, bool) {
	f := s.latest.Load()
	if f == nil {
		return campus.Frame{}, false
	}
	return *f, true
}

// Refresh runs one cycle and publishes the frame.
func (s *Server) Refresh(ctx context.Context) error {
	frame, err := s.cycler.Cycle(ctx)
	if err != nil {
		s.metrics.CycleFailed()
		return fmt.Errorf("refresh: %w", err)
	}
	s.latest.Store(&frame)
	s.metrics.Observe(frame)
	return nil
}

// ListenAndServe refreshes on the configured interval and serves HTTP on
// addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	sched, err := scheduler.New(s.interval, s.Refresh,
		scheduler.WithClock(s.clock),
		scheduler.WithLogger(s.logger),
	)
	if err != nil {
		return err
	}
	sched.Start(ctx)
	defer sched.Stop()

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Dashboard listening", "addr", ln.Addr().String(), "interval", s.interval)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("Dashboard stopped")
	return nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.Latest()
	if !ok {
		s.notReady(w)
		return
	}
	w.Header().Set("Content-Type", report.FormatHTML.ContentType())
	if err := report.RenderHTML(w, frame, s.interval); err != nil {
		s.logger.Error("Render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame, ok := s.Latest()
	if !ok {
		s.notReady(w)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleFrameFormat(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	frame, ok := s.Latest()
	if !ok {
		s.notReady(w)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	if err := report.Encode(w, format, frame); err != nil {
		s.logger.Error("Encode failed", "format", format, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) notReady(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no data yet"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
