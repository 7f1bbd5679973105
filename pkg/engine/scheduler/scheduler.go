// Package scheduler runs a task periodically, one run at a time.
package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// ErrInvalidInterval is returned by New for a non-positive interval.
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Task represents one unit of periodic work.
type Task func(ctx context.Context) error

// Ticker is the subset of *time.Ticker the scheduler uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// RealClock returns a Clock backed by time.NewTicker.
func RealClock() Clock { return realClock{} }

// Stats holds runtime statistics for the scheduler.
type Stats struct {
	Runs     int64
	Failures int64
	LastRun  time.Time
	LastErr  error
}

// Scheduler invokes a Task immediately on Start and then on every tick
// until Stop is called or the context is cancelled. Runs never overlap.
type Scheduler struct {
	interval time.Duration
	task     Task
	clock    Clock
	logger   *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	quit      chan struct{}
	done      chan struct{}

	mu    sync.Mutex
	stats Stats
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the clock used to create tickers.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger for run failures and loop lifecycle.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a scheduler. It does not start it.
func New(interval time.Duration, task Task, opts ...Option) (*Scheduler, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if task == nil {
		return nil, errors.New("scheduler: nil task")
	}
	s := &Scheduler{
		interval: interval,
		task:     task,
		clock:    realClock{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start begins the loop in a new goroutine. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.loop(ctx)
	})
}

// Run executes the loop on the calling goroutine and returns when the
// scheduler stops. The returned error is the context's, if it ended the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	started := false
	s.startOnce.Do(func() { started = true })
	if !started {
		return errors.New("scheduler: already started")
	}
	s.loop(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// Stop signals the loop to exit and waits for the in-flight run, if any.
// It is safe to call more than once and before Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	// A never-started scheduler has no loop to wait for.
	s.startOnce.Do(func() { close(s.done) })
	<-s.done
}

// Done is closed once the loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Interval returns the configured tick interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// GetStats returns a copy of the run counters.
func (s *Scheduler) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Debug("scheduler started", "interval", s.interval)
	defer s.logger.Debug("scheduler stopped")

	if !s.stopping(ctx) {
		s.runOnce(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-ticker.C():
			// Prefer stopping over a tick that raced with the stop signal.
			if s.stopping(ctx) {
				return
			}
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) stopping(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-s.quit:
		return true
	default:
		return false
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	err := s.task(ctx)

	s.mu.Lock()
	s.stats.Runs++
	s.stats.LastRun = time.Now()
	s.stats.LastErr = err
	if err != nil {
		s.stats.Failures++
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("scheduled run failed", "error", err)
	}
}
