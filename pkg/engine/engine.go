package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/DrSkyle/campuslab/pkg/campus"
	"github.com/DrSkyle/campuslab/pkg/engine/policy"
	"github.com/DrSkyle/campuslab/pkg/engine/sampler"
	"github.com/DrSkyle/campuslab/pkg/telemetry"
	"github.com/DrSkyle/campuslab/pkg/version"
)

const instrumentationName = "campuslab/engine"

// Config holds engine settings.
type Config struct {
	// Seed makes the sampler deterministic when non-zero.
	Seed uint64

	// Telemetry config.
	OtelEndpoint  string // "http://localhost:4318" or via env
	SkipTelemetry bool   // Set true if embedding in an app that already has OTEL

	// Telemetry is passed through to telemetry.Init.
	Telemetry []telemetry.Option

	// Dependencies.
	Logger *slog.Logger
}

// Engine produces one dashboard frame per cycle.
type Engine struct {
	// Core components.
	Generator *sampler.Generator
	Planner   *policy.Planner
	Logger    *slog.Logger
	Tracer    trace.Tracer

	// Immutable config.
	config Config
	source sampler.Source
	now    func() time.Time

	cycleCounter metric.Int64Counter
	cycleLatency metric.Float64Histogram
	shutdown     func(context.Context) error

	// mu serializes cycles so callers on different goroutines never overlap.
	mu     sync.Mutex
	cycles atomic.Int64
}

// Option defines a functional configuration override.
type Option func(*Engine)

// New initializes the Engine.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	// Safe defaults.
	e := &Engine{
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Tracer: otel.Tracer(instrumentationName),
		now:    time.Now,
	}

	// Apply options.
	for _, opt := range opts {
		opt(e)
	}

	if e.source == nil {
		if e.config.Seed != 0 {
			e.source = sampler.NewSeededSource(e.config.Seed)
		} else {
			e.source = sampler.NewSource()
		}
	}
	e.Generator = sampler.New(e.source)

	planner, err := policy.NewPlanner()
	if err != nil {
		return nil, fmt.Errorf("failed to build planner: %w", err)
	}
	e.Planner = planner

	// Initialize telemetry.
	if !e.config.SkipTelemetry {
		shutdown, err := telemetry.Init(ctx, version.AppName, version.Current, e.config.OtelEndpoint, e.config.Telemetry...)
		if err != nil {
			e.Logger.Warn("Telemetry failed", "error", err)
		} else {
			e.shutdown = shutdown
			// Pick up the provider Init just registered.
			e.Tracer = otel.Tracer(instrumentationName)
		}
	}

	meter := otel.Meter(instrumentationName)
	e.cycleCounter, err = meter.Int64Counter("campuslab.cycles",
		metric.WithDescription("Dashboard cycles completed"))
	if err != nil {
		return nil, fmt.Errorf("failed to create cycle counter: %w", err)
	}
	e.cycleLatency, err = meter.Float64Histogram("campuslab.cycle.duration",
		metric.WithDescription("Time spent producing one frame"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create cycle histogram: %w", err)
	}

	return e, nil
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.Logger = l
		}
	}
}

// WithConfig sets raw config.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
		if cfg.Logger != nil {
			e.Logger = cfg.Logger
		}
	}
}

// WithSource overrides the random source behind the sampler.
func WithSource(src sampler.Source) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithClock overrides the timestamp source for frames.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Cycle runs generate, classify, aggregate, alerts and insights once and
// returns the resulting frame. Concurrent calls are serialized.
func (e *Engine) Cycle(ctx context.Context) (frame campus.Frame, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := uuid.New()
	ctx, span := e.Tracer.Start(ctx, "Engine.Cycle",
		trace.WithAttributes(attribute.String("frame.id", id.String())))
	defer span.End()

	// Crash safety.
	defer e.recoverPanic(ctx, &err)

	if err := ctx.Err(); err != nil {
		return campus.Frame{}, err
	}

	start := e.now()
	snapshot := e.Generator.Generate()

	insights, err := e.Planner.Evaluate(snapshot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "planning failed")
		return campus.Frame{}, fmt.Errorf("planning rules: %w", err)
	}

	frame = campus.NewFrame(id.String(), start, snapshot, insights)
	n := e.cycles.Add(1)

	span.SetAttributes(
		attribute.Int("campus.total_footfall", frame.Metrics.TotalFootfall),
		attribute.Int("campus.high_risk_zones", frame.Metrics.HighRiskZones),
		attribute.Int("campus.insights", len(frame.Insights)),
	)
	e.cycleCounter.Add(ctx, 1)
	e.cycleLatency.Record(ctx, float64(e.now().Sub(start).Microseconds())/1000)

	e.Logger.Info("Cycle complete",
		"cycle", n,
		"frame_id", frame.ID,
		"total_footfall", frame.Metrics.TotalFootfall,
		"avg_occupancy", frame.Metrics.AvgOccupancy,
		"high_risk_zones", frame.Metrics.HighRiskZones,
		"insights", len(frame.Insights),
	)
	return frame, nil
}

// Cycles returns how many frames have been produced.
func (e *Engine) Cycles() int64 {
	return e.cycles.Load()
}

// Close flushes telemetry.
func (e *Engine) Close(ctx context.Context) error {
	if e.shutdown == nil {
		return nil
	}
	if err := e.shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}
	return nil
}

// recoverPanic turns a panicking cycle into an error and records it.
func (e *Engine) recoverPanic(ctx context.Context, errp *error) {
	if r := recover(); r != nil {
		// Use independent span.
		_, span := e.Tracer.Start(ctx, "CriticalPanic")

		stack := debug.Stack()

		span.RecordError(fmt.Errorf("%v", r), trace.WithStackTrace(true))
		span.SetStatus(codes.Error, "CRITICAL FAILURE")
		span.SetAttributes(
			attribute.String("crash.stack", string(stack)),
			attribute.String("crash.reason", fmt.Sprintf("%v", r)),
		)
		span.End()

		e.Logger.Error("CRITICAL FAILURE", "error", r, "stack", string(stack))
		*errp = fmt.Errorf("cycle panicked: %v", r)
	}
}
