// Package router orchestrates one skill invocation: registry lookup,
// feature build, inference run, result wrapping, and telemetry.
//
// Expected failures (unknown id, build or run errors) come back as
// typed Failure results carrying the cause; the router never lets a
// collaborator's error escape as an unhandled failure. It imposes no
// timeout or retry of its own.
package router

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/glasslink/skillrt/internal/metrics"
	"github.com/glasslink/skillrt/skills"
	"github.com/glasslink/skillrt/telemetry"
	"github.com/glasslink/skillrt/types"
)

const tracerName = "github.com/glasslink/skillrt/router"

// Router routes payloads to registered skills.
type Router struct {
	registry *skills.Registry
	sink     *telemetry.Sink
	metrics  *metrics.Collector
	tracer   trace.Tracer
	logger   *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Router) { r.metrics = c }
}

// WithTracer overrides the OTel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Router) { r.tracer = t }
}

// NewRouter creates a router over the registry, recording outcomes to
// sink.
func NewRouter(registry *skills.Registry, sink *telemetry.Sink, logger *zap.Logger, opts ...Option) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		registry: registry,
		sink:     sink,
		tracer:   otel.Tracer(tracerName),
		logger:   logger.With(zap.String("component", "router")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route resolves the skill, builds features, runs inference, and wraps
// the outcome. Every call records one router_<skill>_<outcome>
// telemetry event.
func (r *Router) Route(ctx context.Context, id string, payload any) types.Result[any] {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "skill.route",
		trace.WithAttributes(attribute.String("skill.id", id)))
	defer span.End()

	out, err := r.registry.Invoke(ctx, id, payload)
	if err != nil {
		category := types.ErrorCategory(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, category)
		r.logger.Warn("route failed",
			zap.String("skill", id),
			zap.String("category", category),
			zap.Error(err),
		)
		r.recordOutcome(id, "failure", category, start)
		return types.Failure[any](err)
	}

	span.SetStatus(codes.Ok, "")
	r.logger.Debug("route succeeded", zap.String("skill", id))
	r.recordOutcome(id, "success", "", start)
	return types.Success(out)
}

// RouteByTrigger resolves a trigger phrase and routes the matched
// skill. Unknown triggers fail without touching any skill.
func (r *Router) RouteByTrigger(ctx context.Context, trigger string, payload any) types.Result[any] {
	reg, ok := r.registry.SkillByTrigger(trigger)
	if !ok {
		err := types.NewError(types.ErrTriggerNotFound, "no skill matches trigger")
		if r.sink != nil {
			_ = r.sink.Record("router_trigger_miss",
				[]telemetry.Attr{telemetry.String("trigger", skills.NormalizeTrigger(trigger))}, nil)
		}
		return types.Failure[any](err)
	}
	return r.Route(ctx, reg.ID, payload)
}

func (r *Router) recordOutcome(id, outcome, category string, start time.Time) {
	r.metrics.ObserveRoute(id, outcome, time.Since(start))
	if r.sink == nil {
		return
	}
	if err := r.sink.RecordRouterOutcome(id, outcome, category); err != nil {
		r.logger.Error("record route outcome failed", zap.String("skill", id), zap.Error(err))
	}
}
