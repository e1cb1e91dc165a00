package telemetry

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glasslink/skillrt/internal/metrics"
)

// SamplingConfig maps category prefixes to retention probabilities.
// Categories with no explicit rule use DefaultRate. A rate of 1.0
// always persists, 0.0 never does.
type SamplingConfig struct {
	Rates       map[string]float64 `yaml:"rates" json:"rates"`
	DefaultRate float64            `yaml:"default_rate" json:"default_rate"`
}

// DefaultSamplingConfig retains everything; deployments tighten it per
// category from the runtime config.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{Rates: map[string]float64{}, DefaultRate: 1.0}
}

// Rate resolves the retention rate for an event name: the longest
// configured category prefix wins, otherwise the default.
func (c SamplingConfig) Rate(eventName string) float64 {
	best := -1
	rate := c.DefaultRate
	for prefix, r := range c.Rates {
		if strings.HasPrefix(eventName, prefix) && len(prefix) > best {
			best = len(prefix)
			rate = r
		}
	}
	return rate
}

// Category derives the telemetry category from an event name: the
// longest configured prefix when one matches, else the leading
// underscore segment.
func (c SamplingConfig) Category(eventName string) string {
	best := ""
	for prefix := range c.Rates {
		if strings.HasPrefix(eventName, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best != "" {
		return best
	}
	if i := strings.IndexByte(eventName, '_'); i > 0 {
		return eventName[:i]
	}
	return eventName
}

// Sink 按采样规则记录事件并落盘。采样判定只读不可变配置，无需同步；
// 落盘由 Store 串行化。
type Sink struct {
	store    Store
	sampling SamplingConfig
	draw     func() float64
	metrics  *metrics.Collector
	logger   *zap.Logger
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithDraw overrides the random draw, for deterministic tests.
func WithDraw(draw func() float64) SinkOption {
	return func(s *Sink) { s.draw = draw }
}

// WithCollector attaches a metrics collector counting sampling
// decisions per category.
func WithCollector(c *metrics.Collector) SinkOption {
	return func(s *Sink) { s.metrics = c }
}

// NewSink creates a sink writing retained events to store.
func NewSink(store Store, sampling SamplingConfig, logger *zap.Logger, opts ...SinkOption) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sink{
		store:    store,
		sampling: sampling,
		draw:     rand.Float64,
		logger:   logger.With(zap.String("component", "telemetry_sink")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record samples and, when retained, persists one event. Returns the
// persistence error, nil when the event was sampled out.
func (s *Sink) Record(name string, attrs []Attr, metrics map[string]float64) error {
	rate := s.sampling.Rate(name)
	if rate <= 0 || (rate < 1 && s.draw() >= rate) {
		s.metrics.ObserveTelemetry(s.sampling.Category(name), false)
		return nil
	}
	s.metrics.ObserveTelemetry(s.sampling.Category(name), true)

	event := Event{
		ID:         uuid.NewString(),
		Name:       name,
		Attributes: attrs,
		Metrics:    metrics,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.store.Append(event); err != nil {
		s.logger.Error("telemetry append failed",
			zap.String("event", name), zap.Error(err))
		return fmt.Errorf("record telemetry event %s: %w", name, err)
	}
	return nil
}

// Events returns the persisted events in insertion order.
func (s *Sink) Events() ([]Event, error) {
	return s.store.Events()
}

// Close closes the underlying store.
func (s *Sink) Close() error {
	return s.store.Close()
}

// RecordRouterOutcome records one routing outcome under the stable
// name router_<skill>_<outcome> so per-skill success rates need no
// free-text parsing.
func (s *Sink) RecordRouterOutcome(skillID, outcome, errorCategory string) error {
	attrs := []Attr{
		String("skill", skillID),
		String("outcome", outcome),
	}
	if errorCategory != "" {
		attrs = append(attrs, String("error_category", errorCategory))
	}
	return s.Record(fmt.Sprintf("router_%s_%s", skillID, outcome), attrs, nil)
}

// RecordShareFunnel records one share-funnel stage event
// (share_in_<stage>).
func (s *Sink) RecordShareFunnel(stage string, attrs ...Attr) error {
	return s.Record("share_in_"+stage, attrs, nil)
}

// RecordTTSPerformance records one speech-synthesis latency sample.
func (s *Sink) RecordTTSPerformance(voice string, chars int, latency time.Duration) error {
	return s.Record("tts_synthesis",
		[]Attr{
			String("voice", voice),
			String("chars", strconv.Itoa(chars)),
		},
		map[string]float64{"latency_ms": float64(latency.Milliseconds())},
	)
}
