package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 运行时指标收集器
// =============================================================================

// Collector 技能运行时指标收集器。nil 接收者上的所有方法为空操作，
// 组件可以把收集器作为可选依赖传递。
type Collector struct {
	// 路由指标
	routesTotal   *prometheus.CounterVec
	routeDuration *prometheus.HistogramVec

	// 推理指标
	inferenceRuns   *prometheus.CounterVec
	sessionsCreated prometheus.Counter

	// 遥测指标
	telemetryEvents *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器。reg 为 nil 时注册到默认注册表。
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.routesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_total",
			Help:      "Total number of skill route calls",
		},
		[]string{"skill", "outcome"},
	)

	c.routeDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_duration_seconds",
			Help:      "Skill route duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"skill"},
	)

	c.inferenceRuns = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_runs_total",
			Help:      "Total number of inference session runs by mode",
		},
		[]string{"skill", "mode"},
	)

	c.sessionsCreated = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_sessions_created_total",
			Help:      "Total number of inference sessions created",
		},
	)

	c.telemetryEvents = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_events_total",
			Help:      "Total number of telemetry events by sampling decision",
		},
		[]string{"category", "decision"},
	)

	return c
}

// ObserveRoute 记录一次路由结果。
func (c *Collector) ObserveRoute(skill, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.routesTotal.WithLabelValues(skill, outcome).Inc()
	c.routeDuration.WithLabelValues(skill).Observe(d.Seconds())
}

// ObserveInference 记录一次推理执行；skipped 表示空闲模式短路。
func (c *Collector) ObserveInference(skill string, skipped bool) {
	if c == nil {
		return
	}
	mode := "active"
	if skipped {
		mode = "skipped"
	}
	c.inferenceRuns.WithLabelValues(skill, mode).Inc()
}

// ObserveSessionCreated 记录一次会话创建。
func (c *Collector) ObserveSessionCreated() {
	if c == nil {
		return
	}
	c.sessionsCreated.Inc()
}

// ObserveTelemetry 记录一次遥测采样判定。
func (c *Collector) ObserveTelemetry(category string, persisted bool) {
	if c == nil {
		return
	}
	decision := "persisted"
	if !persisted {
		decision = "sampled_out"
	}
	c.telemetryEvents.WithLabelValues(category, decision).Inc()
}
