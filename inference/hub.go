package inference

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/glasslink/skillrt/features"
	"github.com/glasslink/skillrt/internal/metrics"
	"github.com/glasslink/skillrt/skills"
)

// Hub 管理每个技能的推理会话缓存、全局空闲开关与逻辑链路连接状态。
// 会话懒创建并按注册表生命周期记忆化；并发首次访问只创建一个实例。
type Hub struct {
	registry *skills.Registry
	builders *features.Registry
	factory  BackendFactory

	definition []byte

	mu       sync.RWMutex
	sessions map[string]*Session
	group    singleflight.Group

	idle atomic.Bool

	connMu sync.RWMutex
	conns  map[string]bool

	initMu      sync.Mutex
	initialized bool

	metrics *metrics.Collector
	logger  *zap.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithDefinition supplies the declarative skill document Init loads
// into the registry on first call.
func WithDefinition(data []byte) HubOption {
	return func(h *Hub) { h.definition = data }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) HubOption {
	return func(h *Hub) { h.metrics = c }
}

// NewHub creates a hub over the given registry and backend factory.
func NewHub(registry *skills.Registry, builders *features.Registry, factory BackendFactory, logger *zap.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		registry: registry,
		builders: builders,
		factory:  factory,
		sessions: make(map[string]*Session),
		conns:    make(map[string]bool),
		logger:   logger.With(zap.String("component", "inference_hub")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Init loads the skill definition into the registry. Idempotent: the
// second and later calls return without recreating anything. Sessions
// stay uncreated until first reference.
func (h *Hub) Init() error {
	h.initMu.Lock()
	defer h.initMu.Unlock()
	if h.initialized {
		return nil
	}
	if len(h.definition) > 0 {
		if err := h.registry.LoadDefinition(h.definition, h.builders, h.RunnerFactory()); err != nil {
			return fmt.Errorf("load skill definition: %w", err)
		}
	}
	h.initialized = true
	h.logger.Info("inference hub initialized",
		zap.Int("skills", len(h.registry.ListSkills())))
	return nil
}

// Session returns the memoized session for id, creating it on first
// access. Returns false for unregistered ids and for backend factory
// failures; a later call retries creation after a failure.
func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		return s, true
	}

	if !h.registry.IsRegistered(id) {
		return nil, false
	}

	// singleflight collapses concurrent first accesses: exactly one
	// backend is created and every caller observes the same session.
	v, err, _ := h.group.Do(id, func() (any, error) {
		h.mu.RLock()
		existing, ok := h.sessions[id]
		h.mu.RUnlock()
		if ok {
			return existing, nil
		}

		backend, err := h.factory(id)
		if err != nil {
			return nil, fmt.Errorf("create backend for %s: %w", id, err)
		}
		session := &Session{skillID: id, backend: backend, hub: h}

		h.mu.Lock()
		h.sessions[id] = session
		h.mu.Unlock()

		h.metrics.ObserveSessionCreated()
		h.logger.Info("inference session created", zap.String("skill", id))
		return session, nil
	})
	if err != nil {
		h.logger.Error("session creation failed", zap.String("skill", id), zap.Error(err))
		return nil, false
	}
	return v.(*Session), true
}

// SetIdleMode flips the process-wide idle switch. Takes effect
// immediately for existing and future sessions.
func (h *Hub) SetIdleMode(idle bool) {
	h.idle.Store(idle)
	h.logger.Info("idle mode changed", zap.Bool("idle", idle))
}

// IsIdle reports the idle switch.
func (h *Hub) IsIdle() bool { return h.idle.Load() }

// Connect marks the logical link for key as open. Orthogonal to
// session caching and idle mode; a readiness signal only.
func (h *Hub) Connect(key string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.conns[key] = true
	return true
}

// Disconnect marks the link for key as closed.
func (h *Hub) Disconnect(key string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	delete(h.conns, key)
}

// IsConnected reports the link state for key.
func (h *Hub) IsConnected(key string) bool {
	h.connMu.RLock()
	defer h.connMu.RUnlock()
	return h.conns[key]
}
