package features

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/glasslink/skillrt/types"
)

// Builder maps an arbitrary payload to a feature vector of exactly the
// requested width.
type Builder interface {
	// Name is the identifier skill definitions use to reference the builder.
	Name() string

	// Build extracts the builder's signals from the payload and fits
	// them to dim slots. Must be pure and deterministic.
	Build(payload types.Payload, dim int) []float64
}

// fit folds the signal list into exactly dim slots. Excess signals are
// summed into earlier slots round-robin; missing slots stay zero.
func fit(signals []float64, dim int) []float64 {
	if dim <= 0 {
		return nil
	}
	out := make([]float64, dim)
	for i, s := range signals {
		out[i%dim] += s
	}
	return out
}

// Registry 是特征构建器的进程级注册表：名称 → 构建器。
// 启动时一次性填充，之后只读，通过依赖注入传递而非环境全局。
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
	logger   *zap.Logger
}

// NewRegistry creates an empty builder registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		builders: make(map[string]Builder),
		logger:   logger.With(zap.String("component", "feature_registry")),
	}
}

// NewDefaultRegistry creates a registry pre-populated with every domain
// builder the runtime ships.
func NewDefaultRegistry(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	for _, b := range []Builder{
		EducationBuilder{},
		RetailBuilder{},
		TravelBuilder{},
		LogisticsBuilder{},
		HealthBuilder{},
		AgricultureBuilder{},
		EnergyBuilder{},
		SecurityBuilder{},
		EntertainmentBuilder{},
		ManufacturingBuilder{},
		HospitalityBuilder{},
	} {
		r.Register(b)
	}
	return r
}

// Register inserts or replaces a builder under its name.
func (r *Registry) Register(b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[b.Name()] = b
	r.logger.Debug("feature builder registered", zap.String("builder", b.Name()))
}

// Get returns the builder registered under name.
func (r *Registry) Get(name string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[name]
	return b, ok
}

// Names returns the registered builder names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
