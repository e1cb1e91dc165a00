// Package skillrt is the on-device skill runtime: declarative skill
// registration, feature building, inference session management,
// confidence-gated decisions, sampled telemetry, and localized output.
//
// Runtime is the composition root. A zero-config runtime works out of
// the box with in-memory telemetry and echo inference:
//
//	rt, err := skillrt.New(nil)
//	res := rt.Run(ctx, "education_assistant", payload)
package skillrt

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/glasslink/skillrt/config"
	"github.com/glasslink/skillrt/decision"
	"github.com/glasslink/skillrt/features"
	"github.com/glasslink/skillrt/inference"
	"github.com/glasslink/skillrt/internal/metrics"
	"github.com/glasslink/skillrt/internal/tracing"
	"github.com/glasslink/skillrt/manifest"
	"github.com/glasslink/skillrt/postprocess"
	"github.com/glasslink/skillrt/router"
	"github.com/glasslink/skillrt/skills"
	"github.com/glasslink/skillrt/telemetry"
	"github.com/glasslink/skillrt/types"
)

// Runtime owns every component of the skill pipeline and wires them
// together from a single Config.
type Runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	collector *metrics.Collector
	store     telemetry.Store
	sink      *telemetry.Sink
	builders  *features.Registry
	registry  *skills.Registry
	hub       *inference.Hub
	router    *router.Router
	engine    *decision.Engine
	localizer *postprocess.Localizer
	installer *manifest.Installer
	providers *tracing.Providers
}

// Option configures a Runtime before wiring.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	factory    inference.BackendFactory
	store      telemetry.Store
	registerer prometheus.Registerer
	publicKey  ed25519.PublicKey
}

// WithLogger supplies a prebuilt logger instead of one derived from
// the Log config section.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBackendFactory supplies the inference backend constructor. The
// default is the echo backend, which is only useful in tests and
// bring-up.
func WithBackendFactory(f inference.BackendFactory) Option {
	return func(o *options) { o.factory = f }
}

// WithStore overrides the telemetry store chosen by config.
func WithStore(s telemetry.Store) Option {
	return func(o *options) { o.store = s }
}

// WithRegisterer sets the Prometheus registerer for runtime metrics.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.registerer = r }
}

// WithPublicKey pins the manifest verification key, enabling
// InstallPackage.
func WithPublicKey(pub ed25519.PublicKey) Option {
	return func(o *options) { o.publicKey = pub }
}

// New builds a runtime from config. A nil cfg means defaults. The
// skills definition file named by config is loaded when it exists;
// a missing file leaves the registry empty for programmatic
// registration.
func New(cfg *config.Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = buildLogger(cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
	}

	providers, err := tracing.Init(cfg.Tracing, logger)
	if err != nil {
		return nil, err
	}

	registerer := o.registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	collector := metrics.NewCollector("skillrt", registerer, logger)

	store := o.store
	if store == nil {
		store, err = buildStore(cfg.Telemetry, logger)
		if err != nil {
			return nil, err
		}
	}
	sink := telemetry.NewSink(store, telemetry.SamplingConfig{
		Rates:       cfg.Telemetry.Rates,
		DefaultRate: cfg.Telemetry.DefaultRate,
	}, logger, telemetry.WithCollector(collector))

	builders := features.NewDefaultRegistry(logger)
	registry := skills.NewRegistry(logger)

	factory := o.factory
	if factory == nil {
		factory = func(string) (inference.Backend, error) { return inference.EchoBackend{}, nil }
	}

	hubOpts := []inference.HubOption{inference.WithMetrics(collector)}
	if data, err := os.ReadFile(cfg.Skills.DefinitionPath); err == nil {
		hubOpts = append(hubOpts, inference.WithDefinition(data))
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read skills definition: %w", err)
	}
	hub := inference.NewHub(registry, builders, factory, logger, hubOpts...)
	if err := hub.Init(); err != nil {
		return nil, err
	}
	hub.SetIdleMode(cfg.Inference.IdleOnStart)

	rt := &Runtime{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		store:     store,
		sink:      sink,
		builders:  builders,
		registry:  registry,
		hub:       hub,
		router:    router.NewRouter(registry, sink, logger, router.WithMetrics(collector)),
		engine: decision.NewEngine(cfg.Decision.Gates, logger,
			decision.WithDefaultGate(cfg.Decision.DefaultGate)),
		localizer: postprocess.NewLocalizer(logger),
		providers: providers,
	}
	if len(o.publicKey) > 0 {
		verifier := manifest.NewVerifier(o.publicKey, logger)
		rt.installer = manifest.NewInstaller(verifier, registry, builders, logger)
	}
	return rt, nil
}

// Registry exposes the skill registry for programmatic registration.
func (rt *Runtime) Registry() *skills.Registry { return rt.registry }

// Builders exposes the feature builder registry.
func (rt *Runtime) Builders() *features.Registry { return rt.builders }

// Hub exposes the inference hub, for idle-mode and connection control.
func (rt *Runtime) Hub() *inference.Hub { return rt.hub }

// Sink exposes the telemetry sink.
func (rt *Runtime) Sink() *telemetry.Sink { return rt.sink }

// Run routes a payload to a skill by id.
func (rt *Runtime) Run(ctx context.Context, skillID string, payload any) types.Result[any] {
	return rt.router.Route(ctx, skillID, payload)
}

// RunByTrigger routes a payload by spoken trigger phrase.
func (rt *Runtime) RunByTrigger(ctx context.Context, trigger string, payload any) types.Result[any] {
	return rt.router.RouteByTrigger(ctx, trigger, payload)
}

// Decide gates a skill action on confidence.
func (rt *Runtime) Decide(skillID string, confidence float64, message string) decision.Outcome {
	return rt.engine.Decide(skillID, confidence, message)
}

// Summarize localizes a skill's raw output for display.
func (rt *Runtime) Summarize(skillID string, output []float64, metadata map[string]string) map[string]string {
	return rt.localizer.PostProcess(skillID, output, metadata)
}

// RunAndSummarize routes the payload and, on success, localizes the
// output vector. The summary map is nil when routing fails.
func (rt *Runtime) RunAndSummarize(ctx context.Context, skillID string, payload any, metadata map[string]string) (types.Result[any], map[string]string) {
	res := rt.Run(ctx, skillID, payload)
	if !res.OK() {
		return res, nil
	}
	vec, _ := res.Value().([]float64)
	return res, rt.localizer.PostProcess(skillID, vec, metadata)
}

// InstallPackage verifies and installs a signed skill package. Fails
// when the runtime was built without a public key.
func (rt *Runtime) InstallPackage(pkg manifest.Package) error {
	if rt.installer == nil {
		return types.NewError(types.ErrBadManifest, "no manifest public key configured")
	}
	return rt.installer.Install(pkg, rt.hub.RunnerFactory())
}

// LoadDefinition registers skills from a definition document, backed
// by hub inference sessions.
func (rt *Runtime) LoadDefinition(data []byte) error {
	return rt.registry.LoadDefinition(data, rt.builders, rt.hub.RunnerFactory())
}

// Close flushes telemetry and shuts down tracing providers.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if err := rt.sink.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := rt.providers.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// buildLogger constructs a zap logger from the Log config section.
func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Encoding = cfg.Format
	if cfg.Format == "console" {
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}
	return zc.Build()
}

// buildStore constructs the telemetry store named by config.
func buildStore(cfg config.TelemetryConfig, logger *zap.Logger) (telemetry.Store, error) {
	switch cfg.Store {
	case "memory":
		return telemetry.NewMemoryStore(), nil
	case "file":
		return telemetry.NewFileStore(cfg.Path)
	case "sqlite":
		return telemetry.NewGormStore(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown telemetry store %q", cfg.Store)
	}
}
