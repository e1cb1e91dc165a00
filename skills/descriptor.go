package skills

import (
	"context"

	"github.com/glasslink/skillrt/features"
	"github.com/glasslink/skillrt/types"
)

// Descriptor builds the feature representation of a payload for one
// skill. P is the payload type, F the feature type.
type Descriptor[P, F any] interface {
	BuildFeatures(payload P) (F, error)
}

// Runner executes a skill over built features. F is the feature type,
// O the output type. RunSkill may block for the duration of a model
// forward pass; cancellation is the caller's responsibility.
type Runner[F, O any] interface {
	RunSkill(ctx context.Context, features F) (O, error)
}

// The common triple for vector skills: structured payload in, numeric
// vector through, numeric vector out.
type (
	VectorDescriptor = Descriptor[types.Payload, []float64]
	VectorRunner     = Runner[[]float64, []float64]
)

// BuilderDescriptor adapts a domain feature builder to a
// VectorDescriptor with a fixed vector width.
type BuilderDescriptor struct {
	builder features.Builder
	width   int
}

// NewBuilderDescriptor pairs a builder with the width the skill's
// inference backend expects.
func NewBuilderDescriptor(builder features.Builder, width int) *BuilderDescriptor {
	return &BuilderDescriptor{builder: builder, width: width}
}

// BuildFeatures builds the vector and re-checks the width invariant.
// A builder returning the wrong width indicates a defective builder
// registration, surfaced as a build failure rather than bad inference.
func (d *BuilderDescriptor) BuildFeatures(payload types.Payload) ([]float64, error) {
	vec := d.builder.Build(payload, d.width)
	if len(vec) != d.width {
		return nil, types.NewError(types.ErrFeatureBuild, "builder returned wrong vector width").
			WithSkill(d.builder.Name())
	}
	return vec, nil
}

// Width returns the vector width the descriptor produces.
func (d *BuilderDescriptor) Width() int { return d.width }

// PassthroughDescriptor forwards an already-built vector unchanged.
// Used by tests and by callers that precompute features off-device.
type PassthroughDescriptor struct{}

func (PassthroughDescriptor) BuildFeatures(features []float64) ([]float64, error) {
	return features, nil
}

// TextDescriptor reduces a raw utterance to lexical signals, for
// skills that run directly on transcribed speech.
type TextDescriptor struct {
	Width int
}

func (d TextDescriptor) BuildFeatures(text string) ([]float64, error) {
	width := d.Width
	if width <= 0 {
		width = DefaultVectorWidth
	}
	return features.TextSignals(text, width), nil
}

// EchoRunner returns the features unchanged. The trivial runner used
// for wiring tests and dry routing.
type EchoRunner struct{}

func (EchoRunner) RunSkill(_ context.Context, features []float64) ([]float64, error) {
	return features, nil
}

// RunnerFunc adapts a plain function to a Runner.
type RunnerFunc[F, O any] func(ctx context.Context, features F) (O, error)

func (f RunnerFunc[F, O]) RunSkill(ctx context.Context, features F) (O, error) {
	return f(ctx, features)
}
