package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glasslink/skillrt/features"
	"github.com/glasslink/skillrt/skills"
	"github.com/glasslink/skillrt/telemetry"
	"github.com/glasslink/skillrt/types"
)

func newTestRouter(t *testing.T) (*Router, *skills.Registry, *telemetry.Sink) {
	t.Helper()
	registry := skills.NewRegistry(zap.NewNop())
	sink := telemetry.NewSink(telemetry.NewMemoryStore(), telemetry.DefaultSamplingConfig(), zap.NewNop())
	return NewRouter(registry, sink, zap.NewNop()), registry, sink
}

func TestRouteUnknownSkill(t *testing.T) {
	r, _, sink := newTestRouter(t)

	res := r.Route(context.Background(), "ghost", types.Payload{})
	require.False(t, res.OK())
	assert.True(t, types.IsCode(res.Err(), types.ErrSkillNotFound))

	events, _ := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "router_ghost_failure", events[0].Name)
	assert.Equal(t, "not_found", events[0].Attr("error_category"))
}

func TestRouteSuccess(t *testing.T) {
	r, registry, sink := newTestRouter(t)
	desc := skills.NewBuilderDescriptor(features.EducationBuilder{}, 64)
	require.NoError(t, skills.Register[types.Payload, []float64, []float64](
		registry, "education_assistant", desc, skills.EchoRunner{}))

	payload := types.Payload{
		"gradeLevel":     types.Int(9),
		"difficulty":     types.Int(6),
		"correctCount":   types.Int(7),
		"incorrectCount": types.Int(2),
	}
	res := r.Route(context.Background(), "education_assistant", payload)
	require.True(t, res.OK())

	vec, ok := res.Value().([]float64)
	require.True(t, ok)
	require.Len(t, vec, 64)
	nonZero := false
	for _, v := range vec {
		if v != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero)

	events, _ := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "router_education_assistant_success", events[0].Name)
	assert.Equal(t, "success", events[0].Attr("outcome"))
}

func TestRouteRunnerFailureWrapsCause(t *testing.T) {
	r, registry, sink := newTestRouter(t)
	cause := errors.New("engine fault")
	boom := skills.RunnerFunc[[]float64, []float64](func(context.Context, []float64) ([]float64, error) {
		return nil, cause
	})
	require.NoError(t, skills.Register[[]float64, []float64, []float64](
		registry, "flaky", skills.PassthroughDescriptor{}, boom))

	res := r.Route(context.Background(), "flaky", []float64{1})
	require.False(t, res.OK())
	assert.True(t, types.IsCode(res.Err(), types.ErrInference))
	assert.ErrorIs(t, res.Err(), cause)

	events, _ := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "router_flaky_failure", events[0].Name)
	assert.Equal(t, "inference", events[0].Attr("error_category"))
}

func TestRoutePayloadTypeMismatch(t *testing.T) {
	r, registry, _ := newTestRouter(t)
	require.NoError(t, skills.Register[[]float64, []float64, []float64](
		registry, "vec_skill", skills.PassthroughDescriptor{}, skills.EchoRunner{}))

	// Wrong payload type surfaces as a typed failure, not a panic.
	res := r.Route(context.Background(), "vec_skill", types.Payload{"a": types.Int(1)})
	require.False(t, res.OK())
	assert.True(t, types.IsCode(res.Err(), types.ErrTypeMismatch))
}

func TestRouteByTrigger(t *testing.T) {
	r, registry, sink := newTestRouter(t)
	desc := skills.NewBuilderDescriptor(features.TravelBuilder{}, 8)
	require.NoError(t, skills.Register[types.Payload, []float64, []float64](
		registry, "travel_plan", desc, skills.EchoRunner{}, "Plan A Trip"))

	res := r.RouteByTrigger(context.Background(), "plan a trip", types.Payload{"days": types.Int(3)})
	require.True(t, res.OK())

	res = r.RouteByTrigger(context.Background(), "unknown words", types.Payload{})
	require.False(t, res.OK())
	assert.True(t, types.IsCode(res.Err(), types.ErrTriggerNotFound))

	events, _ := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "router_travel_plan_success", events[0].Name)
	assert.Equal(t, "router_trigger_miss", events[1].Name)
	assert.Equal(t, "unknown words", events[1].Attr("trigger"))
}

func TestRouteWithSampledOutTelemetry(t *testing.T) {
	registry := skills.NewRegistry(zap.NewNop())
	sink := telemetry.NewSink(telemetry.NewMemoryStore(), telemetry.SamplingConfig{
		Rates:       map[string]float64{"router": 0.0},
		DefaultRate: 1.0,
	}, zap.NewNop())
	r := NewRouter(registry, sink, zap.NewNop())

	res := r.Route(context.Background(), "ghost", types.Payload{})
	require.False(t, res.OK())

	// Routing still fails correctly while the event is sampled out.
	events, _ := sink.Events()
	assert.Empty(t, events)
}
