package inference

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glasslink/skillrt/features"
	"github.com/glasslink/skillrt/skills"
	"github.com/glasslink/skillrt/types"
)

const hubDefinition = `
skills:
  - id: education_assistant
    builder: education
    width: 16
    triggers: ["homework"]
  - id: retail_scan
    builder: retail
    width: 16
`

func newTestHub(t *testing.T, factory BackendFactory, opts ...HubOption) (*Hub, *skills.Registry) {
	t.Helper()
	registry := skills.NewRegistry(zap.NewNop())
	builders := features.NewDefaultRegistry(zap.NewNop())
	opts = append([]HubOption{WithDefinition([]byte(hubDefinition))}, opts...)
	h := NewHub(registry, builders, factory, zap.NewNop(), opts...)
	require.NoError(t, h.Init())
	return h, registry
}

func echoBackendFactory(string) (Backend, error) {
	return EchoBackend{Width: 16}, nil
}

func TestInitIsIdempotent(t *testing.T) {
	h, registry := newTestHub(t, echoBackendFactory)
	assert.Equal(t, []string{"education_assistant", "retail_scan"}, registry.ListSkills())

	// Second init must not reload or error.
	require.NoError(t, h.Init())
	assert.Equal(t, []string{"education_assistant", "retail_scan"}, registry.ListSkills())
}

func TestSessionIsMemoized(t *testing.T) {
	var created atomic.Int64
	h, _ := newTestHub(t, func(string) (Backend, error) {
		created.Add(1)
		return EchoBackend{Width: 16}, nil
	})

	first, ok := h.Session("education_assistant")
	require.True(t, ok)
	second, ok := h.Session("education_assistant")
	require.True(t, ok)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, created.Load())
}

func TestConcurrentFirstAccessCreatesOneSession(t *testing.T) {
	var created atomic.Int64
	h, _ := newTestHub(t, func(string) (Backend, error) {
		created.Add(1)
		return EchoBackend{Width: 16}, nil
	})

	const callers = 32
	sessions := make([]*Session, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s, ok := h.Session("retail_scan")
			if assert.True(t, ok) {
				sessions[n] = s
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
}

func TestSessionUnregisteredSkill(t *testing.T) {
	h, _ := newTestHub(t, echoBackendFactory)
	s, ok := h.Session("ghost")
	assert.False(t, ok)
	assert.Nil(t, s)
}

func TestIdleModeShortCircuits(t *testing.T) {
	var inferCalls atomic.Int64
	backend := countingBackend{calls: &inferCalls, width: 16}
	h, _ := newTestHub(t, func(string) (Backend, error) { return backend, nil })

	s, ok := h.Session("education_assistant")
	require.True(t, ok)

	h.SetIdleMode(true)
	require.True(t, h.IsIdle())

	out, err := s.Run([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 16), out)
	assert.EqualValues(t, 0, inferCalls.Load(), "idle run must not touch the backend")
	assert.EqualValues(t, 0, s.ActiveCount())
	assert.EqualValues(t, 1, s.SkippedCount())

	// Disabling idle resumes active counting.
	h.SetIdleMode(false)
	_, err = s.Run([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.EqualValues(t, 1, inferCalls.Load())
	assert.EqualValues(t, 1, s.ActiveCount())
	assert.EqualValues(t, 1, s.SkippedCount())
}

type countingBackend struct {
	calls *atomic.Int64
	width int
	fail  bool
}

func (b countingBackend) Infer(features []float64) ([]float64, error) {
	b.calls.Add(1)
	if b.fail {
		return nil, errors.New("backend fault")
	}
	return features, nil
}

func (b countingBackend) OutputWidth() int { return b.width }

func TestFailedRunLeavesSessionReusable(t *testing.T) {
	var calls atomic.Int64
	fail := true
	h, _ := newTestHub(t, func(string) (Backend, error) {
		return flakyBackend{calls: &calls, fail: &fail}, nil
	})

	s, ok := h.Session("retail_scan")
	require.True(t, ok)

	_, err := s.Run([]float64{1})
	require.Error(t, err)

	again, ok := h.Session("retail_scan")
	require.True(t, ok)
	assert.Same(t, s, again)

	fail = false
	out, err := again.Run([]float64{4})
	require.NoError(t, err)
	assert.Equal(t, []float64{4}, out)
}

type flakyBackend struct {
	calls *atomic.Int64
	fail  *bool
}

func (b flakyBackend) Infer(features []float64) ([]float64, error) {
	b.calls.Add(1)
	if *b.fail {
		return nil, errors.New("transient fault")
	}
	return features, nil
}

func (b flakyBackend) OutputWidth() int { return 16 }

func TestFactoryFailureRetriesOnNextAccess(t *testing.T) {
	var attempts atomic.Int64
	h, _ := newTestHub(t, func(string) (Backend, error) {
		if attempts.Add(1) == 1 {
			return nil, errors.New("engine not ready")
		}
		return EchoBackend{Width: 16}, nil
	})

	_, ok := h.Session("education_assistant")
	assert.False(t, ok)

	s, ok := h.Session("education_assistant")
	require.True(t, ok)
	assert.NotNil(t, s)
	assert.EqualValues(t, 2, attempts.Load())
}

func TestConnectionStateIsIndependent(t *testing.T) {
	h, _ := newTestHub(t, echoBackendFactory)

	assert.False(t, h.IsConnected("glasses-01"))
	assert.True(t, h.Connect("glasses-01"))
	assert.True(t, h.IsConnected("glasses-01"))
	assert.False(t, h.IsConnected("glasses-02"))

	// Idle mode does not affect link state.
	h.SetIdleMode(true)
	assert.True(t, h.IsConnected("glasses-01"))

	h.Disconnect("glasses-01")
	assert.False(t, h.IsConnected("glasses-01"))
}

func TestSessionRunnerThroughRegistry(t *testing.T) {
	h, registry := newTestHub(t, echoBackendFactory)

	payload := types.Payload{
		"gradeLevel": types.Int(9),
		"difficulty": types.Int(6),
	}
	out, err := registry.Invoke(context.Background(), "education_assistant", payload)
	require.NoError(t, err)
	vec, ok := out.([]float64)
	require.True(t, ok)
	assert.Len(t, vec, 16)

	// Runner surfaces cancellation before resolving the session.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Runner("education_assistant").RunSkill(ctx, []float64{1})
	assert.ErrorIs(t, err, context.Canceled)
}
