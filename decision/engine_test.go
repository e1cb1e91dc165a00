package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"
)

func newEngine() *Engine {
	return NewEngine(DefaultSigmaGates(), zap.NewNop())
}

func TestDecideGate(t *testing.T) {
	e := newEngine()

	// Unknown skill uses the default gate.
	assert.Equal(t, ActionAsk, e.Decide("retail_scan", 0.49, "go").Action)
	assert.Equal(t, ActionProceed, e.Decide("retail_scan", 0.5, "go").Action)
	assert.Equal(t, ActionProceed, e.Decide("retail_scan", 0.51, "go").Action)

	// Tuned health gate: equality meets the gate.
	assert.Equal(t, ActionProceed, e.Decide("hc_gait_guard", 0.82, "").Action)
	assert.Equal(t, ActionAsk, e.Decide("hc_gait_guard", 0.75, "").Action)
}

func TestDecideHealthDisclaimer(t *testing.T) {
	e := newEngine()

	// Health skills always carry the disclaimer, even on empty base
	// messages, regardless of gate outcome.
	out := e.Decide("hc_gait_guard", 0.99, "")
	assert.Contains(t, out.Message, "not medical advice")
	assert.Contains(t, out.Message, "仅供参考")

	out = e.Decide("hc_gait_guard", 0.1, "gait drift detected")
	assert.Contains(t, out.Message, "gait drift detected")
	assert.Contains(t, out.Message, "仅供参考")

	// Non-health skills keep the base message verbatim.
	assert.Equal(t, "checkout ready", e.Decide("retail_scan", 0.9, "checkout ready").Message)
	assert.Equal(t, "", e.Decide("retail_scan", 0.9, "").Message)
}

func TestDecideWithMetadataGateOverride(t *testing.T) {
	e := newEngine()

	// Explicit override takes precedence over the tuned gate.
	out := e.DecideWithMetadata("req-1", "hc_gait_guard", 0.7, map[string]any{SigmaGateKey: 0.6})
	assert.Equal(t, "hc_gait_guard", out.Action)
	assert.Equal(t, 0.6, out.SigmaGate)
	assert.Nil(t, out.ComplianceDisclaimers)

	// Without the override the same confidence falls below the gate.
	out = e.DecideWithMetadata("req-2", "hc_gait_guard", 0.7, nil)
	assert.Equal(t, ActionAsk, out.Action)
	require.NotNil(t, out.ComplianceDisclaimers)
	assert.NotEmpty(t, out.ComplianceDisclaimers["en-US"])
	assert.NotEmpty(t, out.ComplianceDisclaimers["zh-CN"])
}

func TestDecideWithMetadataNonHealth(t *testing.T) {
	e := newEngine()

	// Below gate, non-health: ask, no disclaimers.
	out := e.DecideWithMetadata("req-3", "travel_plan", 0.2, map[string]any{"destination": "杭州"})
	assert.Equal(t, ActionAsk, out.Action)
	assert.Nil(t, out.ComplianceDisclaimers)
	assert.Equal(t, "杭州", out.Metadata["destination"])

	// At gate: the action is the skill name.
	out = e.DecideWithMetadata("req-4", "travel_plan", 0.5, nil)
	assert.Equal(t, "travel_plan", out.Action)
	assert.Nil(t, out.ComplianceDisclaimers)
}

func TestConfidenceNotRangeChecked(t *testing.T) {
	e := newEngine()
	assert.Equal(t, ActionProceed, e.Decide("x", 7.5, "").Action)
	assert.Equal(t, ActionAsk, e.Decide("x", -3, "").Action)
}

// Property: raising confidence never turns a proceed into an ask, and
// the gate used always matches the per-skill table.
func TestDecisionMonotoneProperty(t *testing.T) {
	e := newEngine()
	skillIDs := []string{"hc_gait_guard", "hc_med_reminder", "retail_scan", "travel_plan"}

	rapid.Check(t, func(t *rapid.T) {
		skill := rapid.SampledFrom(skillIDs).Draw(t, "skill")
		lo := rapid.Float64Range(0, 1).Draw(t, "lo")
		hi := rapid.Float64Range(lo, 1).Draw(t, "hi")

		low := e.Decide(skill, lo, "m")
		high := e.Decide(skill, hi, "m")

		if low.Action == ActionProceed {
			require.Equal(t, ActionProceed, high.Action)
		}
		require.Equal(t, e.Gate(skill), low.SigmaGate)
		require.Equal(t, low.SigmaGate, high.SigmaGate)
	})
}
