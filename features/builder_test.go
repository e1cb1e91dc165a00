package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/glasslink/skillrt/types"
)

// domainPayloads holds one non-trivial payload per shipped builder.
func domainPayloads() map[string]types.Payload {
	return map[string]types.Payload{
		"education": {
			"gradeLevel":   types.Int(9),
			"difficulty":   types.Int(6),
			"correctCount": types.Int(7),
			"question":     types.Text("why does sodium react with water"),
		},
		"retail": {
			"price":   types.Number(19.9),
			"product": types.Text("wireless earbuds on sale"),
		},
		"travel": {
			"destination": types.Text("mountain lake with museum nearby"),
			"days":        types.Int(5),
			"budget":      types.Number(4200),
		},
		"logistics": {
			"distanceKm": types.Number(120.5),
			"weightKg":   types.Number(8),
			"express":    types.Bool(true),
		},
		"health": {
			"heartRate":    types.Int(72),
			"gaitSymmetry": types.Number(0.93),
			"symptoms":     types.Text("slight dizziness after walking"),
		},
		"agriculture": {
			"areaHectares": types.Number(3.5),
			"soilMoisture": types.Number(0.4),
			"crops":        types.TextList("rice", "corn"),
		},
		"energy": {
			"usageKwh":    types.Number(14.2),
			"baselineKwh": types.Number(11),
			"peakWindow":  types.Bool(true),
		},
		"security": {
			"motionEvents": types.Int(4),
			"armed":        types.Bool(true),
			"alert":        types.Text("glass break in zone 2"),
		},
		"entertainment": {
			"watchMinutes": types.Int(95),
			"title":        types.Text("live concert stream"),
			"genres":       types.TextList("drama", "sci-fi"),
		},
		"manufacturing": {
			"unitsProduced": types.Int(1200),
			"defects":       types.Int(7),
			"lineSpeed":     types.Number(45),
		},
		"hospitality": {
			"partySize": types.Int(4),
			"request":   types.Text("late checkout and allergy friendly menu"),
		},
	}
}

func TestBuildersProduceExactWidth(t *testing.T) {
	reg := NewDefaultRegistry(zap.NewNop())
	payloads := domainPayloads()

	for _, name := range reg.Names() {
		b, ok := reg.Get(name)
		require.True(t, ok, name)
		payload, ok := payloads[name]
		require.True(t, ok, "missing fixture payload for %s", name)

		for _, dim := range []int{8, 32, 64} {
			vec := b.Build(payload, dim)
			assert.Len(t, vec, dim, "%s dim=%d", name, dim)
		}
	}
}

func TestBuildersNonZeroOnDomainPayload(t *testing.T) {
	reg := NewDefaultRegistry(zap.NewNop())
	for name, payload := range domainPayloads() {
		b, ok := reg.Get(name)
		require.True(t, ok, name)

		vec := b.Build(payload, 32)
		nonZero := false
		for _, v := range vec {
			if v != 0 {
				nonZero = true
				break
			}
		}
		assert.True(t, nonZero, "builder %s produced all-zero vector", name)
	}
}

func TestBuildersZeroPadAndFold(t *testing.T) {
	b := EducationBuilder{}
	payload := domainPayloads()["education"]

	// Width larger than the signal count: tail must be zero-padded.
	wide := b.Build(payload, 64)
	require.Len(t, wide, 64)
	assert.Equal(t, 0.0, wide[63])

	// Width smaller than the signal count: nothing is dropped, excess
	// folds into earlier slots, so the vector stays non-zero.
	narrow := b.Build(payload, 2)
	require.Len(t, narrow, 2)
	assert.NotEqual(t, [2]float64{}, [2]float64{narrow[0], narrow[1]})
}

func TestBuilderEmptyPayloadStillExactWidth(t *testing.T) {
	reg := NewDefaultRegistry(zap.NewNop())
	for _, name := range reg.Names() {
		b, _ := reg.Get(name)
		vec := b.Build(types.Payload{}, 16)
		assert.Len(t, vec, 16, name)
	}
}

func TestRegistryRegisterAndNames(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	_, ok := reg.Get("education")
	require.False(t, ok)

	reg.Register(EducationBuilder{})
	got, ok := reg.Get("education")
	require.True(t, ok)
	assert.Equal(t, "education", got.Name())
	assert.Equal(t, []string{"education"}, reg.Names())
}

// Property: identical payload and width always yield identical vectors.
func TestBuilderDeterminismProperty(t *testing.T) {
	b := EducationBuilder{}
	rapid.Check(t, func(t *rapid.T) {
		payload := types.Payload{
			"gradeLevel":     types.Int(rapid.IntRange(1, 12).Draw(t, "grade")),
			"difficulty":     types.Int(rapid.IntRange(0, 10).Draw(t, "difficulty")),
			"correctCount":   types.Int(rapid.IntRange(0, 50).Draw(t, "correct")),
			"incorrectCount": types.Int(rapid.IntRange(0, 50).Draw(t, "incorrect")),
			"question":       types.Text(rapid.StringN(0, 80, 80).Draw(t, "question")),
			"homeworkMode":   types.Bool(rapid.Bool().Draw(t, "homework")),
		}
		dim := rapid.SampledFrom([]int{8, 32, 64}).Draw(t, "dim")

		first := b.Build(payload, dim)
		second := b.Build(payload, dim)
		require.Len(t, first, dim)
		require.Equal(t, first, second)
	})
}
