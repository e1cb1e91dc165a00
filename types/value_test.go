package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadDefensiveReads(t *testing.T) {
	p := Payload{
		"count":   Number(3),
		"label":   Text("hello"),
		"active":  Bool(true),
		"tags":    TextList("a", "b"),
		"mistyed": Text("7"),
	}

	assert.Equal(t, 3.0, p.NumberOr("count", -1))
	assert.Equal(t, -1.0, p.NumberOr("missing", -1))
	// Mismatched variant falls back to the default, never converts.
	assert.Equal(t, -1.0, p.NumberOr("mistyed", -1))

	assert.Equal(t, "hello", p.TextOr("label", ""))
	assert.Equal(t, "x", p.TextOr("count", "x"))

	assert.Equal(t, 1.0, p.Flag("active"))
	assert.Equal(t, 0.0, p.Flag("missing"))
	assert.Equal(t, 0.0, p.Flag("count"))

	assert.Equal(t, []string{"a", "b"}, p.List("tags"))
	assert.Nil(t, p.List("label"))

	assert.True(t, p.Has("mistyed"))
	assert.False(t, p.Has("nope"))
	assert.False(t, p.IsEmpty())
	assert.True(t, Payload{}.IsEmpty())
}

func TestValueListIsCopied(t *testing.T) {
	v := TextList("a", "b")
	got, ok := v.TextList()
	require.True(t, ok)
	got[0] = "mutated"

	again, _ := v.TextList()
	assert.Equal(t, "a", again[0])
}

func TestPayloadStringElidesValues(t *testing.T) {
	p := Payload{"secret": Text("do not log me")}
	s := p.String()
	assert.Contains(t, s, "secret:text")
	assert.NotContains(t, s, "do not log me")
}

func TestErrorCodeExtraction(t *testing.T) {
	base := NewError(ErrInference, "backend exploded").WithSkill("retail_scan")
	wrapped := errors.Join(errors.New("outer"), base)

	assert.Equal(t, ErrInference, GetErrorCode(wrapped))
	assert.True(t, IsCode(wrapped, ErrInference))
	assert.Equal(t, "inference", ErrorCategory(wrapped))
	assert.Equal(t, "internal", ErrorCategory(errors.New("plain")))
	assert.Equal(t, "not_found", ErrorCategory(NewError(ErrSkillNotFound, "nope")))
}

func TestResult(t *testing.T) {
	ok := Success([]float64{1, 2})
	require.True(t, ok.OK())
	assert.Equal(t, []float64{1, 2}, ok.Value())
	assert.NoError(t, ok.Err())

	bad := Failure[[]float64](NewError(ErrSkillNotFound, "missing"))
	require.False(t, bad.OK())
	assert.Nil(t, bad.Value())
	assert.True(t, IsCode(bad.Err(), ErrSkillNotFound))
}
