package postprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEducationSummary(t *testing.T) {
	l := NewLocalizer(zap.NewNop())

	out := l.PostProcess("education_assistant", []float64{9, 6, 7, 2, 0.77}, map[string]string{"subject": "化学"})
	zh := out[LocaleZH]
	require.NotEmpty(t, strings.TrimSpace(zh))
	assert.Contains(t, zh, "化学")
	assert.NotEmpty(t, out[LocaleEN])
}

func TestDomainSummaries(t *testing.T) {
	l := NewLocalizer(zap.NewNop())
	vec := []float64{0.8, 0, 0.3}

	assert.Contains(t, l.PostProcess("retail_scan", vec, map[string]string{"product": "咖啡豆"})[LocaleZH], "咖啡豆")
	assert.Contains(t, l.PostProcess("travel_plan", vec, map[string]string{"destination": "杭州"})[LocaleZH], "杭州")
	assert.Contains(t, l.PostProcess("hc_gait_guard", vec, nil)[LocaleZH], "健康")
	assert.Contains(t, l.PostProcess("security_monitor", vec, nil)[LocaleZH], "安防")
}

func TestUnknownSkillFallback(t *testing.T) {
	l := NewLocalizer(zap.NewNop())

	out := l.PostProcess("mystery_widget", nil, nil)
	zh := out[LocaleZH]
	require.NotEmpty(t, strings.TrimSpace(zh))
	assert.Contains(t, zh, "技能")
	assert.Contains(t, zh, "mystery_widget")
}

func TestMissingMetadataUsesFallbackTerms(t *testing.T) {
	l := NewLocalizer(zap.NewNop())
	out := l.PostProcess("education_assistant", []float64{1}, nil)
	assert.NotEmpty(t, strings.TrimSpace(out[LocaleZH]))
}
