// Package decision gates skill actions on confidence. Below the
// skill's sigma gate the runtime asks the wearer instead of acting;
// health skills additionally carry regulatory disclaimers.
package decision

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultSigmaGate applies to skills with no explicit threshold.
const DefaultSigmaGate = 0.5

// HealthSkillPrefix marks regulated health-domain skills.
const HealthSkillPrefix = "hc_"

// Actions for gated decisions. Metadata mode surfaces the skill name
// itself instead of ActionProceed when the gate is met.
const (
	ActionAsk     = "ask"
	ActionProceed = "proceed"
)

// Bilingual regulatory disclaimer texts. 健康类技能输出仅供参考，
// 文案经合规审核，勿改写。
const (
	disclaimerEN = "This result is informational only and is not medical advice. Consult a healthcare professional."
	disclaimerZH = "此结果仅供参考，不构成医疗建议。请咨询专业医务人员。"
)

// DefaultSigmaGates returns the shipped per-skill thresholds. Health
// skills are individually tuned stricter than the default.
func DefaultSigmaGates() map[string]float64 {
	return map[string]float64{
		"hc_gait_guard":    0.82,
		"hc_med_reminder":  0.90,
		"hc_fall_watch":    0.88,
		"security_monitor": 0.70,
	}
}

// Outcome is the simple-mode decision: an action verb, the message to
// surface, and the gate that was applied. Created fresh per call.
type Outcome struct {
	Action     string  `json:"action"`
	Message    string  `json:"message"`
	Confidence float64 `json:"confidence"`
	SigmaGate  float64 `json:"sigma_gate"`
}

// MetaOutcome is the metadata-rich decision consumed by the action
// dispatcher. Below-gate health decisions carry structured compliance
// disclaimers keyed by locale.
type MetaOutcome struct {
	ID                    string            `json:"id"`
	SkillID               string            `json:"skill_id"`
	Action                string            `json:"action"`
	Confidence            float64           `json:"confidence"`
	SigmaGate             float64           `json:"sigma_gate"`
	Metadata              map[string]any    `json:"metadata,omitempty"`
	ComplianceDisclaimers map[string]string `json:"complianceDisclaimers,omitempty"`
}

// Engine resolves per-skill sigma gates. Gates are immutable after
// construction; every decision only reads them.
type Engine struct {
	gates       map[string]float64
	defaultGate float64
	logger      *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDefaultGate overrides the fallback gate for skills with no
// explicit entry.
func WithDefaultGate(gate float64) EngineOption {
	return func(e *Engine) { e.defaultGate = gate }
}

// NewEngine creates an engine with the given per-skill gates. Pass
// DefaultSigmaGates() for the shipped tuning; nil means every skill
// uses the default gate.
func NewEngine(gates map[string]float64, logger *zap.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	copied := make(map[string]float64, len(gates))
	for k, v := range gates {
		copied[k] = v
	}
	e := &Engine{
		gates:       copied,
		defaultGate: DefaultSigmaGate,
		logger:      logger.With(zap.String("component", "decision_engine")),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Gate returns the sigma gate for a skill, the default gate when the
// skill has no explicit entry.
func (e *Engine) Gate(skillID string) float64 {
	if g, ok := e.gates[skillID]; ok {
		return g
	}
	return e.defaultGate
}

// IsHealthSkill reports whether the skill is a regulated health skill.
func IsHealthSkill(skillID string) bool {
	return strings.HasPrefix(skillID, HealthSkillPrefix)
}

// Decide gates the action in simple mode. Confidence equal to the gate
// meets it. Health skills always get the bilingual disclaimer appended
// to the message; other skills keep the base message verbatim.
// Confidence is not range-checked; the comparison is well-defined for
// any real value.
func (e *Engine) Decide(skillID string, confidence float64, baseMessage string) Outcome {
	gate := e.Gate(skillID)
	action := ActionProceed
	if confidence < gate {
		action = ActionAsk
	}

	message := baseMessage
	if IsHealthSkill(skillID) {
		if message != "" {
			message += "\n"
		}
		message += disclaimerEN + "\n" + disclaimerZH
	}

	e.logger.Debug("decision",
		zap.String("skill", skillID),
		zap.String("action", action),
		zap.Float64("confidence", confidence),
		zap.Float64("gate", gate),
	)
	return Outcome{Action: action, Message: message, Confidence: confidence, SigmaGate: gate}
}

// SigmaGateKey is the metadata key carrying an explicit gate override.
const SigmaGateKey = "sigmaGate"

// DecideWithMetadata gates the action in metadata mode. An explicit
// sigmaGate entry in metadata overrides the per-skill gate. When the
// gate is met the action is the skill name itself, a positive
// identifier for downstream consumers; below the gate the action is
// "ask" and health skills carry locale-keyed compliance disclaimers.
func (e *Engine) DecideWithMetadata(id, skillID string, confidence float64, metadata map[string]any) MetaOutcome {
	gate := e.Gate(skillID)
	if metadata != nil {
		if v, ok := metadata[SigmaGateKey]; ok {
			if f, ok := v.(float64); ok {
				gate = f
			}
		}
	}

	out := MetaOutcome{
		ID:         id,
		SkillID:    skillID,
		Confidence: confidence,
		SigmaGate:  gate,
		Metadata:   metadata,
	}
	if confidence >= gate {
		out.Action = skillID
		return out
	}

	out.Action = ActionAsk
	if IsHealthSkill(skillID) {
		out.ComplianceDisclaimers = map[string]string{
			"en-US": disclaimerEN,
			"zh-CN": disclaimerZH,
		}
	}
	return out
}
