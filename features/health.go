package features

import "github.com/glasslink/skillrt/types"

// HealthBuilder 编码健康/医疗负载：生命体征、步态指标、用药状态与
// 症状文本信号。对应 hc_ 前缀技能，下游决策引擎会附加合规免责声明。
type HealthBuilder struct{}

func (HealthBuilder) Name() string { return "health" }

func (HealthBuilder) Build(p types.Payload, dim int) []float64 {
	symptoms := p.TextOr("symptoms", "")
	heartRate := p.NumberOr("heartRate", 0)

	signals := []float64{
		p.NumberOr("age", 0),
		heartRate,
		p.NumberOr("systolic", 0),
		p.NumberOr("diastolic", 0),
		p.NumberOr("stepsToday", 0),
		p.NumberOr("gaitSymmetry", 0),
		p.NumberOr("strideLengthCm", 0),
		p.Flag("medicationDue"),
		p.Flag("fallDetected"),
		p.Flag("wearingDevice"),
		tokenCount(symptoms),
		lengthBucket(symptoms),
		keywordFlag(symptoms, "dizzy", "头晕", "pain", "疼", "fatigue", "乏力"),
		float64(len(p.List("conditions"))),
	}
	return fit(signals, dim)
}
