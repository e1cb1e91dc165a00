// Package postprocess 将原始推理输出组装为面向佩戴者的本地化摘要。
// 输出仅用于展示，不参与任何决策。
package postprocess

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Locale keys used in summaries. zh-CN is always present.
const (
	LocaleZH = "zh-CN"
	LocaleEN = "en-US"
)

// Localizer 按技能组合中文（及英文）摘要。未知技能回退到通用摘要，
// 摘要永不为空白。
type Localizer struct {
	logger *zap.Logger
}

// NewLocalizer creates a localizer.
func NewLocalizer(logger *zap.Logger) *Localizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Localizer{logger: logger.With(zap.String("component", "postprocess"))}
}

// PostProcess composes a per-locale summary from the raw output vector
// and contextual metadata.
func (l *Localizer) PostProcess(skillID string, output []float64, metadata map[string]string) map[string]string {
	peak, nonZero := summarize(output)
	meta := func(key, fallback string) string {
		if v, ok := metadata[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	var zh, en string
	switch {
	case strings.HasPrefix(skillID, "education"):
		subject := meta("subject", "本学科")
		zh = fmt.Sprintf("%s练习分析完成，共识别 %d 项学习信号，建议针对薄弱点复习。", subject, nonZero)
		en = fmt.Sprintf("Finished analyzing the %s exercise with %d learning signals.", subject, nonZero)

	case strings.HasPrefix(skillID, "retail"):
		product := meta("product", "该商品")
		zh = fmt.Sprintf("已识别%s，比价信号强度 %.2f，可继续查看优惠。", product, peak)
		en = fmt.Sprintf("Recognized %s with a price signal of %.2f.", product, peak)

	case strings.HasPrefix(skillID, "travel"):
		destination := meta("destination", "目的地")
		zh = fmt.Sprintf("%s行程分析完成，共 %d 项出行要素已纳入规划。", destination, nonZero)
		en = fmt.Sprintf("Trip analysis for %s covered %d planning factors.", destination, nonZero)

	case strings.HasPrefix(skillID, "hc_"):
		zh = fmt.Sprintf("健康监测完成，采集到 %d 项体征信号，详情请在手机端查看。", nonZero)
		en = fmt.Sprintf("Health check finished with %d signals captured.", nonZero)

	case strings.HasPrefix(skillID, "security"):
		zone := meta("zone", "监控区域")
		zh = fmt.Sprintf("%s安防巡检完成，告警信号强度 %.2f。", zone, peak)
		en = fmt.Sprintf("Security sweep of %s finished, alert level %.2f.", zone, peak)

	default:
		// 未知技能：通用摘要，始终包含“技能”一词且非空白。
		l.logger.Debug("postprocess fallback", zap.String("skill", skillID))
		zh = fmt.Sprintf("技能 %s 已执行完成，共产生 %d 项结果信号。", skillID, nonZero)
		en = fmt.Sprintf("Skill %s finished with %d result signals.", skillID, nonZero)
	}

	return map[string]string{LocaleZH: zh, LocaleEN: en}
}

// summarize reduces the vector to its peak magnitude and non-zero
// count.
func summarize(output []float64) (peak float64, nonZero int) {
	for _, v := range output {
		if v != 0 {
			nonZero++
		}
		if v > peak {
			peak = v
		}
	}
	return peak, nonZero
}
