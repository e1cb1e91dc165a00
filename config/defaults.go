// =============================================================================
// 📦 SkillRT 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Skills:    DefaultSkillsConfig(),
		Inference: DefaultInferenceConfig(),
		Telemetry: DefaultTelemetryConfig(),
		Decision:  DefaultDecisionConfig(),
		Tracing:   DefaultTracingConfig(),
		Log:       DefaultLogConfig(),
	}
}

// DefaultSkillsConfig 返回默认技能配置
func DefaultSkillsConfig() SkillsConfig {
	return SkillsConfig{
		DefinitionPath: "skills.yaml",
		DefaultWidth:   64,
	}
}

// DefaultInferenceConfig 返回默认推理配置
func DefaultInferenceConfig() InferenceConfig {
	return InferenceConfig{
		IdleOnStart:    false,
		SessionTimeout: 10 * time.Second,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Store:       "memory",
		DefaultRate: 1.0,
		Rates: map[string]float64{
			"router":   0.1,
			"share_in": 1.0,
			"tts":      0.05,
		},
	}
}

// DefaultDecisionConfig 返回默认决策配置
func DefaultDecisionConfig() DecisionConfig {
	return DecisionConfig{
		DefaultGate: 0.5,
		Gates: map[string]float64{
			"hc_gait_guard":    0.82,
			"hc_med_reminder":  0.90,
			"hc_fall_watch":    0.88,
			"security_monitor": 0.70,
		},
	}
}

// DefaultTracingConfig 返回默认追踪配置
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "skillrt",
		SampleRate:   1.0,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{"stdout"},
	}
}
