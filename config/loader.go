// =============================================================================
// 📦 SkillRT 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("skillrt.yaml").
//	    WithEnvPrefix("SKILLRT").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是技能运行时的完整配置结构
type Config struct {
	// Skills 技能注册配置
	Skills SkillsConfig `yaml:"skills" env:"SKILLS"`

	// Inference 推理中枢配置
	Inference InferenceConfig `yaml:"inference" env:"INFERENCE"`

	// Telemetry 遥测采样与落盘配置
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`

	// Decision 置信度门限配置
	Decision DecisionConfig `yaml:"decision" env:"DECISION"`

	// Tracing 链路追踪配置
	Tracing TracingConfig `yaml:"tracing" env:"TRACING"`

	// Log 日志配置
	Log LogConfig `yaml:"log" env:"LOG"`
}

// SkillsConfig 技能注册配置
type SkillsConfig struct {
	// 技能定义文档路径（YAML 或 JSON）
	DefinitionPath string `yaml:"definition_path" env:"DEFINITION_PATH"`
	// 默认特征向量宽度
	DefaultWidth int `yaml:"default_width" env:"DEFAULT_WIDTH"`
	// 清单验签公钥（base64，技能包安装时使用）
	ManifestPublicKey string `yaml:"manifest_public_key" env:"MANIFEST_PUBLIC_KEY"`
}

// InferenceConfig 推理中枢配置
type InferenceConfig struct {
	// 启动时是否处于低功耗空闲模式
	IdleOnStart bool `yaml:"idle_on_start" env:"IDLE_ON_START"`
	// 会话创建超时
	SessionTimeout time.Duration `yaml:"session_timeout" env:"SESSION_TIMEOUT"`
}

// TelemetryConfig 遥测配置
type TelemetryConfig struct {
	// 存储类型: memory, file, sqlite
	Store string `yaml:"store" env:"STORE"`
	// file/sqlite 存储路径
	Path string `yaml:"path" env:"PATH"`
	// 未命中类别时的默认采样率
	DefaultRate float64 `yaml:"default_rate" env:"DEFAULT_RATE"`
	// 按事件类别前缀的采样率
	Rates map[string]float64 `yaml:"rates" env:"-"`
}

// DecisionConfig 决策门限配置
type DecisionConfig struct {
	// 未配置技能的默认 sigma 门限
	DefaultGate float64 `yaml:"default_gate" env:"DEFAULT_GATE"`
	// 按技能的门限覆盖
	Gates map[string]float64 `yaml:"gates" env:"-"`
}

// TracingConfig 链路追踪配置
type TracingConfig struct {
	// 是否启用
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// OTLP gRPC 端点
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	// 服务名称
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
	// 采样率
	SampleRate float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志级别: debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// 输出格式: json, console
	Format string `yaml:"format" env:"FORMAT"`
	// 输出路径
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// Loader 配置加载器（Builder 模式）
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader 创建新的配置加载器
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "SKILLRT",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath 设置配置文件路径
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix 设置环境变量前缀
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator 添加配置验证器
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load 加载配置
// 优先级: 默认值 → YAML 文件 → 环境变量
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

// loadFromFile 从 YAML 文件加载配置；文件不存在时沿用默认值
func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// setFieldsFromEnv 递归设置结构体字段
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

// setFieldValue 设置字段值
func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// 特殊处理 time.Duration
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// 支持逗号分隔的字符串切片
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// MustLoad 加载配置，失败时 panic
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Validate 验证配置
func (c *Config) Validate() error {
	var errs []string

	switch c.Telemetry.Store {
	case "memory", "file", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("unknown telemetry store %q", c.Telemetry.Store))
	}
	if c.Telemetry.Store != "memory" && c.Telemetry.Path == "" {
		errs = append(errs, "telemetry path is required for file/sqlite stores")
	}
	if c.Telemetry.DefaultRate < 0 || c.Telemetry.DefaultRate > 1 {
		errs = append(errs, "telemetry default_rate must be within [0, 1]")
	}
	for category, rate := range c.Telemetry.Rates {
		if rate < 0 || rate > 1 {
			errs = append(errs, fmt.Sprintf("telemetry rate for %q must be within [0, 1]", category))
		}
	}
	if c.Skills.DefaultWidth <= 0 {
		errs = append(errs, "skills default_width must be positive")
	}
	if c.Decision.DefaultGate < 0 || c.Decision.DefaultGate > 1 {
		errs = append(errs, "decision default_gate must be within [0, 1]")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
