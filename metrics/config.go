package metrics

// Config 指标配置.
type Config struct {
	// Path 指标暴露路径，默认 /metrics
	Path string `json:"path" yaml:"path" mapstructure:"path"`
	// Namespace 指标命名空间，默认 automat
	Namespace string `json:"namespace" yaml:"namespace" mapstructure:"namespace"`
	// Agent 作为常量标签附加到所有指标，区分同进程内的多个 agent
	Agent string `json:"agent" yaml:"agent" mapstructure:"agent"`
}

// DefaultConfig 返回默认配置.
func DefaultConfig() *Config {
	return &Config{
		Path:      "/metrics",
		Namespace: "automat",
	}
}
