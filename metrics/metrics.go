// Package metrics 提供任务执行的 Prometheus 指标收集功能.
//
// 指标：
//   - <ns>_task_executions_total{task,outcome}
//   - <ns>_task_execution_duration_seconds{task}
//   - <ns>_agent_sweeps_total{mode}
//   - <ns>_agent_sweep_executed{mode}
//   - <ns>_agent_registered_tasks
package metrics

import (
	"net/http"
	"time"
)

// Collector 指标收集器接口.
type Collector interface {
	// RecordExecution 记录一次任务执行.
	RecordExecution(task, outcome string, duration time.Duration)

	// RecordSweep 记录一轮扫描及其中执行的任务数.
	RecordSweep(mode string, executed int)

	// SetRegisteredTasks 更新已注册任务数.
	SetRegisteredTasks(n int)

	// Handler 返回指标的 HTTP 处理器.
	Handler() http.Handler
	Path() string
}

// NewMetrics 创建指标收集器.
func NewMetrics(cfg *Config) (*PrometheusCollector, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	return NewPrometheus(cfg)
}

// MustNewMetrics 创建指标收集器，失败时 panic.
func MustNewMetrics(cfg *Config) *PrometheusCollector {
	c, err := NewMetrics(cfg)
	if err != nil {
		panic(err)
	}
	return c
}
