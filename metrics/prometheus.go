package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector Prometheus 指标收集器实现.
type PrometheusCollector struct {
	config *Config

	executionsTotal   *prometheus.CounterVec
	executionDuration *prometheus.HistogramVec

	sweepsTotal     *prometheus.CounterVec
	sweepExecuted   *prometheus.GaugeVec
	registeredTasks prometheus.Gauge

	registry *prometheus.Registry
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus 创建 Prometheus 指标收集器.
func NewPrometheus(cfg *Config) (*PrometheusCollector, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "automat"
	}

	var constLabels prometheus.Labels
	if cfg.Agent != "" {
		constLabels = prometheus.Labels{"agent": cfg.Agent}
	}

	// 独立注册表，避免与默认注册表冲突
	registry := prometheus.NewRegistry()

	c := &PrometheusCollector{
		config:   cfg,
		registry: registry,
	}

	c.executionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "task",
			Name:        "executions_total",
			Help:        "Total number of task executions by outcome",
			ConstLabels: constLabels,
		},
		[]string{"task", "outcome"},
	)

	c.executionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "task",
			Name:        "execution_duration_seconds",
			Help:        "Task execution duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
		[]string{"task"},
	)

	c.sweepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "agent",
			Name:        "sweeps_total",
			Help:        "Total number of registry sweeps",
			ConstLabels: constLabels,
		},
		[]string{"mode"},
	)

	c.sweepExecuted = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "agent",
			Name:        "sweep_executed",
			Help:        "Number of tasks executed in the most recent sweep",
			ConstLabels: constLabels,
		},
		[]string{"mode"},
	)

	c.registeredTasks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "agent",
			Name:        "registered_tasks",
			Help:        "Number of tasks in the agent registry",
			ConstLabels: constLabels,
		},
	)

	collectors := []prometheus.Collector{
		c.executionsTotal,
		c.executionDuration,
		c.sweepsTotal,
		c.sweepExecuted,
		c.registeredTasks,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRegisterMetric, err)
		}
	}

	return c, nil
}

// RecordExecution 记录一次任务执行.
func (c *PrometheusCollector) RecordExecution(task, outcome string, duration time.Duration) {
	c.executionsTotal.WithLabelValues(task, outcome).Inc()
	c.executionDuration.WithLabelValues(task).Observe(duration.Seconds())
}

// RecordSweep 记录一轮扫描.
func (c *PrometheusCollector) RecordSweep(mode string, executed int) {
	c.sweepsTotal.WithLabelValues(mode).Inc()
	c.sweepExecuted.WithLabelValues(mode).Set(float64(executed))
}

// SetRegisteredTasks 更新已注册任务数.
func (c *PrometheusCollector) SetRegisteredTasks(n int) {
	c.registeredTasks.Set(float64(n))
}

// Registry 返回底层注册表，便于注册任务自定义的指标.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler 返回 metrics 的 HTTP 处理器.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Path 返回 metrics 路径.
func (c *PrometheusCollector) Path() string {
	if c.config.Path == "" {
		return "/metrics"
	}
	return c.config.Path
}
