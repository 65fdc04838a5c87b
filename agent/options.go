package agent

import (
	"io"
	"os"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/elvic-group/Automat/logger"
	"github.com/elvic-group/Automat/report"
)

// DefaultName 默认 agent 名称.
const DefaultName = "Automat"

// DefaultPollInterval 默认轮询间隔.
const DefaultPollInterval = time.Second

// MetricsRecorder 指标记录接口，metrics.PrometheusCollector 实现了该接口.
type MetricsRecorder interface {
	RecordExecution(task, outcome string, duration time.Duration)
	RecordSweep(mode string, executed int)
	SetRegisteredTasks(n int)
}

// Option agent 配置选项.
type Option func(*options)

// options agent 内部配置.
type options struct {
	name           string
	logger         logger.Logger
	logWriter      io.Writer
	configFile     string
	document       map[string]any
	pollInterval   time.Duration
	pollSet        bool
	hooks          *Hooks
	reporters      []report.Reporter
	metrics        MetricsRecorder
	tracerProvider trace.TracerProvider
	signals        []os.Signal
}

// defaultOptions 返回默认配置.
func defaultOptions() *options {
	return &options{
		name:         DefaultName,
		pollInterval: DefaultPollInterval,
		signals:      []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
}

// WithName 设置 agent 名称，默认 "Automat".
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger 设置日志记录器.
//
// 未设置时按配置文档中的 log_level、log_format 创建.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithLogWriter 设置自动创建的日志记录器的输出目标，默认 stderr.
//
// 与 WithLogger 同时设置时不生效.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) {
		o.logWriter = w
	}
}

// WithConfigFile 从文件加载配置文档.
//
// 文件缺失或格式错误时记录警告并使用空配置.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}

// WithOptions 直接提供配置文档，与文件中的同名键冲突时以此为准.
func WithOptions(doc map[string]any) Option {
	return func(o *options) {
		o.document = doc
	}
}

// WithPollInterval 设置 Run 的轮询间隔，默认 1 秒.
//
// 显式设置时优先于配置文档中的 poll_interval.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
			o.pollSet = true
		}
	}
}

// WithHooks 设置任务钩子.
func WithHooks(hooks *Hooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithReporters 添加结果汇报器.
func WithReporters(reporters ...report.Reporter) Option {
	return func(o *options) {
		o.reporters = append(o.reporters, reporters...)
	}
}

// WithMetrics 设置指标记录器.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracerProvider 为每次任务执行创建 span.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithSignals 设置 Run 监听的中断信号，默认 SIGINT、SIGTERM.
//
// 不传参数表示不监听信号，只能通过 context 或 Stop 结束 Run.
func WithSignals(signals ...os.Signal) Option {
	return func(o *options) {
		o.signals = signals
	}
}
