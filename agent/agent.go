// Package agent 提供任务调度 agent.
//
// Agent 持有按注册顺序排列的任务表，支持两种执行方式：
//
//   - RunOnce：单次扫描，执行所有已启用且从未成功执行过的任务
//   - Run：轮询循环，每轮执行所有就绪任务后等待轮询间隔
//
// 同一 agent 内任务按注册顺序串行执行，任务失败不会中断扫描.
//
// 基本用法:
//
//	a := agent.New(agent.WithConfigFile("automat.yaml"))
//	a.AddTask("hello", task.Action(sayHello), task.WithInterval(5)).
//		AddTask("cleanup", task.Func(cleanup), task.WithCron("0 3 * * *"))
//
//	if err := a.Run(ctx, 0); err != nil {
//		log.Fatal(err)
//	}
//
// 接入链路追踪与指标:
//
//	tp, err := tracing.NewTracer(&tracing.TracingConfig{
//		Enabled: true,
//		OTLP:    &tracing.OTLPConfig{Endpoint: "localhost:4318"},
//	}, "automat", "1.0.0")
//	if err != nil {
//		return err
//	}
//	defer tp.Shutdown(context.Background())
//
//	a := agent.New(
//		agent.WithTracerProvider(tp),
//		agent.WithMetrics(metrics.MustNewMetrics(metrics.DefaultConfig())),
//	)
package agent

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/elvic-group/Automat/logger"
	"github.com/elvic-group/Automat/task"
	"github.com/elvic-group/Automat/tracing"
)

// Agent 任务调度 agent.
type Agent struct {
	name         string
	log          logger.Logger
	document     map[string]any
	pollInterval time.Duration
	opts         *options
	tracer       trace.Tracer

	mu    sync.RWMutex
	tasks []*task.Task

	session sync.Mutex
	running atomic.Bool
	wake    chan struct{}
}

// New 创建 agent.
//
// 配置文件缺失或格式错误不会导致失败，agent 记录警告后使用空配置.
func New(opts ...Option) *Agent {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	doc, loadErr := loadDocument(o)

	log := o.logger
	if log == nil {
		var err error
		log, err = buildLogger(o.name, doc, o.logWriter)
		if err != nil {
			log.Warnf("[Agent] 日志配置无效，使用默认配置: %v", err)
		}
	}

	if loadErr != nil {
		log.With(logger.String("file", o.configFile)).
			Warnf("[Agent] 配置文件不可用，使用默认配置: %v", loadErr)
	}

	a := &Agent{
		name:         o.name,
		log:          log,
		document:     doc,
		pollInterval: o.pollInterval,
		opts:         o,
		wake:         make(chan struct{}, 1),
	}

	if raw, ok := doc[KeyPollInterval]; ok && !o.pollSet {
		d, err := parsePollInterval(raw)
		if err != nil {
			log.Warnf("[Agent] 忽略无效的轮询间隔: %v", err)
		} else {
			a.pollInterval = d
		}
	}

	if o.tracerProvider != nil {
		a.tracer = o.tracerProvider.Tracer(tracing.InstrumentationName)
	}

	return a
}

// Name 返回 agent 名称.
func (a *Agent) Name() string {
	return a.name
}

// Logger 返回 agent 使用的日志记录器.
func (a *Agent) Logger() logger.Logger {
	return a.log
}

// Options 返回配置文档的副本.
func (a *Agent) Options() map[string]any {
	return maps.Clone(a.document)
}

// PollInterval 返回 Run 的轮询间隔.
func (a *Agent) PollInterval() time.Duration {
	return a.pollInterval
}

// AddTask 创建并注册任务，返回 agent 自身以便链式调用.
//
// 任务参数无效时记录错误并忽略该任务.
func (a *Agent) AddTask(name string, action task.Runnable, opts ...task.Option) *Agent {
	t, err := task.New(name, action, opts...)
	if err != nil {
		a.log.With(logger.String("task", name)).Errorf("[Agent] 任务注册失败: %v", err)
		return a
	}
	return a.Register(t)
}

// AddFunc 以普通函数注册任务.
func (a *Agent) AddFunc(name string, fn func(), opts ...task.Option) *Agent {
	if fn == nil {
		return a.AddTask(name, nil, opts...)
	}
	return a.AddTask(name, task.Action(fn), opts...)
}

// Register 注册已创建的任务.
//
// 允许同名任务，执行顺序即注册顺序.
func (a *Agent) Register(t *task.Task) *Agent {
	if t == nil {
		return a
	}

	a.mu.Lock()
	a.tasks = append(a.tasks, t)
	n := len(a.tasks)
	a.mu.Unlock()

	a.log.Infof("[Agent] 任务已添加: %s [interval:%ds]", t.Name(), t.Interval())
	if a.opts.metrics != nil {
		a.opts.metrics.SetRegisteredTasks(n)
	}
	return a
}

// RemoveTask 移除第一个同名任务，不存在时返回 false.
func (a *Agent) RemoveTask(name string) bool {
	a.mu.Lock()
	idx := -1
	for i, t := range a.tasks {
		if t.Name() == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		a.mu.Unlock()
		return false
	}
	a.tasks = append(a.tasks[:idx], a.tasks[idx+1:]...)
	n := len(a.tasks)
	a.mu.Unlock()

	a.log.Infof("[Agent] 任务已移除: %s", name)
	if a.opts.metrics != nil {
		a.opts.metrics.SetRegisteredTasks(n)
	}
	return true
}

// Task 按名称查找第一个匹配的任务.
func (a *Agent) Task(name string) (*task.Task, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, t := range a.tasks {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Len 返回已注册任务数.
func (a *Agent) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.tasks)
}

// TaskStatus 按注册顺序返回所有任务的状态快照.
func (a *Agent) TaskStatus() []task.Snapshot {
	tasks := a.snapshot()
	out := make([]task.Snapshot, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Snapshot())
	}
	return out
}

// History 返回指定任务最近的执行结果.
func (a *Agent) History(name string) []task.Result {
	t, ok := a.Task(name)
	if !ok {
		return nil
	}
	return t.History()
}

// Running 返回 Run 循环是否处于运行状态.
func (a *Agent) Running() bool {
	return a.running.Load()
}

// snapshot 返回任务表的副本，扫描期间不持有锁.
func (a *Agent) snapshot() []*task.Task {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*task.Task, len(a.tasks))
	copy(out, a.tasks)
	return out
}
