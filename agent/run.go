package agent

import (
	"context"
	"os/signal"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/elvic-group/Automat/logger"
	"github.com/elvic-group/Automat/recovery"
	"github.com/elvic-group/Automat/task"
	"github.com/elvic-group/Automat/tracing"
)

// RunOnce 执行一次扫描.
//
// 按注册顺序执行所有已启用且从未成功执行过的任务，返回本次产生的结果.
// 不考虑间隔，也不会在同一次调用中重新扫描.
func (a *Agent) RunOnce(ctx context.Context) []task.Result {
	a.log.Infof("[Agent] %s 开始单次执行", a.name)
	return a.sweep(ctx, ModeOnce, func(t *task.Task) bool {
		return t.Enabled() && t.NeverRun()
	})
}

// Run 启动轮询循环.
//
// 每轮执行所有 ShouldRun 为 true 的任务，然后等待轮询间隔.
// maxIterations <= 0 表示不限轮数.
// 以下任一情况发生时返回：达到轮数上限、调用 Stop、ctx 取消、收到中断信号.
// 返回前 Running 一定为 false.
// 已有运行中的会话时返回 ErrRunning.
func (a *Agent) Run(ctx context.Context, maxIterations int) error {
	if !a.session.TryLock() {
		return ErrRunning
	}
	defer a.session.Unlock()

	if len(a.opts.signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, a.opts.signals...)
		defer stop()
	}

	a.drainWake()
	a.running.Store(true)
	a.log.With(logger.String("poll", a.pollInterval.String())).
		Infof("[Agent] %s 已启动", a.name)

	defer func() {
		a.running.Store(false)
		a.log.Infof("[Agent] %s 已停止", a.name)
	}()

	for iteration := 0; a.running.Load(); iteration++ {
		if ctx.Err() != nil {
			a.log.Infof("[Agent] %s 被中断", a.name)
			return nil
		}
		if maxIterations > 0 && iteration >= maxIterations {
			return nil
		}

		a.sweep(ctx, ModePoll, (*task.Task).ShouldRun)
		a.wait(ctx)
	}
	return nil
}

// Stop 请求结束 Run 循环.
//
// 正在执行的任务不会被中断，循环在当前任务结束后退出.
// 未运行时调用无副作用.
func (a *Agent) Stop() {
	if a.running.CompareAndSwap(true, false) {
		a.log.Infof("[Agent] %s 正在停止", a.name)
	}
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// wait 等待轮询间隔，Stop 或 ctx 取消时提前返回.
func (a *Agent) wait(ctx context.Context) {
	if !a.running.Load() {
		return
	}

	timer := time.NewTimer(a.pollInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-a.wake:
	case <-ctx.Done():
	}
}

func (a *Agent) drainWake() {
	select {
	case <-a.wake:
	default:
	}
}

// sweep 按注册顺序执行满足 ready 的任务.
func (a *Agent) sweep(ctx context.Context, mode string, ready func(*task.Task) bool) []task.Result {
	var results []task.Result
	for _, t := range a.snapshot() {
		if !ready(t) {
			continue
		}
		if res, ok := a.execute(ctx, mode, t); ok {
			results = append(results, res)
		}
	}

	if a.opts.metrics != nil {
		a.opts.metrics.RecordSweep(mode, len(results))
	}
	return results
}

// execute 执行单个任务并分发结果.
//
// 前置钩子拒绝时返回 false，任务状态保持不变.
func (a *Agent) execute(ctx context.Context, mode string, t *task.Task) (task.Result, bool) {
	tc := &TaskContext{Task: t, Mode: mode}
	ctx = logger.ContextWithTask(ctx, t.Name())
	log := a.log.WithContext(ctx)

	if err := a.opts.hooks.runBefore(ctx, tc); err != nil {
		tc.Skipped = true
		tc.SkipReason = err.Error()
		log.Debugf("[Agent] 前置钩子阻止任务执行: %s [error:%v]", t.Name(), err)
		a.logHookErr(log, "OnSkip", a.opts.hooks.runSkip(ctx, tc))
		return task.Result{}, false
	}

	var span trace.Span
	if a.tracer != nil {
		ctx, span = tracing.StartTask(ctx, a.tracer, a.name, mode, t.Name())
	}

	log.Infof("[Agent] 开始执行任务: %s", t.Name())
	res := t.Execute(ctx)
	tc.Result = res

	if span != nil {
		tracing.EndTask(span, res.Run, string(res.Status), res.Error)
	}

	if res.Succeeded() {
		log.Debugf("[Agent] 任务执行成功: %s [duration:%v]", t.Name(), res.Duration)
	} else {
		log.With(logger.String("error", res.Error)).
			Errorf("[Agent] 任务执行失败: %s", t.Name())
		a.logHookErr(log, "OnError", a.opts.hooks.runError(ctx, tc))
	}

	if a.opts.metrics != nil {
		a.opts.metrics.RecordExecution(t.Name(), string(res.Status), res.Duration)
	}

	for _, r := range a.opts.reporters {
		err := recovery.Call(func() error { return r.Report(ctx, res) })
		if err != nil {
			log.Warnf("[Agent] 结果汇报失败: %s [error:%v]", t.Name(), err)
		}
	}

	a.logHookErr(log, "AfterTask", a.opts.hooks.runAfter(ctx, tc))
	return res, true
}

// logHookErr 记录钩子 panic.
func (a *Agent) logHookErr(log logger.Logger, kind string, err error) {
	if err != nil {
		log.Warnf("[Agent] 钩子执行异常 [hook:%s] [error:%v]", kind, err)
	}
}
