package agent

import (
	"context"
	"errors"

	"github.com/elvic-group/Automat/recovery"
	"github.com/elvic-group/Automat/task"
)

// 扫描模式.
const (
	// ModeOnce RunOnce 触发的扫描.
	ModeOnce = "once"
	// ModePoll Run 轮询触发的扫描.
	ModePoll = "poll"
)

// TaskContext 任务执行上下文.
type TaskContext struct {
	// Task 当前任务.
	Task *task.Task

	// Mode 扫描模式，ModeOnce 或 ModePoll.
	Mode string

	// Result 执行结果（仅在 AfterTask/OnError 中有值）.
	Result task.Result

	// Skipped 是否被跳过.
	Skipped bool

	// SkipReason 跳过原因.
	SkipReason string
}

// BeforeTaskHook 任务执行前回调.
// 返回 error 或发生 panic 将跳过本次执行，且不产生结果.
type BeforeTaskHook func(ctx context.Context, tc *TaskContext) error

// AfterTaskHook 任务执行后回调（无论成功失败）.
type AfterTaskHook func(ctx context.Context, tc *TaskContext)

// OnErrorHook 任务失败回调.
type OnErrorHook func(ctx context.Context, tc *TaskContext)

// OnSkipHook 任务被前置钩子跳过时的回调.
type OnSkipHook func(ctx context.Context, tc *TaskContext)

// Hooks 任务钩子集合.
type Hooks struct {
	BeforeTask []BeforeTaskHook
	AfterTask  []AfterTaskHook
	OnError    []OnErrorHook
	OnSkip     []OnSkipHook
}

// runBefore 依次执行前置钩子，钩子返回错误或 panic 时停止并返回该错误.
func (h *Hooks) runBefore(ctx context.Context, tc *TaskContext) error {
	if h == nil {
		return nil
	}
	for _, hook := range h.BeforeTask {
		if err := recovery.Call(func() error { return hook(ctx, tc) }); err != nil {
			return err
		}
	}
	return nil
}

// runAfter 执行后置钩子，返回各钩子 panic 转换的错误.
func (h *Hooks) runAfter(ctx context.Context, tc *TaskContext) error {
	if h == nil {
		return nil
	}
	return runAll(ctx, tc, h.AfterTask)
}

func (h *Hooks) runError(ctx context.Context, tc *TaskContext) error {
	if h == nil {
		return nil
	}
	return runAll(ctx, tc, h.OnError)
}

func (h *Hooks) runSkip(ctx context.Context, tc *TaskContext) error {
	if h == nil {
		return nil
	}
	return runAll(ctx, tc, h.OnSkip)
}

// runAll 执行全部钩子，单个钩子 panic 不影响后续钩子.
func runAll[H ~func(context.Context, *TaskContext)](ctx context.Context, tc *TaskContext, hooks []H) error {
	var errs []error
	for _, hook := range hooks {
		err := recovery.Call(func() error {
			hook(ctx, tc)
			return nil
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HooksBuilder 钩子构建器.
type HooksBuilder struct {
	hooks *Hooks
}

// NewHooks 创建钩子构建器.
func NewHooks() *HooksBuilder {
	return &HooksBuilder{hooks: &Hooks{}}
}

// BeforeTask 添加前置钩子.
func (b *HooksBuilder) BeforeTask(hook BeforeTaskHook) *HooksBuilder {
	b.hooks.BeforeTask = append(b.hooks.BeforeTask, hook)
	return b
}

// AfterTask 添加后置钩子.
func (b *HooksBuilder) AfterTask(hook AfterTaskHook) *HooksBuilder {
	b.hooks.AfterTask = append(b.hooks.AfterTask, hook)
	return b
}

// OnError 添加失败钩子.
func (b *HooksBuilder) OnError(hook OnErrorHook) *HooksBuilder {
	b.hooks.OnError = append(b.hooks.OnError, hook)
	return b
}

// OnSkip 添加跳过钩子.
func (b *HooksBuilder) OnSkip(hook OnSkipHook) *HooksBuilder {
	b.hooks.OnSkip = append(b.hooks.OnSkip, hook)
	return b
}

// Build 构建钩子.
func (b *HooksBuilder) Build() *Hooks {
	return b.hooks
}
