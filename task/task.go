// Package task 提供单个调度任务的状态机.
//
// Task 持有名称、启用标志、执行间隔以及运行状态（上次成功时间、执行次数、状态），
// 负责就绪判定（ShouldRun）与"执行并汇报"（Execute）。
//
// 状态迁移：
//
//	pending|completed|failed -> running      Execute 开始
//	running -> completed                     动作成功，记录上次执行时间
//	running -> failed                        动作失败，上次执行时间保持不变
//
// 执行次数在每次 Execute 后加一，无论成功失败.
// 失败不会消耗"只执行一次"任务的执行机会，ShouldRun 在失败后仍返回 true.
package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elvic-group/Automat/recovery"
	"github.com/elvic-group/Automat/schedule"
)

// Task 调度任务.
type Task struct {
	name     string
	action   Runnable
	interval int
	cron     schedule.Schedule
	enabled  bool
	now      func() time.Time

	mu        sync.RWMutex
	lastRun   time.Time
	hasRun    bool
	runCount  int
	status    Status
	lastError string

	history     []Result
	historySize int
}

// New 创建任务.
func New(name string, action Runnable, opts ...Option) (*Task, error) {
	if name == "" {
		return nil, ErrNameEmpty
	}
	if isNilAction(action) {
		return nil, ErrActionNil
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.interval < 0 {
		return nil, fmt.Errorf("%w: %d", ErrIntervalNegative, o.interval)
	}

	t := &Task{
		name:        name,
		action:      action,
		interval:    o.interval,
		enabled:     o.enabled,
		now:         o.now,
		status:      StatusPending,
		historySize: o.historySize,
	}

	if o.cronExpr != "" {
		sched, err := schedule.Cron(o.cronExpr)
		if err != nil {
			return nil, err
		}
		t.cron = sched
	}

	return t, nil
}

// isNilAction 判断动作是否为空，包括包装了 nil 函数的 Func 与 Action.
func isNilAction(action Runnable) bool {
	switch a := action.(type) {
	case nil:
		return true
	case Func:
		return a == nil
	case Action:
		return a == nil
	default:
		return false
	}
}

// MustNew 创建任务，失败时 panic.
func MustNew(name string, action Runnable, opts ...Option) *Task {
	t, err := New(name, action, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name 返回任务名称.
func (t *Task) Name() string {
	return t.name
}

// Interval 返回执行间隔（秒），0 表示只执行一次.
func (t *Task) Interval() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.interval
}

// SetInterval 修改执行间隔.
func (t *Task) SetInterval(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: %d", ErrIntervalNegative, seconds)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = seconds
	return nil
}

// Enabled 返回任务是否启用.
func (t *Task) Enabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// SetEnabled 启用或禁用任务.
func (t *Task) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

// Status 返回当前状态.
func (t *Task) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// RunCount 返回执行次数.
func (t *Task) RunCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.runCount
}

// LastRun 返回上次成功执行的时间，从未成功时第二个返回值为 false.
func (t *Task) LastRun() (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastRun, t.hasRun
}

// NeverRun 判断任务是否从未成功执行.
func (t *Task) NeverRun() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.hasRun
}

// LastError 返回最近一次执行的错误描述，最近一次成功时为空.
func (t *Task) LastError() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastError
}

// ShouldRun 判断任务当前是否就绪.
func (t *Task) ShouldRun() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.enabled {
		return false
	}
	if !t.hasRun {
		return true
	}

	sched := t.cron
	if sched == nil {
		if t.interval == 0 {
			return false
		}
		sched = schedule.Every(t.interval)
	}
	return sched.Due(t.lastRun, t.now())
}

// Execute 执行一次任务动作并返回结果.
//
// 动作的错误与 panic 都被转换为 failed 结果，不会传播给调用方.
func (t *Task) Execute(ctx context.Context) Result {
	t.mu.Lock()
	t.status = StatusRunning
	started := t.now()
	t.mu.Unlock()

	begin := time.Now()
	err := recovery.Call(func() error {
		return t.action.Run(ctx)
	})
	elapsed := time.Since(begin)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.runCount++
	res := Result{
		ID:        uuid.NewString(),
		Task:      t.name,
		Timestamp: started,
		Run:       t.runCount,
		Duration:  elapsed,
	}

	if err != nil {
		t.status = StatusFailed
		t.lastError = err.Error()
		res.Status = OutcomeFailed
		res.Error = err.Error()
	} else {
		t.lastRun = t.now()
		t.hasRun = true
		t.status = StatusCompleted
		t.lastError = ""
		res.Status = OutcomeSuccess
		res.Message = fmt.Sprintf("Task completed successfully (run #%d)", t.runCount)
	}

	t.record(res)
	return res
}

// record 追加执行历史，超出容量时丢弃最早的记录.
func (t *Task) record(res Result) {
	if t.historySize <= 0 {
		return
	}
	if len(t.history) >= t.historySize {
		copy(t.history, t.history[1:])
		t.history = t.history[:len(t.history)-1]
	}
	t.history = append(t.history, res)
}

// History 返回最近的执行结果，按时间先后排列.
func (t *Task) History() []Result {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Result, len(t.history))
	copy(out, t.history)
	return out
}

// Snapshot 返回任务状态投影.
func (t *Task) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Snapshot{
		Name:      t.name,
		Status:    t.status,
		Enabled:   t.enabled,
		Interval:  t.interval,
		RunCount:  t.runCount,
		LastError: t.lastError,
	}
	if t.cron != nil {
		s.Schedule = t.cron.String()
	}
	if t.hasRun {
		s.LastRun = t.lastRun.Format(time.RFC3339Nano)
	}
	return s
}
