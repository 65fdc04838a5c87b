package task

import (
	"context"
	"time"
)

// Runnable 任务动作.
//
// 返回 error 或发生 panic 均视为本次执行失败.
type Runnable interface {
	Run(ctx context.Context) error
}

// Func 将普通函数适配为 Runnable.
type Func func(ctx context.Context) error

// Run 实现 Runnable.
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}

// Action 将不会失败的无参函数适配为 Runnable.
type Action func()

// Run 实现 Runnable.
func (a Action) Run(context.Context) error {
	a()
	return nil
}

// Status 任务状态.
type Status string

const (
	// StatusPending 尚未执行.
	StatusPending Status = "pending"
	// StatusRunning 执行中.
	StatusRunning Status = "running"
	// StatusCompleted 最近一次执行成功.
	StatusCompleted Status = "completed"
	// StatusFailed 最近一次执行失败.
	StatusFailed Status = "failed"
)

// Outcome 单次执行结果.
type Outcome string

const (
	// OutcomeSuccess 执行成功.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed 执行失败.
	OutcomeFailed Outcome = "failed"
)

// Result 单次执行的结果.
//
// Message 仅在成功时有值，Error 仅在失败时有值，空字符串表示缺省.
type Result struct {
	ID        string        `json:"id"`
	Task      string        `json:"task"`
	Timestamp time.Time     `json:"timestamp"`
	Status    Outcome       `json:"status"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	Run       int           `json:"run"`
	Duration  time.Duration `json:"duration"`
}

// Succeeded 判断是否执行成功.
func (r Result) Succeeded() bool {
	return r.Status == OutcomeSuccess
}

// Snapshot 任务状态的只读投影.
type Snapshot struct {
	Name      string `json:"name"`
	Status    Status `json:"status"`
	Enabled   bool   `json:"enabled"`
	Interval  int    `json:"interval"`
	Schedule  string `json:"schedule,omitempty"`
	RunCount  int    `json:"run_count"`
	LastRun   string `json:"last_run,omitempty"`
	LastError string `json:"last_error,omitempty"`
}
