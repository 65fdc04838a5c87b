package task

import "time"

// Option 任务配置选项.
type Option func(*options)

// options 任务内部配置.
type options struct {
	interval    int
	enabled     bool
	cronExpr    string
	now         func() time.Time
	historySize int
}

// defaultOptions 返回默认配置.
func defaultOptions() *options {
	return &options{
		enabled:     true,
		now:         time.Now,
		historySize: 10,
	}
}

// WithInterval 设置执行间隔（秒）.
//
// 0 表示只执行一次，默认: 0.
func WithInterval(seconds int) Option {
	return func(o *options) {
		o.interval = seconds
	}
}

// WithEnabled 设置是否启用，默认: 启用.
func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.enabled = enabled
	}
}

// Disabled 创建禁用状态的任务.
func Disabled() Option {
	return WithEnabled(false)
}

// WithCron 使用 Cron 表达式代替固定间隔判定就绪.
//
// 示例: "*/5 * * * *"、"@every 30s"、"@daily".
func WithCron(expr string) Option {
	return func(o *options) {
		o.cronExpr = expr
	}
}

// WithClock 设置时间源，默认 time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithHistorySize 设置保留的执行历史条数.
//
// 0 表示不保留，默认: 10.
func WithHistorySize(n int) Option {
	return func(o *options) {
		o.historySize = n
	}
}
