// Package report 提供任务执行结果的汇报实现.
//
// 汇报器在每次任务执行后被 agent 调用，用于把结果转发给日志、消息通道等外部消费者.
// 汇报失败只会被记录，不会影响任务的调度.
//
// 示例:
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	a := agent.New(
//	    agent.WithReporters(
//	        report.NewLogReporter(log),
//	        report.NewRedisReporter(client, report.WithChannel("automat:results")),
//	    ),
//	)
package report

import (
	"context"

	"github.com/elvic-group/Automat/task"
)

// Reporter 结果汇报器.
type Reporter interface {
	Report(ctx context.Context, res task.Result) error
}

// Func 将普通函数适配为 Reporter.
type Func func(ctx context.Context, res task.Result) error

// Report 实现 Reporter.
func (f Func) Report(ctx context.Context, res task.Result) error {
	return f(ctx, res)
}
