package report

import (
	"context"

	"github.com/elvic-group/Automat/logger"
	"github.com/elvic-group/Automat/task"
)

// LogReporter 把执行结果写入日志.
type LogReporter struct {
	log logger.Logger
}

// NewLogReporter 创建日志汇报器.
func NewLogReporter(log logger.Logger) *LogReporter {
	if log == nil {
		panic("report: 日志记录器不能为空")
	}
	return &LogReporter{log: log}
}

// Report 成功结果记为 info，失败结果记为 warn.
func (r *LogReporter) Report(ctx context.Context, res task.Result) error {
	log := r.log.WithContext(logger.ContextWithTask(ctx, res.Task))
	fields := []logger.Field{
		logger.String("status", string(res.Status)),
		logger.Int("run", res.Run),
		logger.Duration("duration", res.Duration),
	}

	if res.Succeeded() {
		log.With(fields...).Info(res.Message)
		return nil
	}

	fields = append(fields, logger.String("error", res.Error))
	log.With(fields...).Warn("[Report] 任务执行失败")
	return nil
}
