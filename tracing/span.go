package tracing

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName 本模块使用的 tracer 名称.
const InstrumentationName = "github.com/elvic-group/Automat"

// 任务 span 属性键.
const (
	AttrTask    = attribute.Key("automat.task")
	AttrAgent   = attribute.Key("automat.agent")
	AttrMode    = attribute.Key("automat.mode")
	AttrRun     = attribute.Key("automat.run")
	AttrOutcome = attribute.Key("automat.outcome")
)

// StartTask 为一次任务执行创建 span.
func StartTask(ctx context.Context, tracer trace.Tracer, agent, mode, task string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "automat.task/"+task,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			AttrAgent.String(agent),
			AttrMode.String(mode),
			AttrTask.String(task),
		),
	)
}

// EndTask 记录执行结果并结束 span.
//
// errText 为空表示执行成功.
func EndTask(span trace.Span, run int, outcome, errText string) {
	span.SetAttributes(
		AttrRun.Int(run),
		AttrOutcome.String(outcome),
	)
	if errText != "" {
		span.RecordError(errors.New(errText))
		span.SetStatus(codes.Error, errText)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
