// Package schedule 提供任务就绪判定所用的调度规则.
//
// 两种规则：
//   - Every: 距上次成功执行的间隔达到指定秒数
//   - Cron: 5 段或带秒的 6 段 Cron 表达式，以及 @every/@hourly 等描述符
//
// 示例:
//
//	s, err := schedule.Cron("*/5 * * * *")
//	if err != nil {
//	    return err
//	}
//	if s.Due(lastRun, time.Now()) {
//	    // 执行任务
//	}
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// 预定义错误.
var (
	// ErrExprEmpty 调度表达式为空.
	ErrExprEmpty = errors.New("schedule: expression is required")

	// ErrExprInvalid 无效的调度表达式.
	ErrExprInvalid = errors.New("schedule: invalid expression")
)

// Schedule 调度规则.
type Schedule interface {
	// Due 判断上次成功执行时间为 last 的任务在 now 时刻是否到期.
	Due(last, now time.Time) bool

	// String 返回规则的文本形式.
	String() string
}

// interval 固定间隔规则.
type interval struct {
	seconds int
}

// Every 返回固定间隔规则.
//
// seconds 为 0 时任何时刻都到期，是否只执行一次由任务自身决定.
func Every(seconds int) Schedule {
	if seconds < 0 {
		seconds = 0
	}
	return interval{seconds: seconds}
}

func (i interval) Due(last, now time.Time) bool {
	return now.Sub(last) >= time.Duration(i.seconds)*time.Second
}

func (i interval) String() string {
	return fmt.Sprintf("@every %ds", i.seconds)
}

// parser 秒字段可选，同时接受 5 段与 6 段表达式.
var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// cronSchedule Cron 表达式规则.
type cronSchedule struct {
	expr  string
	sched cron.Schedule
}

// Cron 解析 Cron 表达式.
func Cron(expr string) (Schedule, error) {
	if expr == "" {
		return nil, ErrExprEmpty
	}

	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrExprInvalid, expr, err)
	}

	return &cronSchedule{expr: expr, sched: sched}, nil
}

// MustCron 解析 Cron 表达式，失败时 panic.
func MustCron(expr string) Schedule {
	s, err := Cron(expr)
	if err != nil {
		panic(err)
	}
	return s
}

func (c *cronSchedule) Due(last, now time.Time) bool {
	return !now.Before(c.sched.Next(last))
}

func (c *cronSchedule) String() string {
	return c.expr
}

// Next 返回规则在 t 之后的下一次到期时间.
//
// 非本包创建的规则返回 false.
func Next(s Schedule, t time.Time) (time.Time, bool) {
	switch v := s.(type) {
	case *cronSchedule:
		return v.sched.Next(t), true
	case interval:
		return t.Add(time.Duration(v.seconds) * time.Second), true
	default:
		return time.Time{}, false
	}
}
