package task

import "errors"

// 预定义错误.
var (
	// ErrNameEmpty 任务名称为空.
	ErrNameEmpty = errors.New("task: name is required")

	// ErrActionNil 任务动作为空.
	ErrActionNil = errors.New("task: action is required")

	// ErrIntervalNegative 执行间隔为负数.
	ErrIntervalNegative = errors.New("task: interval must not be negative")
)
