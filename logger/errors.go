package logger

import "errors"

// ErrNilWriter 输出目标为空.
var ErrNilWriter = errors.New("logger: writer cannot be nil")
