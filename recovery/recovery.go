// Package recovery 把任务动作中的 panic 转换为普通错误.
//
// agent 在执行任务时通过 Call 调用动作，panic 会被捕获为 *PanicError，
// 与动作返回的错误一样记录为任务失败，不会中断整轮调度.
package recovery

import (
	"fmt"
	"runtime"
)

// Handler 是 panic 处理函数，返回值替代默认的 *PanicError.
type Handler func(p any, stack []byte) error

// Options 配置选项.
type Options struct {
	// Handler 自定义 panic 处理函数.
	Handler Handler

	// StackSize 堆栈大小，默认 64KB.
	StackSize int

	// StackAll 是否捕获所有 goroutine 的堆栈，默认 false.
	StackAll bool
}

// Option 是配置函数.
type Option func(*Options)

// WithHandler 设置自定义 panic 处理函数.
func WithHandler(h Handler) Option {
	return func(o *Options) {
		o.Handler = h
	}
}

// WithStackSize 设置堆栈大小.
func WithStackSize(size int) Option {
	return func(o *Options) {
		o.StackSize = size
	}
}

// WithStackAll 设置是否捕获所有 goroutine 的堆栈.
func WithStackAll(all bool) Option {
	return func(o *Options) {
		o.StackAll = all
	}
}

// defaultOptions 返回默认配置.
func defaultOptions() *Options {
	return &Options{
		StackSize: 64 * 1024,
	}
}

// applyOptions 应用配置选项.
func applyOptions(opts []Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.StackSize <= 0 {
		o.StackSize = 64 * 1024
	}
	return o
}

// Call 调用 fn，并把其中的 panic 转换为错误返回.
func Call(fn func() error, opts ...Option) (err error) {
	defer func() {
		if p := recover(); p != nil {
			o := applyOptions(opts)
			stack := captureStack(o.StackSize, o.StackAll)
			if o.Handler != nil {
				err = o.Handler(p, stack)
				return
			}
			err = &PanicError{Value: p, Stack: stack}
		}
	}()

	return fn()
}

// captureStack 捕获堆栈信息.
func captureStack(size int, all bool) []byte {
	stack := make([]byte, size)
	n := runtime.Stack(stack, all)
	return stack[:n]
}

// PanicError 表示 panic 错误.
type PanicError struct {
	// Value 是 panic 的值.
	Value any
	// Stack 是堆栈信息.
	Stack []byte
}

// Error 实现 error 接口.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap 返回原始错误（如果 panic 值是 error）.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
