package agent

import "errors"

// ErrRunning agent 正在运行.
var ErrRunning = errors.New("agent: 已有运行中的 Run 会话")
