package agent

import (
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/spf13/cast"

	"github.com/elvic-group/Automat/config"
	"github.com/elvic-group/Automat/logger"
)

// 配置文档中 agent 识别的键，其余键原样保留供调用方读取.
const (
	KeyLogLevel     = "log_level"
	KeyLogFormat    = "log_format"
	KeyPollInterval = "poll_interval"
)

// loadDocument 读取配置文件并与显式文档合并.
//
// 文件不可用时返回空文档与原因，由调用方在日志就绪后记录警告.
func loadDocument(o *options) (map[string]any, error) {
	doc := map[string]any{}

	var loadErr error
	if o.configFile != "" {
		fileDoc, err := config.LoadDocument(o.configFile)
		if err != nil {
			loadErr = err
		} else {
			maps.Copy(doc, fileDoc)
		}
	}

	maps.Copy(doc, o.document)
	return doc, loadErr
}

// buildLogger 按配置文档创建日志记录器.
//
// 级别或格式非法时退回默认配置.
// w 为空时输出到 stderr.
func buildLogger(name string, doc map[string]any, w io.Writer) (logger.Logger, error) {
	newLogger := func(cfg *logger.Config) (logger.Logger, error) {
		if w == nil {
			return logger.NewLogger(cfg)
		}
		return logger.NewWithWriter(cfg, w)
	}

	log, err := newLogger(&logger.Config{
		ServiceName: name,
		Level:       cast.ToString(doc[KeyLogLevel]),
		Format:      cast.ToString(doc[KeyLogFormat]),
	})
	if err == nil {
		return log, nil
	}

	fallback, ferr := newLogger(&logger.Config{ServiceName: name})
	if ferr != nil {
		return logger.NewNop(), err
	}
	return fallback, err
}

// parsePollInterval 解析 poll_interval.
//
// 数值按秒计，字符串可以是纯数字（秒）或 time.ParseDuration 格式.
func parsePollInterval(v any) (time.Duration, error) {
	if secs, err := cast.ToFloat64E(v); err == nil {
		d := time.Duration(secs * float64(time.Second))
		if d <= 0 {
			return 0, fmt.Errorf("poll_interval must be positive: %v", v)
		}
		return d, nil
	}

	d, err := cast.ToDurationE(v)
	if err != nil {
		return 0, fmt.Errorf("poll_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("poll_interval must be positive: %v", v)
	}
	return d, nil
}
