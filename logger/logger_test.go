package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zapcore"
)

// LoggerTestSuite logger 测试套件.
type LoggerTestSuite struct {
	suite.Suite
	buf *bytes.Buffer
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (s *LoggerTestSuite) SetupTest() {
	s.buf = &bytes.Buffer{}
}

func (s *LoggerTestSuite) newJSON(level string) Logger {
	log, err := NewWithWriter(&Config{Level: level, Format: FormatJSON}, s.buf)
	s.Require().NoError(err)
	return log
}

// lines 解析缓冲区中的 JSON 日志行.
func (s *LoggerTestSuite) lines() []map[string]any {
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(s.buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		s.Require().NoError(json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func (s *LoggerTestSuite) TestNewLogger_NilConfig() {
	log, err := NewLogger(nil)
	s.Error(err)
	s.Nil(log)
}

func (s *LoggerTestSuite) TestNewLogger_DefaultConfig() {
	log, err := NewLogger(DefaultConfig())
	s.NoError(err)
	s.NotNil(log)
	defer log.Close()
}

func (s *LoggerTestSuite) TestNewLogger_DevConfig() {
	log, err := NewLogger(NewDevConfig())
	s.NoError(err)
	s.NotNil(log)
	defer log.Close()
}

func (s *LoggerTestSuite) TestNewLogger_InvalidLevel() {
	log, err := NewLogger(&Config{Level: "verbose"})
	s.Error(err)
	s.Nil(log)

	var cfgErr *ConfigError
	s.True(errors.As(err, &cfgErr))
	s.Equal("level", cfgErr.Field)
}

func (s *LoggerTestSuite) TestNewLogger_InvalidFormat() {
	log, err := NewLogger(&Config{Format: "xml"})
	s.Error(err)
	s.Nil(log)
}

func (s *LoggerTestSuite) TestNewLogger_InvalidOutput() {
	log, err := NewLogger(&Config{Output: "file"})
	s.Error(err)
	s.Nil(log)
}

func (s *LoggerTestSuite) TestNewWithWriter_NilWriter() {
	log, err := NewWithWriter(DefaultConfig(), nil)
	s.ErrorIs(err, ErrNilWriter)
	s.Nil(log)
}

func (s *LoggerTestSuite) TestLevelFiltering() {
	log := s.newJSON("WARNING")

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Errorf("error %d", 42)

	entries := s.lines()
	s.Require().Len(entries, 2)
	s.Equal("warn message", entries[0]["msg"])
	s.Equal("WARN", entries[0]["level"])
	s.Equal("error 42", entries[1]["msg"])
}

func (s *LoggerTestSuite) TestWithFields() {
	log := s.newJSON(LevelDebug)

	log.With(
		String("task", "cleanup"),
		Int("run", 3),
		Bool("enabled", true),
		Err(errors.New("boom")),
	).Info("task failed")

	entries := s.lines()
	s.Require().Len(entries, 1)
	s.Equal("cleanup", entries[0]["task"])
	s.EqualValues(3, entries[0]["run"])
	s.Equal(true, entries[0]["enabled"])
	s.Equal("boom", entries[0]["error"])
}

func (s *LoggerTestSuite) TestWithContext() {
	log := s.newJSON(LevelInfo)

	ctx := ContextWithTraceID(context.Background(), "trace-1")
	ctx = ContextWithTask(ctx, "health")
	log.WithContext(ctx).Info("executing")

	entries := s.lines()
	s.Require().Len(entries, 1)
	s.Equal("trace-1", entries[0]["traceId"])
	s.Equal("health", entries[0]["task"])
}

func (s *LoggerTestSuite) TestWithContext_Empty() {
	log := s.newJSON(LevelInfo)
	s.Same(log, log.WithContext(context.Background()))
}

func (s *LoggerTestSuite) TestServiceNameAsLoggerName() {
	log, err := NewWithWriter(&Config{ServiceName: "Automat", Format: FormatJSON}, s.buf)
	s.Require().NoError(err)

	log.Info("started")

	entries := s.lines()
	s.Require().Len(entries, 1)
	s.Equal("Automat", entries[0]["logger"])
}

func (s *LoggerTestSuite) TestConsoleFormat() {
	log, err := NewWithWriter(&Config{ServiceName: "Automat"}, s.buf)
	s.Require().NoError(err)

	log.Info("hello")

	s.Contains(s.buf.String(), " - INFO - Automat - hello")
}

func (s *LoggerTestSuite) TestNop() {
	log := NewNop()
	log.Info("dropped")
	log.With(String("k", "v")).Error("dropped")
	s.NoError(log.Close())
}

func (s *LoggerTestSuite) TestParseLevel() {
	testCases := []struct {
		level    string
		expected zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"WARNING", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"CRITICAL", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
	}

	for _, tc := range testCases {
		s.Equal(tc.expected, ParseLevel(tc.level), tc.level)
	}
}

func (s *LoggerTestSuite) TestApplyDefaults() {
	cfg := &Config{}
	cfg.ApplyDefaults()

	s.Equal(LevelInfo, cfg.Level)
	s.Equal(FormatConsole, cfg.Format)
	s.Equal(OutputStderr, cfg.Output)
	s.Equal("automat", cfg.ServiceName)
	s.Equal("msg", cfg.MessageKey)
}
