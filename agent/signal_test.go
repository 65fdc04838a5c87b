//go:build unix

package agent

import (
	"bytes"
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elvic-group/Automat/logger"
)

func TestRun_InterruptSignal(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := logger.NewWithWriter(&logger.Config{Format: logger.FormatJSON}, buf)
	require.NoError(t, err)

	// 默认监听 SIGINT、SIGTERM
	a := New(WithLogger(log), WithPollInterval(time.Hour))

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background(), 0) }()

	require.Eventually(t, a.Running, time.Second, time.Millisecond)
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after SIGINT")
	}
	assert.False(t, a.Running())
	assert.Contains(t, buf.String(), "[Agent] Automat 被中断")
}
