package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_NilConfig(t *testing.T) {
	c, err := NewMetrics(nil)

	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestNewMetrics_Success(t *testing.T) {
	c, err := NewMetrics(&Config{Namespace: "test"})

	require.NoError(t, err)
	assert.IsType(t, &PrometheusCollector{}, c)
	assert.Equal(t, "/metrics", c.Path())
}

func TestMustNewMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.NotNil(t, MustNewMetrics(DefaultConfig()))
	})
	assert.Panics(t, func() {
		MustNewMetrics(nil)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "/metrics", cfg.Path)
	assert.Equal(t, "automat", cfg.Namespace)
}

func TestRecordExecution(t *testing.T) {
	c := MustNewMetrics(DefaultConfig())

	c.RecordExecution("cleanup", "success", 20*time.Millisecond)
	c.RecordExecution("cleanup", "success", 30*time.Millisecond)
	c.RecordExecution("cleanup", "failed", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.executionsTotal.WithLabelValues("cleanup", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.executionsTotal.WithLabelValues("cleanup", "failed")))
}

func TestRecordSweep(t *testing.T) {
	c := MustNewMetrics(DefaultConfig())

	c.RecordSweep("once", 3)
	c.RecordSweep("poll", 1)
	c.RecordSweep("poll", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.sweepsTotal.WithLabelValues("once")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.sweepsTotal.WithLabelValues("poll")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.sweepExecuted.WithLabelValues("poll")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.sweepExecuted.WithLabelValues("once")))
}

func TestSetRegisteredTasks(t *testing.T) {
	c := MustNewMetrics(DefaultConfig())

	c.SetRegisteredTasks(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(c.registeredTasks))
}

func TestHandler(t *testing.T) {
	c := MustNewMetrics(&Config{Namespace: "automat", Agent: "ops"})
	c.RecordExecution("health", "success", time.Millisecond)
	c.SetRegisteredTasks(1)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `automat_task_executions_total{agent="ops",outcome="success",task="health"} 1`)
	assert.Contains(t, string(body), `automat_agent_registered_tasks{agent="ops"} 1`)
}

func TestRegistry(t *testing.T) {
	c := MustNewMetrics(DefaultConfig())
	assert.NotNil(t, c.Registry())
}
