package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/awantoch/trellis-mcp/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitExporters(t *testing.T) {
	ctx := context.Background()
	for _, exporter := range []string{"", "none", "stdout", "otlp"} {
		shutdown, err := Init(ctx, config.TracingConfig{Exporter: exporter, ServiceName: "test"})
		require.NoError(t, err, exporter)
		require.NotNil(t, shutdown)
		sctx, cancel := context.WithTimeout(ctx, time.Second)
		_ = shutdown(sctx)
		cancel()
	}
	_, err := Init(ctx, config.TracingConfig{Exporter: "jaeger"})
	assert.Error(t, err)
}

func TestWrapHandlerCountsRequests(t *testing.T) {
	h := WrapHandler("test_handler", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("test_handler", "GET", "418"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("test_handler", "GET", "418")))
}

func TestObserveToolCall(t *testing.T) {
	before := testutil.ToFloat64(toolCallsTotal.WithLabelValues("get_entities", OutcomeError))
	ObserveToolCall("get_entities", OutcomeError, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(toolCallsTotal.WithLabelValues("get_entities", OutcomeError)))
}

func TestObserveUpstream(t *testing.T) {
	ObserveUpstream("GET", "entities", 0, time.Millisecond)
	ObserveUpstream("GET", "entities", 200, time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("GET", "entities", "error")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(upstreamRequestsTotal.WithLabelValues("GET", "entities", "200")), 1.0)
}

func TestMetricsHandler(t *testing.T) {
	ObserveToolCall("get_workflow_config", OutcomeSuccess, time.Millisecond)
	srv := httptest.NewServer(MetricsHandler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "trellis_mcp_tool_calls_total"))
}

func TestTransportWraps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()
	client := &http.Client{Transport: Transport(nil)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
