package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dropDatabas3/jsonlog/internal/metrics"
	"github.com/dropDatabas3/jsonlog/internal/observability/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProbe(t *testing.T) (http.Handler, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	root := logger.NewRoot(buf, logger.WithTerminal(false))
	root.Initialize(logger.Config{ServiceName: "logprobe", Version: "test"})

	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.RegisterLogging(reg))
	require.NoError(t, metrics.RegisterHTTP(reg))
	return newRouter(root, reg), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m), l)
		out = append(out, m)
	}
	return out
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestHealthz(t *testing.T) {
	h, buf := newProbe(t)
	rr := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	recs := decodeLines(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "http.access", recs[0]["logger"])
	assert.Equal(t, "/healthz", recs[0]["path"])
}

func TestEmit(t *testing.T) {
	h, buf := newProbe(t)
	rr := do(h, http.MethodPost, "/v1/emit",
		`{"logger":"billing","level":"warning","msg":"card declined","fields":{"amount":12.5,"msg":"evil","code":"R01"}}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"logged":true}`, rr.Body.String())

	recs := decodeLines(t, buf)
	require.Len(t, recs, 2)
	rec := recs[0]
	assert.Equal(t, "billing", rec["logger"])
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, "card declined", rec["msg"])
	assert.Equal(t, "logprobe", rec["service"])
	assert.Equal(t, "test", rec["version"])
	assert.Equal(t, 12.5, rec["amount"])
	assert.Equal(t, "R01", rec["code"])
	assert.Equal(t, rr.Header().Get("X-Request-ID"), rec["request_id"])
}

func TestEmit_BelowThreshold(t *testing.T) {
	h, _ := newProbe(t)
	rr := do(h, http.MethodPost, "/v1/emit", `{"level":"debug","msg":"hidden"}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.JSONEq(t, `{"logged":false}`, rr.Body.String())
}

func TestEmit_BadRequests(t *testing.T) {
	h, _ := newProbe(t)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/v1/emit", `{not json`).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/v1/emit", `{"level":"info"}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h, http.MethodGet, "/v1/emit", "").Code)
}

func TestLogLevelEndpoint(t *testing.T) {
	h, buf := newProbe(t)

	rr := do(h, http.MethodGet, "/loglevel", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"level":"info"}`, rr.Body.String())

	rr = do(h, http.MethodPut, "/loglevel", `{"level":"error"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	buf.Reset()
	rr = do(h, http.MethodPost, "/v1/emit", `{"level":"warning","msg":"now hidden"}`)
	assert.JSONEq(t, `{"logged":false}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newProbe(t)
	do(h, http.MethodPost, "/v1/emit", `{"level":"info","msg":"count me"}`)

	rr := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `log_records_total{level="info"}`)
	assert.Contains(t, rr.Body.String(), `http_requests_total{method="POST",path="/v1/emit",status="202"}`)
}

func TestEmitSamples(t *testing.T) {
	buf := &bytes.Buffer{}
	root := logger.NewRoot(buf, logger.WithTerminal(false))
	root.Initialize(logger.Config{ServiceName: "logprobe", Level: "DEBUG"})

	emitSamples(root, "", 1)

	recs := decodeLines(t, buf)
	levels := map[string]int{}
	for _, r := range recs {
		levels[r["level"].(string)]++
	}
	assert.Equal(t, 1, levels["debug"])
	assert.Equal(t, 2, levels["info"])
	assert.Equal(t, 2, levels["warning"])
	assert.Equal(t, 1, levels["error"])
	assert.Equal(t, 1, levels["critical"])

	var order map[string]any
	for _, r := range recs {
		if r["msg"] == "order placed" {
			order = r
		}
	}
	require.NotNil(t, order)
	assert.Equal(t, map[string]any{"id": "o-1", "items": []any{"book", "pen"}, "total": 12.5}, order["order"])
}
