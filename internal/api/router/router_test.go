package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgungCahyo/chatBot-WA/internal/observability/metrics"
	"github.com/AgungCahyo/chatBot-WA/internal/webhook"
	"github.com/AgungCahyo/chatBot-WA/pkg/logging"
)

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()

	logger := logging.New("error")
	reg := prometheus.NewRegistry()

	wh := webhook.NewHandler("secret-token", nil, logger)
	status := NewStatusHandler(func() int { return 7 }, reg, logger)

	return New(Config{
		Logger:         logger,
		Webhook:        wh,
		Status:         status,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}), reg
}

func TestRouterVerification(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())
}

func TestRouterHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterStatus(t *testing.T) {
	r, reg := newTestRouter(t)

	m := metrics.NewBotMetrics(reg)
	m.ObserveInbound(metrics.OutcomeReplied)
	m.ObserveInbound(metrics.OutcomeDuplicate)
	m.ObserveOutbound("text", nil)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status        string  `json:"status"`
		UptimeSeconds float64 `json:"uptime_seconds"`
		CacheSize     int     `json:"cache_size"`
		InboundTotal  float64 `json:"inbound_total"`
		OutboundTotal float64 `json:"outbound_total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "ok", body.Status)
	assert.GreaterOrEqual(t, body.UptimeSeconds, 0.0)
	assert.Equal(t, 7, body.CacheSize)
	assert.Equal(t, 2.0, body.InboundTotal)
	assert.Equal(t, 1.0, body.OutboundTotal)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	r, reg := newTestRouter(t)

	m := metrics.NewBotMetrics(reg)
	m.ObserveInbound(metrics.OutcomeReplied)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chatbot_webhook_inbound_total")
}

func TestRouterUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
