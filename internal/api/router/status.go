package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/AgungCahyo/chatBot-WA/pkg/logging"
)

// StatusHandler reports process uptime, dedup cache size, and webhook
// counter snapshots. Informational only, not part of the webhook contract.
type StatusHandler struct {
	startedAt time.Time
	cacheSize func() int
	gatherer  prometheus.Gatherer
	logger    *logging.Logger
}

// NewStatusHandler creates a status handler. cacheSize may be nil.
func NewStatusHandler(cacheSize func() int, gatherer prometheus.Gatherer, logger *logging.Logger) *StatusHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatusHandler{
		startedAt: time.Now(),
		cacheSize: cacheSize,
		gatherer:  gatherer,
		logger:    logger,
	}
}

type statusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CacheSize     int     `json:"cache_size"`
	InboundTotal  float64 `json:"inbound_total"`
	OutboundTotal float64 `json:"outbound_total"`
}

// HealthCheck returns a minimal liveness response.
func (h *StatusHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// GetStatus returns uptime and processing counters.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startedAt).Seconds(),
		InboundTotal:  h.counterTotal("chatbot_webhook_inbound_total"),
		OutboundTotal: h.counterTotal("chatbot_whatsapp_outbound_total"),
	}
	if h.cacheSize != nil {
		resp.CacheSize = h.cacheSize()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// counterTotal sums a counter family across all label sets.
func (h *StatusHandler) counterTotal(name string) float64 {
	mfs, err := h.gatherer.Gather()
	if err != nil {
		h.logger.Warn("failed to gather metrics", "error", err)
		return 0
	}

	var family *dto.MetricFamily
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == name {
			family = mf
			break
		}
	}
	if family == nil {
		return 0
	}

	var total float64
	for _, metric := range family.Metric {
		if c := metric.GetCounter(); c != nil {
			total += c.GetValue()
		}
	}
	return total
}
