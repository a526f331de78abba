package metrics

import "github.com/prometheus/client_golang/prometheus"

// Inbound outcomes reported by the responder.
const (
	OutcomeReplied     = "replied"
	OutcomeDuplicate   = "duplicate"
	OutcomeRateLimited = "rate_limited"
	OutcomeIgnored     = "ignored"
	OutcomeUnsupported = "unsupported"
	OutcomeError       = "error"
)

// BotMetrics exposes counters and gauges for the webhook reply flow.
type BotMetrics struct {
	inboundTotal  *prometheus.CounterVec
	outboundTotal *prometheus.CounterVec
	cacheSize     prometheus.Gauge
	replyLatency  prometheus.Histogram
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatbot",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Inbound webhook messages by processing outcome",
		}, []string{"outcome"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatbot",
			Subsystem: "whatsapp",
			Name:      "outbound_total",
			Help:      "Outbound Cloud API calls by kind and status",
		}, []string{"call", "status"}),
		cacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chatbot",
			Subsystem: "webhook",
			Name:      "message_cache_size",
			Help:      "Current number of message ids in the dedup cache",
		}),
		replyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chatbot",
			Subsystem: "webhook",
			Name:      "reply_latency_seconds",
			Help:      "Time from webhook receipt to reply completion",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.outboundTotal, m.cacheSize, m.replyLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(outcome).Inc()
}

func (m *BotMetrics) ObserveOutbound(call string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.outboundTotal.WithLabelValues(call, status).Inc()
}

func (m *BotMetrics) SetCacheSize(n int) {
	if m == nil {
		return
	}
	m.cacheSize.Set(float64(n))
}

func (m *BotMetrics) ObserveReplyLatency(seconds float64) {
	if m == nil {
		return
	}
	m.replyLatency.Observe(seconds)
}
