package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)

	m.ObserveInbound(OutcomeReplied)
	m.ObserveInbound(OutcomeDuplicate)
	m.ObserveOutbound("text", nil)
	m.ObserveOutbound("reaction", errors.New("boom"))
	m.SetCacheSize(42)
	m.ObserveReplyLatency(0.8)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["chatbot_webhook_inbound_total"])
	assert.True(t, names["chatbot_whatsapp_outbound_total"])
	assert.True(t, names["chatbot_webhook_message_cache_size"])
	assert.True(t, names["chatbot_webhook_reply_latency_seconds"])
}

func TestBotMetricsNilSafe(t *testing.T) {
	var m *BotMetrics
	m.ObserveInbound(OutcomeIgnored)
	m.ObserveOutbound("text", nil)
	m.SetCacheSize(1)
	m.ObserveReplyLatency(0.1)
}
