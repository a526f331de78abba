package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AgungCahyo/chatBot-WA/internal/whatsapp"
	"github.com/AgungCahyo/chatBot-WA/pkg/logging"
)

var tracer = otel.Tracer("chatbot.internal.webhook")

// Handler handles Meta webhook verification and inbound deliveries.
type Handler struct {
	verifyToken string
	onMessage   func(msg whatsapp.InboundMessage)
	logger      *logging.Logger
}

// NewHandler creates a webhook handler. onMessage is called once per
// delivery that actually contains a message; the caller decides whether to
// process it asynchronously.
func NewHandler(verifyToken string, onMessage func(whatsapp.InboundMessage), logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		verifyToken: verifyToken,
		onMessage:   onMessage,
		logger:      logger.Component("webhook"),
	}
}

// HandleVerification handles the GET subscription handshake from Meta.
func (h *Handler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	h.logger.Warn("webhook verification rejected", "mode", mode)
	w.WriteHeader(http.StatusForbidden)
}

// HandleInbound handles POST webhook deliveries. The Cloud API expects a
// fast 200 regardless of the payload, so the response is committed before
// any processing and malformed bodies are only logged.
func (h *Handler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	_, span := tracer.Start(r.Context(), "webhook.inbound",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	body, err := io.ReadAll(r.Body)
	w.WriteHeader(http.StatusOK)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		span.RecordError(err)
		return
	}

	var event whatsapp.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("failed to parse webhook payload", "error", err)
		span.RecordError(err)
		return
	}

	msg, ok := whatsapp.FirstMessage(event)
	if !ok {
		// Status callbacks and other non-message deliveries.
		h.logger.Debug("webhook delivery without messages", "object", event.Object)
		return
	}
	span.SetAttributes(
		attribute.String("chatbot.message_id", msg.ID),
		attribute.String("chatbot.from", msg.From),
		attribute.String("chatbot.type", msg.Type),
	)

	if h.onMessage != nil {
		h.onMessage(msg)
	}
}
