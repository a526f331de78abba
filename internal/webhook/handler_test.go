package webhook

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgungCahyo/chatBot-WA/internal/whatsapp"
	"github.com/AgungCahyo/chatBot-WA/pkg/logging"
)

func TestHandleVerification(t *testing.T) {
	h := NewHandler("my-secret", nil, logging.New("error"))

	t.Run("valid challenge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=my-secret&hub.challenge=1234", nil)
		w := httptest.NewRecorder()
		h.HandleVerification(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1234", w.Body.String())
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=1234", nil)
		w := httptest.NewRecorder()
		h.HandleVerification(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("wrong mode", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=unsubscribe&hub.verify_token=my-secret&hub.challenge=1234", nil)
		w := httptest.NewRecorder()
		h.HandleVerification(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

const textDelivery = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "entry-1",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "contacts": [{"wa_id": "628123", "profile": {"name": "Agung"}}],
        "messages": [{
          "from": "628123",
          "id": "wamid.abc",
          "timestamp": "1700000000",
          "type": "text",
          "text": {"body": "halo"}
        }]
      }
    }]
  }]
}`

func TestHandleInboundDispatchesMessage(t *testing.T) {
	var received []whatsapp.InboundMessage
	h := NewHandler("secret", func(msg whatsapp.InboundMessage) {
		received = append(received, msg)
	}, logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textDelivery))
	w := httptest.NewRecorder()
	h.HandleInbound(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, received, 1)
	assert.Equal(t, "wamid.abc", received[0].ID)
	assert.Equal(t, "628123", received[0].From)
	assert.Equal(t, "halo", received[0].Text)
}

func TestHandleInboundStatusCallback(t *testing.T) {
	called := false
	h := NewHandler("secret", func(whatsapp.InboundMessage) { called = true }, logging.New("error"))

	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"statuses":[{"id":"wamid.x","status":"read"}]}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleInbound(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, called, "status callbacks must not dispatch")
}

func TestHandleInboundMalformedBodyStillAcks(t *testing.T) {
	called := false
	h := NewHandler("secret", func(whatsapp.InboundMessage) { called = true }, logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"entry":`))
	w := httptest.NewRecorder()
	h.HandleInbound(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, called)
}

func TestHandleInboundEmptyEnvelope(t *testing.T) {
	called := false
	h := NewHandler("secret", func(whatsapp.InboundMessage) { called = true }, logging.New("error"))

	for _, body := range []string{
		`{}`,
		`{"entry":[]}`,
		`{"entry":[{"changes":[]}]}`,
		`{"entry":[{"changes":[{"value":{}}]}]}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.HandleInbound(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.False(t, called)
}
