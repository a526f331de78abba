package whatsapp

import (
	"strconv"
	"time"
)

// WebhookEvent is the delivery envelope posted by the WhatsApp Cloud API.
type WebhookEvent struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one account-level entry in the envelope.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps a single field change notification.
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value carries either inbound messages or status callbacks.
type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Metadata         Metadata  `json:"metadata"`
	Contacts         []Contact `json:"contacts,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	Statuses         []Status  `json:"statuses,omitempty"`
}

// Metadata identifies the business number that received the message.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is the sender's WhatsApp profile.
type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

// Profile holds the sender's display name.
type Profile struct {
	Name string `json:"name"`
}

// Message is one inbound message. Only text bodies are populated for text
// messages; other types arrive with their own sub-objects we don't decode.
type Message struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"` // unix seconds as a string
	Type      string `json:"type"`
	Text      *Text  `json:"text,omitempty"`
}

// Text is the body of a text message.
type Text struct {
	Body string `json:"body"`
}

// Status is a delivery/read status callback. The responder ignores these.
type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// InboundMessage is the normalized result of unpacking a webhook event.
type InboundMessage struct {
	ID     string
	From   string
	Name   string
	Type   string
	Text   string
	SentAt time.Time
}

// FirstMessage extracts entry[0].changes[0].value.messages[0] from the
// envelope. Status-only callbacks and truncated payloads return ok=false.
func FirstMessage(event WebhookEvent) (InboundMessage, bool) {
	if len(event.Entry) == 0 {
		return InboundMessage{}, false
	}
	entry := event.Entry[0]
	if len(entry.Changes) == 0 {
		return InboundMessage{}, false
	}
	value := entry.Changes[0].Value
	if len(value.Messages) == 0 {
		return InboundMessage{}, false
	}
	msg := value.Messages[0]

	inbound := InboundMessage{
		ID:   msg.ID,
		From: msg.From,
		Type: msg.Type,
	}
	if msg.Text != nil {
		inbound.Text = msg.Text.Body
	}
	if len(value.Contacts) > 0 {
		inbound.Name = value.Contacts[0].Profile.Name
	}
	if secs, err := strconv.ParseInt(msg.Timestamp, 10, 64); err == nil {
		inbound.SentAt = time.Unix(secs, 0)
	}
	return inbound, true
}

// sendRequest is the outbound payload for the /messages endpoint.
type sendRequest struct {
	MessagingProduct string           `json:"messaging_product"`
	RecipientType    string           `json:"recipient_type,omitempty"`
	To               string           `json:"to,omitempty"`
	Type             string           `json:"type,omitempty"`
	Text             *Text            `json:"text,omitempty"`
	Reaction         *reaction        `json:"reaction,omitempty"`
	Status           string           `json:"status,omitempty"`
	MessageID        string           `json:"message_id,omitempty"`
	TypingIndicator  *typingIndicator `json:"typing_indicator,omitempty"`
}

type reaction struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

type typingIndicator struct {
	Type string `json:"type"`
}

// SendResponse is the Cloud API reply to a send call.
type SendResponse struct {
	Messages []SentMessage `json:"messages"`
	Error    *APIError     `json:"error,omitempty"`
}

// SentMessage identifies an accepted outbound message.
type SentMessage struct {
	ID string `json:"id"`
}

// APIError is the provider-supplied error payload.
type APIError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode,omitempty"`
	FBTraceID string `json:"fbtrace_id,omitempty"`
}

func (e *APIError) Error() string {
	return "whatsapp: API error " + strconv.Itoa(e.Code) + ": " + e.Message
}
