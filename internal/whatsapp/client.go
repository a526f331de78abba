package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultGraphAPIBase = "https://graph.facebook.com/v18.0"
	defaultHTTPTimeout  = 10 * time.Second
)

// Client sends messages through the WhatsApp Cloud API.
type Client struct {
	token         string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
}

// NewClient creates a Cloud API client for one business phone number.
func NewClient(token, phoneNumberID string) *Client {
	return &Client{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       defaultGraphAPIBase,
		httpClient:    &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// SetBaseURL overrides the Graph API base URL (useful for testing).
func (c *Client) SetBaseURL(base string) {
	if base != "" {
		c.baseURL = base
	}
}

// SendText sends a plain text message to the given recipient.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	return c.send(ctx, sendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &Text{Body: body},
	})
}

// SendReaction reacts to a previously received message with an emoji.
func (c *Client) SendReaction(ctx context.Context, to, messageID, emoji string) error {
	return c.send(ctx, sendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "reaction",
		Reaction:         &reaction{MessageID: messageID, Emoji: emoji},
	})
}

// MarkRead marks an inbound message as read.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	return c.send(ctx, sendRequest{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	})
}

// SendTyping shows the typing indicator in the sender's chat. The Cloud API
// carries the indicator on the read-status payload, so this also marks the
// message as read.
func (c *Client) SendTyping(ctx context.Context, messageID string) error {
	return c.send(ctx, sendRequest{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
		TypingIndicator:  &typingIndicator{Type: "text"},
	})
}

func (c *Client) send(ctx context.Context, req sendRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("whatsapp: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("whatsapp: send: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("whatsapp: read response: %w", err)
	}

	var sendResp SendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		return fmt.Errorf("whatsapp: unmarshal response: %w", err)
	}

	if sendResp.Error != nil {
		return fmt.Errorf("whatsapp: send rejected: %w", sendResp.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whatsapp: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
