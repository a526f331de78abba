package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/AgungCahyo/chatBot-WA/internal/whatsapp"
	"github.com/AgungCahyo/chatBot-WA/pkg/logging"
)

// TextSender sends a WhatsApp text message. *whatsapp.Client satisfies it.
type TextSender interface {
	SendText(ctx context.Context, to, body string) error
}

// Service forwards consultation requests to the configured operator: a
// WhatsApp message always, an email additionally when a sender is wired.
type Service struct {
	sender        TextSender
	email         EmailSender
	operator      string
	operatorEmail string
	logger        *logging.Logger
}

// NewService creates a notification service. email may be nil.
func NewService(sender TextSender, email EmailSender, operator, operatorEmail string, logger *logging.Logger) *Service {
	if sender == nil {
		panic("notify: text sender cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:        sender,
		email:         email,
		operator:      operator,
		operatorEmail: operatorEmail,
		logger:        logger.Component("notify"),
	}
}

// ConsultationRequest tells the operator who asked for a consultation. The
// WhatsApp message is the contract; email is extra and its failure only
// logs.
func (s *Service) ConsultationRequest(ctx context.Context, msg whatsapp.InboundMessage) error {
	at := msg.SentAt
	if at.IsZero() {
		at = time.Now()
	}
	name := msg.Name
	if name == "" {
		name = "(tanpa nama)"
	}

	body := fmt.Sprintf(
		"🔔 Permintaan konsultasi baru\nDari: %s (%s)\nPesan: %q\nWaktu: %s",
		name, msg.From, msg.Text, at.Format("02 Jan 2006 15:04"),
	)
	if err := s.sender.SendText(ctx, s.operator, body); err != nil {
		return fmt.Errorf("notify: operator message: %w", err)
	}
	s.logger.Info("operator notified", "operator", s.operator, "from", msg.From)

	if s.email != nil && s.operatorEmail != "" {
		emailMsg := EmailMessage{
			To:      s.operatorEmail,
			Subject: fmt.Sprintf("Permintaan konsultasi dari %s", msg.From),
			Body:    body,
		}
		if err := s.email.Send(ctx, emailMsg); err != nil {
			s.logger.Warn("operator email failed", "error", err, "to", s.operatorEmail)
		}
	}
	return nil
}
