// Package service implements the outbound messaging gateway: WhatsApp and
// email sends with timeline recording, and AI-assisted outreach.
package service

import (
	"context"
	"fmt"
	"time"

	"leadconvert/internal/email"
	"leadconvert/internal/interactions/repository"
	interactionsservice "leadconvert/internal/interactions/service"
	leadsrepo "leadconvert/internal/leads/repository"
	"leadconvert/internal/whatsapp"
	"leadconvert/platform/apperr"
	"leadconvert/platform/config"
	"leadconvert/platform/logger"

	"github.com/google/uuid"
)

// LeadReader is the slice of the leads service this module needs.
type LeadReader interface {
	Get(ctx context.Context, id uuid.UUID) (leadsrepo.Lead, error)
	MarkContacted(ctx context.Context, id uuid.UUID) error
}

// TimelineWriter records sent messages on the lead timeline.
type TimelineWriter interface {
	RecordOutbound(ctx context.Context, msg interactionsservice.OutboundMessage) (repository.Interaction, error)
	ListByLead(ctx context.Context, leadID uuid.UUID, channel string) ([]repository.Interaction, error)
}

// WhatsAppSender delivers a WhatsApp message through the provider.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) (whatsapp.SendResult, error)
}

// Completer generates text from a prompt pair.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Service struct {
	leads    LeadReader
	timeline TimelineWriter
	wa       WhatsAppSender
	mail     email.Sender
	ai       Completer
	cfg      config.AppConfig
	log      *logger.Logger
}

func New(leads LeadReader, timeline TimelineWriter, mail email.Sender, cfg config.AppConfig, log *logger.Logger) *Service {
	return &Service{
		leads:    leads,
		timeline: timeline,
		mail:     mail,
		cfg:      cfg,
		log:      log,
	}
}

// SetWhatsAppSender wires the provider client; nil leaves WhatsApp disabled.
func (s *Service) SetWhatsAppSender(wa WhatsAppSender) { s.wa = wa }

// SetCompleter wires the AI client; nil means template fallback only.
func (s *Service) SetCompleter(ai Completer) { s.ai = ai }

// WhatsAppResult reports a completed WhatsApp send.
type WhatsAppResult struct {
	MessageSID string
	Status     string
}

// SendWhatsApp delivers a message to the lead's phone and records an
// outbound interaction. Provider failure surfaces to the caller and nothing
// is recorded.
func (s *Service) SendWhatsApp(ctx context.Context, leadID uuid.UUID, message string, actorID *uuid.UUID) (WhatsAppResult, error) {
	const op = "messaging.SendWhatsApp"

	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return WhatsAppResult{}, err
	}
	if lead.Phone == "" {
		return WhatsAppResult{}, apperr.BadRequest("Lead does not have a phone number").WithOp(op)
	}
	if s.wa == nil {
		return WhatsAppResult{}, apperr.BadRequest("WhatsApp provider is not configured").WithOp(op)
	}

	result, err := s.wa.SendMessage(ctx, lead.Phone, message)
	if err != nil {
		return WhatsAppResult{}, apperr.Wrap(apperr.KindInternal, "Failed to send WhatsApp message", err).WithOp(op)
	}

	if _, err := s.timeline.RecordOutbound(ctx, interactionsservice.OutboundMessage{
		LeadID:         leadID,
		Channel:        "whatsapp",
		Content:        message,
		ExternalID:     &result.SID,
		DeliveryStatus: &result.Status,
		ActorID:        actorID,
	}); err != nil {
		s.log.Error("failed to record sent whatsapp message", "error", err, "leadId", leadID)
	}

	return WhatsAppResult{MessageSID: result.SID, Status: result.Status}, nil
}

// EmailResult reports a completed email send.
type EmailResult struct {
	MessageID string
}

// SendEmail delivers an HTML email with an open-tracking pixel appended and
// records an outbound interaction.
func (s *Service) SendEmail(ctx context.Context, leadID uuid.UUID, subject, message string, actorID *uuid.UUID) (EmailResult, error) {
	const op = "messaging.SendEmail"

	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return EmailResult{}, err
	}
	if lead.Email == "" {
		return EmailResult{}, apperr.BadRequest("Lead does not have an email address").WithOp(op)
	}

	messageID := fmt.Sprintf("%d", time.Now().UnixMilli())
	html := message + "<br/><br/>" + s.trackingPixel(leadID, messageID)

	if err := s.mail.Send(ctx, lead.Email, subject, html); err != nil {
		return EmailResult{}, apperr.Wrap(apperr.KindInternal, "Failed to send email", err).WithOp(op)
	}

	if _, err := s.timeline.RecordOutbound(ctx, interactionsservice.OutboundMessage{
		LeadID:  leadID,
		Channel: "email",
		Content: message,
		ActorID: actorID,
	}); err != nil {
		s.log.Error("failed to record sent email", "error", err, "leadId", leadID)
	}

	return EmailResult{MessageID: messageID}, nil
}

func (s *Service) trackingPixel(leadID uuid.UUID, messageID string) string {
	return fmt.Sprintf(
		`<img src="%s/api/webhooks/email-tracker/%s/%s" width="1" height="1" />`,
		s.cfg.GetBackendBaseURL(), leadID, messageID,
	)
}
