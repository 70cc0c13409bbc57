package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	leadsrepo "leadconvert/internal/leads/repository"
	"leadconvert/platform/apperr"

	"github.com/google/uuid"
)

const defaultEmailSubject = "Following up on your interest"

const outreachSystemPromptFmt = "You are a personalized marketing assistant. Generate a personalized %s message " +
	"for a lead with the following information. The message should be friendly, professional, and persuasive. " +
	"For email messages, include a subject line separated by \"---SUBJECT---\" at the beginning."

// subjectMarker separates an email subject from its body in generated content.
const subjectMarker = "---SUBJECT---"

// OutreachResult reports a completed personalized outreach send.
type OutreachResult struct {
	Channel string
	Message string
}

// SendOutreach generates a personalized message for the lead and delivers it
// over the requested channel. Generation uses the completion API when
// configured and falls back to deterministic templates. A successful send
// advances a fresh lead to contacted.
func (s *Service) SendOutreach(ctx context.Context, leadID uuid.UUID, channel string, actorID *uuid.UUID) (OutreachResult, error) {
	const op = "messaging.SendOutreach"

	if channel != "email" && channel != "whatsapp" {
		return OutreachResult{}, apperr.Validation("Unsupported outreach channel: "+channel).WithOp(op)
	}

	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return OutreachResult{}, err
	}

	message := s.generateMessage(ctx, lead, channel)

	switch channel {
	case "email":
		subject, body := ParseEmailContent(message)
		if _, err := s.SendEmail(ctx, leadID, subject, body, actorID); err != nil {
			return OutreachResult{}, err
		}
	case "whatsapp":
		if _, err := s.SendWhatsApp(ctx, leadID, message, actorID); err != nil {
			return OutreachResult{}, err
		}
	}

	if err := s.leads.MarkContacted(ctx, leadID); err != nil {
		s.log.Error("failed to mark lead contacted after outreach", "error", err, "leadId", leadID)
	}

	return OutreachResult{Channel: channel, Message: message}, nil
}

// generateMessage tries the completion API and falls back to templates on
// any failure.
func (s *Service) generateMessage(ctx context.Context, lead leadsrepo.Lead, channel string) string {
	if s.ai != nil {
		generated, err := s.completeMessage(ctx, lead, channel)
		if err == nil {
			return generated
		}
		s.log.Warn("completion api failed, using template fallback", "error", err, "leadId", lead.ID)
	}
	return fallbackMessage(lead.Name, channel)
}

func (s *Service) completeMessage(ctx context.Context, lead leadsrepo.Lead, channel string) (string, error) {
	interactions, err := s.timeline.ListByLead(ctx, lead.ID, "")
	if err != nil {
		return "", err
	}
	if len(interactions) > 10 {
		interactions = interactions[:10]
	}

	type promptInteraction struct {
		Channel   string `json:"channel"`
		Direction string `json:"direction"`
		Content   string `json:"content"`
		Timestamp string `json:"timestamp"`
	}

	promptInteractions := make([]promptInteraction, 0, len(interactions))
	for _, i := range interactions {
		promptInteractions = append(promptInteractions, promptInteraction{
			Channel:   i.Channel,
			Direction: i.Direction,
			Content:   i.Content,
			Timestamp: i.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	initialMessage := ""
	if lead.InitialMessage != nil {
		initialMessage = *lead.InitialMessage
	}

	promptData := map[string]any{
		"leadInfo": map[string]any{
			"name":           lead.Name,
			"email":          lead.Email,
			"phone":          lead.Phone,
			"source":         lead.Source,
			"initialMessage": initialMessage,
			"leadScore":      lead.LeadScore,
			"status":         lead.Status,
			"tags":           lead.Tags,
		},
		"interactions": promptInteractions,
		"context": map[string]string{
			"channel": channel,
			"purpose": "lead_nurturing",
		},
	}

	userPrompt, err := json.Marshal(promptData)
	if err != nil {
		return "", err
	}

	return s.ai.Complete(ctx, fmt.Sprintf(outreachSystemPromptFmt, channel), string(userPrompt))
}

// ParseEmailContent splits generated email content into subject and body.
// Content without a subject marker keeps the default subject and is used as
// the body unchanged.
func ParseEmailContent(content string) (subject, body string) {
	_, after, found := strings.Cut(content, subjectMarker)
	if !found {
		return defaultEmailSubject, content
	}

	line, rest, hasBody := strings.Cut(after, "\n")
	subject = strings.TrimSpace(line)
	if subject == "" {
		subject = defaultEmailSubject
	}
	if !hasBody {
		return subject, ""
	}
	return subject, strings.TrimSpace(rest)
}

func fallbackMessage(leadName, channel string) string {
	switch channel {
	case "email":
		return subjectMarker + defaultEmailSubject + "\n\n" +
			"Hi " + leadName + ",\n\n" +
			"Thank you for your interest in our services. We noticed you reached out to us recently " +
			"and wanted to follow up to see if you have any questions or if there's anything we can " +
			"help you with.\n\nLooking forward to hearing from you.\n\nBest regards,\nThe Team"
	case "whatsapp":
		return "Hi " + leadName + ", thank you for your interest in our services. " +
			"Is there anything specific you'd like to know more about? We're here to help!"
	default:
		return "Hello " + leadName + ", thank you for reaching out. How can we assist you today?"
	}
}
