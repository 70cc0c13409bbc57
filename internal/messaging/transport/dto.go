// Package transport defines request and response DTOs for the messaging module.
package transport

import "github.com/google/uuid"

type SendWhatsAppRequest struct {
	LeadID  uuid.UUID `json:"leadId" binding:"required"`
	Message string    `json:"message" binding:"required,max=4096"`
}

type SendEmailRequest struct {
	LeadID  uuid.UUID `json:"leadId" binding:"required"`
	Subject string    `json:"subject" binding:"required,max=500"`
	Message string    `json:"message" binding:"required,max=100000"`
}

type SendOutreachRequest struct {
	LeadID  uuid.UUID `json:"leadId" binding:"required"`
	Channel string    `json:"channel" binding:"required,oneof=email whatsapp"`
}

type WhatsAppSentResponse struct {
	Message    string `json:"message"`
	MessageSID string `json:"messageSid"`
	Status     string `json:"status"`
}

type EmailSentResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

type OutreachSentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Channel string `json:"channel"`
}
