// Package webhook ingests inbound provider callbacks: Twilio WhatsApp
// messages, email webhooks, and the email open-tracking pixel.
package webhook

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"leadconvert/internal/interactions/repository"
	interactionsservice "leadconvert/internal/interactions/service"
	"leadconvert/internal/leads/domain"
	leadsrepo "leadconvert/internal/leads/repository"
	"leadconvert/platform/httpkit"
	"leadconvert/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// trackingPixelGIF is a 1x1 transparent GIF.
const trackingPixelGIF = "R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"

const twimlEmptyResponse = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// LeadResolver resolves inbound senders to leads.
type LeadResolver interface {
	FindOrCreateByPhone(ctx context.Context, rawPhone, initialMessage string, source domain.Source) (leadsrepo.Lead, bool, error)
	Get(ctx context.Context, id uuid.UUID) (leadsrepo.Lead, error)
}

// TimelineRecorder records inbound messages and engagement events.
type TimelineRecorder interface {
	RecordInbound(ctx context.Context, msg interactionsservice.InboundMessage) (repository.Interaction, error)
	TrackEmailOpen(ctx context.Context, leadID uuid.UUID) error
}

type Handler struct {
	leads    LeadResolver
	timeline TimelineRecorder
	log      *logger.Logger
}

func NewHandler(leads LeadResolver, timeline TimelineRecorder, log *logger.Logger) *Handler {
	return &Handler{leads: leads, timeline: timeline, log: log}
}

// twilioWebhookForm is the relevant slice of Twilio's form payload.
type twilioWebhookForm struct {
	From      string `form:"From"`
	Body      string `form:"Body"`
	SmsSid    string `form:"SmsSid"`
	SmsStatus string `form:"SmsStatus"`
}

// WhatsApp handles an inbound Twilio WhatsApp message. Unknown senders get a
// placeholder lead which is scored once; every message lands on the timeline.
// Twilio expects a TwiML response.
func (h *Handler) WhatsApp(c *gin.Context) {
	var form twilioWebhookForm
	if err := c.ShouldBind(&form); err != nil || form.From == "" {
		httpkit.Error(c, http.StatusBadRequest, "Malformed webhook payload")
		return
	}

	phoneNumber := strings.TrimPrefix(form.From, "whatsapp:")
	ctx := c.Request.Context()

	lead, created, err := h.leads.FindOrCreateByPhone(ctx, phoneNumber, form.Body, domain.SourceWhatsApp)
	if err != nil {
		h.log.Error("whatsapp webhook failed to resolve lead", "error", err, "phone", phoneNumber)
		httpkit.Error(c, http.StatusInternalServerError, "Error processing WhatsApp message")
		return
	}
	if created {
		h.log.Info("created lead from whatsapp webhook", "leadId", lead.ID, "phone", phoneNumber)
	}

	var externalID *string
	if form.SmsSid != "" {
		externalID = &form.SmsSid
	}
	if _, err := h.timeline.RecordInbound(ctx, interactionsservice.InboundMessage{
		LeadID:     lead.ID,
		Channel:    "whatsapp",
		Content:    form.Body,
		ExternalID: externalID,
	}); err != nil {
		h.log.Error("whatsapp webhook failed to record interaction", "error", err, "leadId", lead.ID)
		httpkit.Error(c, http.StatusInternalServerError, "Error processing WhatsApp message")
		return
	}

	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, twimlEmptyResponse)
}

type emailWebhookRequest struct {
	From    string    `json:"from"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	LeadID  uuid.UUID `json:"leadId" binding:"required"`
}

// Email handles an inbound email webhook referencing a known lead.
func (h *Handler) Email(c *gin.Context) {
	var req emailWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Malformed email payload")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.leads.Get(ctx, req.LeadID); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	interaction, err := h.timeline.RecordInbound(ctx, interactionsservice.InboundMessage{
		LeadID:  req.LeadID,
		Channel: "email",
		Content: req.Body,
	})
	if err != nil {
		h.log.Error("email webhook failed to record interaction", "error", err, "leadId", req.LeadID)
		httpkit.Error(c, http.StatusInternalServerError, "Error processing email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email processed successfully", "id": interaction.ID})
}

// EmailTracker serves the 1x1 tracking pixel and records the open. The pixel
// always renders; tracking failures are logged and swallowed.
func (h *Handler) EmailTracker(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err == nil {
		if trackErr := h.timeline.TrackEmailOpen(c.Request.Context(), leadID); trackErr != nil {
			h.log.Warn("email open tracking failed", "error", trackErr, "leadId", leadID)
		}
	}

	pixel, err := base64.StdEncoding.DecodeString(trackingPixelGIF)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "image/gif", pixel)
}
