// Package handler exposes HTTP endpoints for the messaging gateway.
package handler

import (
	"leadconvert/internal/messaging/service"
	"leadconvert/internal/messaging/transport"
	"leadconvert/platform/apperr"
	"leadconvert/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) SendWhatsApp(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SendWhatsAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Lead ID and message are required"))
		return
	}

	actorID := identity.UserID()
	result, err := h.svc.SendWhatsApp(c.Request.Context(), req.LeadID, req.Message, &actorID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.WhatsAppSentResponse{
		Message:    "WhatsApp message sent successfully",
		MessageSID: result.MessageSID,
		Status:     result.Status,
	})
}

func (h *Handler) SendEmail(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Lead ID, subject, and message are required"))
		return
	}

	actorID := identity.UserID()
	result, err := h.svc.SendEmail(c.Request.Context(), req.LeadID, req.Subject, req.Message, &actorID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.EmailSentResponse{
		Message:   "Email sent successfully",
		MessageID: result.MessageID,
	})
}

func (h *Handler) SendOutreach(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.SendOutreachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Lead ID and channel are required"))
		return
	}

	actorID := identity.UserID()
	result, err := h.svc.SendOutreach(c.Request.Context(), req.LeadID, req.Channel, &actorID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.OutreachSentResponse{
		Success: true,
		Message: "Outreach sent successfully via " + result.Channel,
		Channel: result.Channel,
	})
}
