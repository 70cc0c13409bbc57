// Package handler exposes HTTP endpoints for the interaction timeline.
package handler

import (
	"net/http"

	"leadconvert/internal/interactions/service"
	"leadconvert/internal/interactions/transport"
	"leadconvert/platform/apperr"
	"leadconvert/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid interaction payload"))
		return
	}

	interaction, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		LeadID:      req.LeadID,
		Channel:     req.Channel,
		Direction:   req.Direction,
		Content:     req.Content,
		Sentiment:   req.Sentiment,
		IntentScore: req.IntentScore,
	}, identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToInteractionResponse(interaction))
}

func (h *Handler) ListByLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	interactions, err := h.svc.ListByLead(c.Request.Context(), leadID, c.Query("channel"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToInteractionResponses(interactions))
}

func (h *Handler) Timeline(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	interactions, err := h.svc.Timeline(c.Request.Context(), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToInteractionResponses(interactions))
}

func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid interaction id"))
		return
	}

	var req transport.UpdateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid interaction payload"))
		return
	}

	interaction, err := h.svc.Update(c.Request.Context(), id, service.UpdateInput{
		Content:     req.Content,
		Sentiment:   req.Sentiment,
		IntentScore: req.IntentScore,
	}, identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToInteractionResponse(interaction))
}

func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid interaction id"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, identity.UserID()); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.Message(c, "Interaction deleted")
}

func (h *Handler) Conversations(c *gin.Context) {
	conversations, err := h.svc.Conversations(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToConversationResponses(conversations))
}

// TrackEmailOpen is unauthenticated; it is hit by mail clients.
func (h *Handler) TrackEmailOpen(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	if err := h.svc.TrackEmailOpen(c.Request.Context(), leadID); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	c.String(http.StatusOK, "OK")
}

// TrackLinkClick is unauthenticated; it is hit from email links.
func (h *Handler) TrackLinkClick(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	var req transport.TrackLinkClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid tracking payload"))
		return
	}

	if err := h.svc.TrackLinkClick(c.Request.Context(), leadID, req.URL); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	c.String(http.StatusOK, "OK")
}
