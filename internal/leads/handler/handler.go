// Package handler exposes HTTP endpoints for lead management.
package handler

import (
	"net/http"
	"strconv"

	"leadconvert/internal/leads/domain"
	"leadconvert/internal/leads/service"
	"leadconvert/internal/leads/transport"
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

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	leads, total, err := h.svc.List(c.Request.Context(), service.ListLeadsInput{
		Status: c.Query("status"),
		Source: c.Query("source"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.LeadListResponse{
		Leads: transport.ToLeadResponses(leads),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead payload"))
		return
	}

	actorID := identity.UserID()
	lead, err := h.svc.Create(c.Request.Context(), service.CreateLeadInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Source:         domain.Source(req.Source),
		InitialMessage: req.InitialMessage,
		Tags:           req.Tags,
	}, &actorID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToLeadResponse(lead))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead payload"))
		return
	}

	in := service.UpdateLeadInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Tags:           req.Tags,
		InitialMessage: req.InitialMessage,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		in.Status = &status
	}

	lead, err := h.svc.Update(c.Request.Context(), id, in, identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToLeadResponse(lead))
}

func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, identity.UserID()); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.Message(c, "Lead deleted")
}

// Rescore runs a fresh scoring pass on demand.
func (h *Handler) Rescore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	result, err := h.svc.Rescore(c.Request.Context(), id)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ScoreResponse{
		LeadID:    id,
		Score:     result.Score,
		Qualified: result.Qualified,
	})
}
