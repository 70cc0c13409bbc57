// Package handler exposes the analytics HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"leadconvert/internal/analytics/service"
	"leadconvert/internal/analytics/transport"
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

func (h *Handler) LeadStatusCounts(c *gin.Context) {
	counts, err := h.svc.LeadStatusCounts(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, counts)
}

func (h *Handler) LeadSourceCounts(c *gin.Context) {
	counts, err := h.svc.LeadSourceCounts(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, counts)
}

func (h *Handler) Conversions(c *gin.Context) {
	conversions, err := h.svc.Conversions(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToConversionsResponse(conversions))
}

func (h *Handler) ScoreDistribution(c *gin.Context) {
	distribution, err := h.svc.ScoreDistribution(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToScoreDistribution(distribution))
}

func (h *Handler) InteractionChannelCounts(c *gin.Context) {
	counts, err := h.svc.InteractionChannelCounts(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, counts)
}

func (h *Handler) LeadsOverTime(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	points, err := h.svc.LeadsOverTime(c.Request.Context(), days)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToTimeSeries(points))
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToDashboardResponse(dashboard))
}

func (h *Handler) InsightsByLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	insights, err := h.svc.InsightsByLead(c.Request.Context(), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToInsightList(insights))
}

func (h *Handler) RecentInsights(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	insights, err := h.svc.RecentInsights(c.Request.Context(), limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToInsightList(insights))
}

func (h *Handler) CreateInsight(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation(err.Error()))
		return
	}
	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid lead id"))
		return
	}

	insight, err := h.svc.CreateInsight(c.Request.Context(), leadID, req.Insights, req.RecommendedActions, identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToInsightResponse(insight))
}

func (h *Handler) TopUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	users, err := h.svc.TopUsers(c.Request.Context(), limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToUserPerformanceList(users))
}

func (h *Handler) UserActivity(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	summaries, err := h.svc.UserActivity(c.Request.Context(), identity.UserID(), identity.Role())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, transport.ToUserActivityList(summaries))
}
