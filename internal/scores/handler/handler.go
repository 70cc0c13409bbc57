// Package handler exposes HTTP endpoints for activity scores.
package handler

import (
	"leadconvert/internal/scores/service"
	"leadconvert/internal/scores/transport"
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

// Me returns the authenticated user's score and recent activities.
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	score, err := h.svc.UserScore(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToUserScoreResponse(score))
}

func (h *Handler) Leaderboard(c *gin.Context) {
	scores, err := h.svc.Leaderboard(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToLeaderboard(scores))
}

// UserScore returns another user's score; restricted to admins and managers.
func (h *Handler) UserScore(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid user id"))
		return
	}

	score, err := h.svc.UserScore(c.Request.Context(), userID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, transport.ToUserScoreResponse(score))
}
