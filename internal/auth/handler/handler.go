// Package handler exposes HTTP endpoints for authentication.
package handler

import (
	"net/http"

	"leadconvert/internal/auth/repository"
	"leadconvert/internal/auth/service"
	"leadconvert/internal/auth/transport"
	"leadconvert/platform/apperr"
	"leadconvert/platform/config"
	"leadconvert/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	cfg config.SessionConfig
}

func New(svc *service.Service, cfg config.SessionConfig) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

// RegisterRoutes mounts the public auth endpoints on the given group.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
}

func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid registration payload"))
		return
	}

	user, sessionToken, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, sessionToken, int(h.cfg.GetSessionTTL().Seconds()))
	httpkit.JSON(c, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid login payload"))
		return
	}

	user, sessionToken, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, sessionToken, int(h.cfg.GetSessionTTL().Seconds()))
	httpkit.OK(c, toUserResponse(user))
}

func (h *Handler) Logout(c *gin.Context) {
	sessionToken, _ := c.Cookie(h.cfg.GetSessionCookieName())
	if err := h.svc.Logout(c.Request.Context(), sessionToken); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	httpkit.Message(c, "Logged out")
}

// Me returns the authenticated user's profile. Mounted on the protected group.
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, toUserResponse(user))
}

// ChangePassword updates the password and revokes existing sessions, so the
// cookie is cleared as well.
func (h *Handler) ChangePassword(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Validation("Invalid password payload"))
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), identity.UserID(), req.CurrentPassword, req.NewPassword); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	httpkit.Message(c, "Password changed")
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(h.cfg.GetSessionCookieSameSite())
	c.SetCookie(
		h.cfg.GetSessionCookieName(),
		value,
		maxAge,
		"/",
		h.cfg.GetSessionCookieDomain(),
		h.cfg.GetSessionCookieSecure(),
		true,
	)
}

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Score:     u.Score,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
