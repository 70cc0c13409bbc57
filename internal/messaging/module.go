// Package messaging provides the outbound messaging bounded context module.
package messaging

import (
	"leadconvert/internal/email"
	apphttp "leadconvert/internal/http"
	"leadconvert/internal/messaging/handler"
	"leadconvert/internal/messaging/service"
	"leadconvert/platform/config"
	"leadconvert/platform/logger"
)

// Module is the messaging bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the messaging module. WhatsApp and AI
// clients are wired afterwards by the composition root since both are
// optional.
func NewModule(leads service.LeadReader, timeline service.TimelineWriter, mail email.Sender, cfg config.AppConfig, log *logger.Logger) *Module {
	svc := service.New(leads, timeline, mail, cfg, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "messaging"
}

// Service returns the messaging service for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts messaging routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	messaging := ctx.Protected.Group("/messaging")
	messaging.POST("/whatsapp", m.handler.SendWhatsApp)
	messaging.POST("/email", m.handler.SendEmail)
	messaging.POST("/outreach", m.handler.SendOutreach)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
