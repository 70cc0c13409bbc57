package webhook

import (
	apphttp "leadconvert/internal/http"
	"leadconvert/platform/config"
	"leadconvert/platform/logger"
)

// Config combines the configuration slices the webhook module needs.
type Config interface {
	config.TwilioConfig
	config.AppConfig
}

// Module is the webhook ingestion module implementing http.Module.
type Module struct {
	handler *Handler
	cfg     Config
	log     *logger.Logger
}

// NewModule creates and initializes the webhook module.
func NewModule(leads LeadResolver, timeline TimelineRecorder, cfg Config, log *logger.Logger) *Module {
	return &Module{
		handler: NewHandler(leads, timeline, log),
		cfg:     cfg,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts webhook routes. These are provider-facing and carry
// no session; the WhatsApp route is guarded by signature verification.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	webhooks := ctx.API.Group("/webhooks")
	webhooks.POST("/whatsapp", TwilioSignature(m.cfg, m.cfg, m.log), m.handler.WhatsApp)
	webhooks.POST("/email", m.handler.Email)
	webhooks.GET("/email-tracker/:leadId/:messageId", m.handler.EmailTracker)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
