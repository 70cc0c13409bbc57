// Package leads provides the lead management bounded context module.
package leads

import (
	"leadconvert/internal/events"
	apphttp "leadconvert/internal/http"
	"leadconvert/internal/leads/handler"
	"leadconvert/internal/leads/repository"
	"leadconvert/internal/leads/scoring"
	"leadconvert/internal/leads/service"
	"leadconvert/platform/httpkit"
	"leadconvert/platform/logger"
	"leadconvert/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	scorer  *scoring.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	scorer := scoring.NewService(repo, log)
	svc := service.New(repo, scorer, val, eventBus, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		scorer:  scorer,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// Scorer returns the scoring service for cross-module wiring.
func (m *Module) Scorer() *scoring.Service {
	return m.scorer
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	leads.GET("", m.handler.List)
	leads.POST("", m.handler.Create)
	leads.GET("/:id", m.handler.Get)
	leads.PATCH("/:id", m.handler.Update)
	leads.POST("/:id/score", m.handler.Rescore)

	// Destructive; leads are never hard-deleted except by an admin.
	leads.DELETE("/:id", httpkit.RequireRole("admin"), m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
