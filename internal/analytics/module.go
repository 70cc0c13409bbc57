// Package analytics provides the read-side reporting bounded context module.
package analytics

import (
	"leadconvert/internal/analytics/handler"
	"leadconvert/internal/analytics/repository"
	"leadconvert/internal/analytics/service"
	apphttp "leadconvert/internal/http"
	"leadconvert/platform/httpkit"
	"leadconvert/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analytics bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the analytics module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "analytics"
}

// RegisterRoutes mounts analytics routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	analytics := ctx.Protected.Group("/analytics")

	analytics.GET("/leads/status", m.handler.LeadStatusCounts)
	analytics.GET("/leads/source", m.handler.LeadSourceCounts)
	analytics.GET("/leads/scores", m.handler.ScoreDistribution)
	analytics.GET("/leads/time", m.handler.LeadsOverTime)
	analytics.GET("/conversions", m.handler.Conversions)
	analytics.GET("/interactions/channel", m.handler.InteractionChannelCounts)
	analytics.GET("/dashboard", m.handler.Dashboard)

	analytics.GET("/insights/lead/:leadId", m.handler.InsightsByLead)
	analytics.GET("/insights/recent", m.handler.RecentInsights)
	analytics.POST("/insights", m.handler.CreateInsight)

	analytics.GET("/users/top", httpkit.RequireRole("admin", "manager"), m.handler.TopUsers)
	analytics.GET("/users/activity", m.handler.UserActivity)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
