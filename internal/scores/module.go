// Package scores provides the gamified activity score bounded context module.
// Points are awarded by reacting to domain events from other modules rather
// than by direct calls, keeping the reward policy in one place.
package scores

import (
	"context"
	"fmt"
	"strings"

	"leadconvert/internal/events"
	apphttp "leadconvert/internal/http"
	"leadconvert/internal/scores/handler"
	"leadconvert/internal/scores/repository"
	"leadconvert/internal/scores/service"
	"leadconvert/platform/httpkit"
	"leadconvert/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the scores bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

// NewModule creates and initializes the scores module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scores"
}

// Service returns the scores service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterHandlers subscribes the point-award reactions to domain events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.UserLoggedIn{}.EventName(), events.HandlerFunc(m.onUserLoggedIn))
	bus.Subscribe(events.PasswordChanged{}.EventName(), events.HandlerFunc(m.onPasswordChanged))
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(m.onLeadCreated))
	bus.Subscribe(events.LeadUpdated{}.EventName(), events.HandlerFunc(m.onLeadUpdated))
	bus.Subscribe(events.LeadDeleted{}.EventName(), events.HandlerFunc(m.onLeadDeleted))
	bus.Subscribe(events.InteractionLogged{}.EventName(), events.HandlerFunc(m.onInteractionLogged))
	bus.Subscribe(events.InteractionRemoved{}.EventName(), events.HandlerFunc(m.onInteractionRemoved))
}

func (m *Module) onUserLoggedIn(ctx context.Context, event events.Event) error {
	e, ok := event.(events.UserLoggedIn)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	return m.service.RecordLogin(ctx, e.UserID)
}

func (m *Module) onPasswordChanged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.PasswordChanged)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	_, err := m.service.AddActivity(ctx, e.UserID, service.ActivityOther, "Changed password")
	return err
}

func (m *Module) onLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	// Webhook-created leads have no actor and earn nobody points.
	if e.ActorID == nil {
		return nil
	}
	_, err := m.service.AddActivity(ctx, *e.ActorID, service.ActivityCreateLead, "Created new lead: "+e.Name)
	return err
}

func (m *Module) onLeadUpdated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadUpdated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	_, err := m.service.AddActivity(ctx, e.ActorID, service.ActivityUpdateLead, e.Description)
	return err
}

func (m *Module) onLeadDeleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadDeleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	_, err := m.service.AddActivity(ctx, e.ActorID, service.ActivityOther, "Deleted lead: "+e.Name)
	return err
}

func (m *Module) onInteractionLogged(ctx context.Context, event events.Event) error {
	e, ok := event.(events.InteractionLogged)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	description := fmt.Sprintf("Created %s interaction via %s for lead %s", e.Direction, e.Channel, e.LeadName)
	_, err := m.service.AddActivity(ctx, e.ActorID, service.ActivityInteraction, description)
	return err
}

func (m *Module) onInteractionRemoved(ctx context.Context, event events.Event) error {
	e, ok := event.(events.InteractionRemoved)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	description := fmt.Sprintf("%s interaction for lead ID %s", capitalize(e.Action), e.LeadID)
	_, err := m.service.AddActivity(ctx, e.ActorID, service.ActivityOther, description)
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// RegisterRoutes mounts score routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	scores := ctx.Protected.Group("/scores")
	scores.GET("/me", m.handler.Me)
	scores.GET("/leaderboard", m.handler.Leaderboard)
	scores.GET("/user/:userId", httpkit.RequireRole("admin", "manager"), m.handler.UserScore)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
