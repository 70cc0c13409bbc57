// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadconvert/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserRegistered is published when a new user account is created.
type UserRegistered struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

func (e UserRegistered) EventName() string { return "auth.user.registered" }

// UserLoggedIn is published on every successful login. The scores module
// reacts by awarding login points and stamping last_login.
type UserLoggedIn struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
}

func (e UserLoggedIn) EventName() string { return "auth.user.logged_in" }

// PasswordChanged is published when a user changes their password.
type PasswordChanged struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
}

func (e PasswordChanged) EventName() string { return "auth.password.changed" }

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created, manually or via webhook.
type LeadCreated struct {
	BaseEvent
	LeadID   uuid.UUID  `json:"leadId"`
	Name     string     `json:"name"`
	Source   string     `json:"source"`
	ActorID  *uuid.UUID `json:"actorId,omitempty"` // nil for webhook-created leads
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadUpdated is published when an agent updates a lead.
type LeadUpdated struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	Name        string    `json:"name"`
	ActorID     uuid.UUID `json:"actorId"`
	Description string    `json:"description"`
}

func (e LeadUpdated) EventName() string { return "leads.lead.updated" }

// LeadDeleted is published when an admin deletes a lead.
type LeadDeleted struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	Name    string    `json:"name"`
	ActorID uuid.UUID `json:"actorId"`
}

func (e LeadDeleted) EventName() string { return "leads.lead.deleted" }

// =============================================================================
// Interactions Domain Events
// =============================================================================

// InteractionLogged is published when an agent manually logs an interaction.
// System-generated interactions (webhooks, gateway sends, insights) do not
// publish it; activity points only reward agent work.
type InteractionLogged struct {
	BaseEvent
	InteractionID uuid.UUID `json:"interactionId"`
	LeadID        uuid.UUID `json:"leadId"`
	LeadName      string    `json:"leadName"`
	Channel       string    `json:"channel"`
	Direction     string    `json:"direction"`
	ActorID       uuid.UUID `json:"actorId"`
}

func (e InteractionLogged) EventName() string { return "interactions.logged" }

// InteractionRemoved is published when an agent edits or deletes an interaction.
type InteractionRemoved struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	ActorID uuid.UUID `json:"actorId"`
	Action  string    `json:"action"` // "updated" or "deleted"
}

func (e InteractionRemoved) EventName() string { return "interactions.removed" }
