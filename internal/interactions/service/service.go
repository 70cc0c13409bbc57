// Package service implements interaction timeline logic: manual logging,
// system-recorded messages, and engagement tracking.
package service

import (
	"context"
	"errors"
	"time"

	"leadconvert/internal/events"
	"leadconvert/internal/interactions/repository"
	leadsrepo "leadconvert/internal/leads/repository"
	"leadconvert/platform/apperr"
	"leadconvert/platform/logger"

	"github.com/google/uuid"
)

// LeadDirectory is the slice of the leads service this module needs.
type LeadDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (leadsrepo.Lead, error)
	MarkContacted(ctx context.Context, id uuid.UUID) error
	StampInteraction(ctx context.Context, id uuid.UUID, channel string, at time.Time) error
	StampEngagement(ctx context.Context, id uuid.UUID) error
	RecordEngagement(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo  *repository.Repository
	leads LeadDirectory
	bus   events.Bus
	log   *logger.Logger
}

func New(repo *repository.Repository, leads LeadDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, leads: leads, bus: bus, log: log}
}

type CreateInput struct {
	LeadID      uuid.UUID
	Channel     string
	Direction   string
	Content     string
	Sentiment   *string
	IntentScore *float64
}

// Create logs an agent-entered interaction. An inbound interaction promotes a
// fresh lead to contacted, and the lead's last-interaction stamp is updated.
func (s *Service) Create(ctx context.Context, in CreateInput, actorID uuid.UUID) (repository.Interaction, error) {
	const op = "interactions.Create"

	lead, err := s.leads.Get(ctx, in.LeadID)
	if err != nil {
		return repository.Interaction{}, err
	}

	interaction, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID:      in.LeadID,
		Channel:     in.Channel,
		Direction:   in.Direction,
		Content:     in.Content,
		Type:        repository.TypeCommunication,
		Sentiment:   in.Sentiment,
		IntentScore: in.IntentScore,
		CreatedBy:   &actorID,
	})
	if err != nil {
		return repository.Interaction{}, apperr.Wrap(apperr.KindInternal, "Failed to create interaction", err).WithOp(op)
	}

	if in.Direction == repository.DirectionInbound {
		if err := s.leads.MarkContacted(ctx, in.LeadID); err != nil {
			s.log.Error("failed to mark lead contacted", "error", err, "leadId", in.LeadID)
		}
	}
	if err := s.leads.StampInteraction(ctx, in.LeadID, in.Channel, interaction.CreatedAt); err != nil {
		s.log.Error("failed to stamp lead interaction", "error", err, "leadId", in.LeadID)
	}

	s.bus.Publish(ctx, events.InteractionLogged{
		BaseEvent:     events.NewBaseEvent(),
		InteractionID: interaction.ID,
		LeadID:        in.LeadID,
		LeadName:      lead.Name,
		Channel:       in.Channel,
		Direction:     in.Direction,
		ActorID:       actorID,
	})

	return interaction, nil
}

// ListByLead returns conversation entries for a lead, optionally filtered by
// channel.
func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID, channel string) ([]repository.Interaction, error) {
	interactions, err := s.repo.ListByLead(ctx, leadID, channel)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to list interactions", err)
	}
	return interactions, nil
}

// Timeline returns every interaction for a lead, including engagement and
// insight entries.
func (s *Service) Timeline(ctx context.Context, leadID uuid.UUID) ([]repository.Interaction, error) {
	interactions, err := s.repo.ListAllByLead(ctx, leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load timeline", err)
	}
	return interactions, nil
}

type UpdateInput struct {
	Content     *string
	Sentiment   *string
	IntentScore *float64
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput, actorID uuid.UUID) (repository.Interaction, error) {
	interaction, err := s.repo.Update(ctx, id, repository.UpdateParams{
		Content:     in.Content,
		Sentiment:   in.Sentiment,
		IntentScore: in.IntentScore,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Interaction{}, apperr.NotFound("Interaction not found")
		}
		return repository.Interaction{}, apperr.Wrap(apperr.KindInternal, "Failed to update interaction", err)
	}

	s.bus.Publish(ctx, events.InteractionRemoved{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    interaction.LeadID,
		ActorID:   actorID,
		Action:    "updated",
	})

	return interaction, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	interaction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Interaction not found")
		}
		return apperr.Wrap(apperr.KindInternal, "Failed to load interaction", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindInternal, "Failed to delete interaction", err)
	}

	s.bus.Publish(ctx, events.InteractionRemoved{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    interaction.LeadID,
		ActorID:   actorID,
		Action:    "deleted",
	})

	return nil
}

// Conversations lists the most recent communication per lead and channel.
func (s *Service) Conversations(ctx context.Context) ([]repository.Conversation, error) {
	conversations, err := s.repo.Conversations(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load conversations", err)
	}
	return conversations, nil
}

// OutboundMessage is a system-sent message to record on the timeline.
type OutboundMessage struct {
	LeadID         uuid.UUID
	Channel        string
	Content        string
	ExternalID     *string
	DeliveryStatus *string
	ActorID        *uuid.UUID
}

// RecordOutbound logs a gateway-sent message. No domain event is published;
// activity points only reward manually logged work.
func (s *Service) RecordOutbound(ctx context.Context, msg OutboundMessage) (repository.Interaction, error) {
	neutral := "neutral"
	zero := 0.0

	interaction, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID:         msg.LeadID,
		Channel:        msg.Channel,
		Direction:      repository.DirectionOutbound,
		Content:        msg.Content,
		Type:           repository.TypeCommunication,
		Sentiment:      &neutral,
		IntentScore:    &zero,
		ExternalID:     msg.ExternalID,
		DeliveryStatus: msg.DeliveryStatus,
		CreatedBy:      msg.ActorID,
	})
	if err != nil {
		return repository.Interaction{}, err
	}

	if err := s.leads.StampInteraction(ctx, msg.LeadID, msg.Channel, interaction.CreatedAt); err != nil {
		s.log.Error("failed to stamp lead interaction", "error", err, "leadId", msg.LeadID)
	}
	return interaction, nil
}

// InboundMessage is a webhook-received message to record on the timeline.
type InboundMessage struct {
	LeadID     uuid.UUID
	Channel    string
	Content    string
	ExternalID *string
}

// RecordInbound logs a message received through a webhook.
func (s *Service) RecordInbound(ctx context.Context, msg InboundMessage) (repository.Interaction, error) {
	interaction, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID:     msg.LeadID,
		Channel:    msg.Channel,
		Direction:  repository.DirectionInbound,
		Content:    msg.Content,
		Type:       repository.TypeCommunication,
		ExternalID: msg.ExternalID,
	})
	if err != nil {
		return repository.Interaction{}, err
	}

	if err := s.leads.StampInteraction(ctx, msg.LeadID, msg.Channel, interaction.CreatedAt); err != nil {
		s.log.Error("failed to stamp lead interaction", "error", err, "leadId", msg.LeadID)
	}
	return interaction, nil
}

// TrackEmailOpen records an email-open engagement. Opens stamp the lead but
// do not change its score.
func (s *Service) TrackEmailOpen(ctx context.Context, leadID uuid.UUID) error {
	if _, err := s.leads.Get(ctx, leadID); err != nil {
		return err
	}

	if _, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID:    leadID,
		Channel:   "email",
		Direction: repository.DirectionInbound,
		Content:   "Email opened",
		Type:      repository.TypeEngagement,
	}); err != nil {
		return apperr.Wrap(apperr.KindInternal, "Failed to record engagement", err)
	}

	return s.leads.StampEngagement(ctx, leadID)
}

// TrackLinkClick records a link-click engagement and applies the clamped
// score bonus.
func (s *Service) TrackLinkClick(ctx context.Context, leadID uuid.UUID, url string) error {
	if _, err := s.leads.Get(ctx, leadID); err != nil {
		return err
	}

	if _, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID:    leadID,
		Channel:   "web",
		Direction: repository.DirectionInbound,
		Content:   "Clicked link: " + url,
		Type:      repository.TypeEngagement,
	}); err != nil {
		return apperr.Wrap(apperr.KindInternal, "Failed to record engagement", err)
	}

	return s.leads.RecordEngagement(ctx, leadID)
}
