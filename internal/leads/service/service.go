// Package service implements lead lifecycle management: creation with
// automatic scoring, pipeline transitions, and engagement bookkeeping.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadconvert/internal/events"
	"leadconvert/internal/leads/domain"
	"leadconvert/internal/leads/repository"
	"leadconvert/internal/leads/scoring"
	"leadconvert/platform/apperr"
	"leadconvert/platform/logger"
	"leadconvert/platform/phone"
	"leadconvert/platform/validator"

	"github.com/google/uuid"
)

// EngagementScoreBonus is added to the lead score on each tracking event.
const EngagementScoreBonus = 10

const placeholderName = "WhatsApp User"

// Scorer runs a scoring pass over a lead.
type Scorer interface {
	ScoreLead(ctx context.Context, leadID uuid.UUID) (scoring.Result, error)
}

type Service struct {
	repo   *repository.Repository
	scorer Scorer
	val    *validator.Validator
	bus    events.Bus
	log    *logger.Logger
}

func New(repo *repository.Repository, scorer Scorer, val *validator.Validator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, scorer: scorer, val: val, bus: bus, log: log}
}

type CreateLeadInput struct {
	Name           string
	Email          string
	Phone          string
	Source         domain.Source
	InitialMessage string
	Tags           []string
}

type UpdateLeadInput struct {
	Name           *string
	Email          *string
	Phone          *string
	Status         *domain.Status
	Tags           []string
	InitialMessage *string
}

type ListLeadsInput struct {
	Status string
	Source string
	Search string
	Page   int
	Limit  int
}

// Create inserts a lead and immediately runs a scoring pass over it. Scoring
// failure does not fail the creation; the lead keeps its zero score until the
// next run.
func (s *Service) Create(ctx context.Context, in CreateLeadInput, actorID *uuid.UUID) (repository.Lead, error) {
	const op = "leads.Create"

	if !in.Source.Valid() {
		return repository.Lead{}, apperr.Validation("Unknown lead source").WithOp(op)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.val.Var(email, "omitempty,email"); err != nil {
		return repository.Lead{}, apperr.Validation("Invalid email address").WithOp(op)
	}

	var initialMessage *string
	if msg := strings.TrimSpace(in.InitialMessage); msg != "" {
		initialMessage = &msg
	}

	lead, err := s.repo.Create(ctx, repository.CreateParams{
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		Phone:          phone.Normalize(in.Phone),
		Source:         in.Source,
		InitialMessage: initialMessage,
		Tags:           in.Tags,
		CreatedBy:      actorID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return repository.Lead{}, apperr.Conflict("A lead with this email already exists").WithOp(op)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "Failed to create lead", err).WithOp(op)
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		Source:    string(lead.Source),
		ActorID:   actorID,
	})

	if _, err := s.scorer.ScoreLead(ctx, lead.ID); err != nil {
		s.log.Error("scoring failed for new lead", "error", err, "leadId", lead.ID)
		return lead, nil
	}

	scored, err := s.repo.GetByID(ctx, lead.ID)
	if err != nil {
		return lead, nil
	}
	return scored, nil
}

// FindOrCreateByPhone resolves an inbound message sender to a lead, creating
// a placeholder when the phone number is unknown. Used by webhook ingestion.
func (s *Service) FindOrCreateByPhone(ctx context.Context, rawPhone, initialMessage string, source domain.Source) (repository.Lead, bool, error) {
	normalized := phone.Normalize(rawPhone)

	lead, err := s.repo.FindByPhone(ctx, normalized)
	if err == nil {
		return lead, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return repository.Lead{}, false, apperr.Wrap(apperr.KindInternal, "Failed to look up lead by phone", err)
	}

	created, err := s.Create(ctx, CreateLeadInput{
		Name:           placeholderName,
		Email:          placeholderEmail(normalized),
		Phone:          normalized,
		Source:         source,
		InitialMessage: initialMessage,
	}, nil)
	if err != nil {
		return repository.Lead{}, false, err
	}
	return created, true, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound("Lead not found")
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "Failed to load lead", err)
	}
	return lead, nil
}

func (s *Service) List(ctx context.Context, in ListLeadsInput) ([]repository.Lead, int64, error) {
	filter := repository.ListFilter{Search: strings.TrimSpace(in.Search)}

	if in.Status != "" {
		status := domain.Status(in.Status)
		if !status.Valid() {
			return nil, 0, apperr.Validation("Unknown status filter")
		}
		filter.Status = &status
	}
	if in.Source != "" {
		source := domain.Source(in.Source)
		if !source.Valid() {
			return nil, 0, apperr.Validation("Unknown source filter")
		}
		filter.Source = &source
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}
	page := in.Page
	if page <= 0 {
		page = 1
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	leads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindInternal, "Failed to list leads", err)
	}
	return leads, total, nil
}

// Update applies a partial update. Status changes are validated against the
// pipeline: stages only move forward, lost is reachable from any active
// stage, and terminal stages are frozen.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateLeadInput, actorID uuid.UUID) (repository.Lead, error) {
	const op = "leads.Update"

	current, err := s.Get(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}

	if in.Status != nil {
		if !domain.CanTransition(current.Status, *in.Status) {
			return repository.Lead{}, apperr.Validation(
				fmt.Sprintf("Invalid status transition from %s to %s", current.Status, *in.Status),
			).WithOp(op)
		}
	}

	params := repository.UpdateParams{
		Name:           in.Name,
		Status:         in.Status,
		Tags:           in.Tags,
		InitialMessage: in.InitialMessage,
	}
	if in.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := s.val.Var(normalized, "omitempty,email"); err != nil {
			return repository.Lead{}, apperr.Validation("Invalid email address").WithOp(op)
		}
		params.Email = &normalized
	}
	if in.Phone != nil {
		normalized := phone.Normalize(*in.Phone)
		params.Phone = &normalized
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return repository.Lead{}, apperr.Conflict("A lead with this email already exists").WithOp(op)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound("Lead not found").WithOp(op)
		}
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "Failed to update lead", err).WithOp(op)
	}

	s.bus.Publish(ctx, events.LeadUpdated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		Name:        lead.Name,
		ActorID:     actorID,
		Description: "Updated lead " + lead.Name,
	})

	return lead, nil
}

// Delete removes a lead and, via the database cascade, its interactions.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actorID uuid.UUID) error {
	lead, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Lead not found")
		}
		return apperr.Wrap(apperr.KindInternal, "Failed to delete lead", err)
	}

	s.bus.Publish(ctx, events.LeadDeleted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		ActorID:   actorID,
	})

	return nil
}

// MarkContacted promotes a new lead to contacted after its first real
// interaction. Leads already past that stage are untouched.
func (s *Service) MarkContacted(ctx context.Context, id uuid.UUID) error {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if lead.Status != domain.StatusNew {
		return nil
	}
	_, err = s.repo.SetStatus(ctx, id, domain.StatusContacted)
	return err
}

// StampInteraction records the latest interaction time and channel.
func (s *Service) StampInteraction(ctx context.Context, id uuid.UUID, channel string, at time.Time) error {
	return s.repo.StampInteraction(ctx, id, channel, at)
}

// StampEngagement records the time of a tracking event without touching the
// score. Used for email opens.
func (s *Service) StampEngagement(ctx context.Context, id uuid.UUID) error {
	return s.repo.StampEngagement(ctx, id, time.Now())
}

// RecordEngagement handles a tracking event that also signals buying intent:
// the engagement timestamp is stamped and the lead score gets a clamped
// bonus. Used for link clicks.
func (s *Service) RecordEngagement(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.StampEngagement(ctx, id, time.Now()); err != nil {
		return err
	}
	_, err := s.repo.AdjustScore(ctx, id, EngagementScoreBonus)
	return err
}

// Rescore triggers a fresh scoring pass for an existing lead.
func (s *Service) Rescore(ctx context.Context, id uuid.UUID) (scoring.Result, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return scoring.Result{}, err
	}
	result, err := s.scorer.ScoreLead(ctx, id)
	if err != nil {
		return scoring.Result{}, apperr.Wrap(apperr.KindInternal, "Failed to score lead", err)
	}
	return result, nil
}

func placeholderEmail(normalizedPhone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, normalizedPhone)
	return "whatsapp_" + digits + "@placeholder.local"
}
