package scoring

import (
	"context"
	"fmt"

	"leadconvert/internal/leads/domain"
	"leadconvert/internal/leads/repository"
	"leadconvert/platform/logger"

	"github.com/google/uuid"
)

// Insights is the structured scoring breakdown persisted with each run.
type Insights struct {
	Score   float64        `json:"score"`
	Factors InsightFactors `json:"factors"`
}

type InsightFactors struct {
	Source             float64 `json:"source"`
	MessageAnalysis    string  `json:"messageAnalysis"`
	InteractionQuality string  `json:"interactionQuality"`
}

// RecommendedAction is a follow-up suggestion derived from the score.
type RecommendedAction struct {
	Action      string `json:"action"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// SignalSource supplies interaction signals for a lead. Implemented by the
// interactions module; insight rows are excluded so scoring runs do not feed
// back into themselves.
type SignalSource interface {
	ScoringSignals(ctx context.Context, leadID uuid.UUID) ([]Signal, error)
}

// InsightRecorder persists a scoring run as an insight entry on the lead's
// timeline. Implemented by the interactions module.
type InsightRecorder interface {
	RecordInsight(ctx context.Context, leadID uuid.UUID, insights Insights, actions []RecommendedAction) error
}

// Service orchestrates a scoring run: gather inputs, compute, persist, and
// record the insight.
type Service struct {
	repo     *repository.Repository
	signals  SignalSource
	recorder InsightRecorder
	log      *logger.Logger
}

func NewService(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetSignalSource wires the interactions module in the composition root.
func (s *Service) SetSignalSource(src SignalSource) { s.signals = src }

// SetInsightRecorder wires the interactions module in the composition root.
func (s *Service) SetInsightRecorder(rec InsightRecorder) { s.recorder = rec }

// ScoreLead computes and persists the score for a lead. A lead still in the
// new status is promoted to qualified when the score crosses the threshold;
// leads further along the pipeline keep their status.
func (s *Service) ScoreLead(ctx context.Context, leadID uuid.UUID) (Result, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return Result{}, fmt.Errorf("load lead for scoring: %w", err)
	}

	var signals []Signal
	if s.signals != nil {
		signals, err = s.signals.ScoringSignals(ctx, leadID)
		if err != nil {
			return Result{}, fmt.Errorf("load scoring signals: %w", err)
		}
	}

	initialMessage := ""
	if lead.InitialMessage != nil {
		initialMessage = *lead.InitialMessage
	}

	result := Compute(Input{
		Source:         lead.Source,
		InitialMessage: initialMessage,
		Signals:        signals,
	})

	promote := domain.ApplyScoreRecommendation(lead.Status, result.Score) != lead.Status
	if _, err := s.repo.SetScore(ctx, leadID, result.Score, promote); err != nil {
		return Result{}, fmt.Errorf("persist lead score: %w", err)
	}

	if s.recorder != nil {
		if err := s.recorder.RecordInsight(ctx, leadID, s.buildInsights(lead, signals, result), buildActions(result)); err != nil {
			// Insight entries are advisory; the score itself is already saved.
			s.log.Error("failed to record scoring insight", "error", err, "leadId", leadID)
		}
	}

	s.log.Info("lead scored", "leadId", leadID, "score", result.Score, "qualified", result.Qualified)
	return result, nil
}

func (s *Service) buildInsights(lead repository.Lead, signals []Signal, result Result) Insights {
	messageAnalysis := "neutral"
	if lead.InitialMessage != nil && *lead.InitialMessage != "" {
		messageAnalysis = "positive"
	}
	interactionQuality := "needs_followup"
	if len(signals) > 0 {
		interactionQuality = "good"
	}
	return Insights{
		Score: result.Score,
		Factors: InsightFactors{
			Source:             sourceWeights[lead.Source],
			MessageAnalysis:    messageAnalysis,
			InteractionQuality: interactionQuality,
		},
	}
}

func buildActions(result Result) []RecommendedAction {
	priority := "medium"
	description := "Schedule follow-up within 24 hours"
	if result.Qualified {
		priority = "high"
		description = "High priority lead - immediate follow-up recommended"
	}
	return []RecommendedAction{{
		Action:      "Follow Up",
		Priority:    priority,
		Description: description,
	}}
}
