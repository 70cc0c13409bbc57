// Package adapters contains anti-corruption-layer adapters that wire
// bounded contexts together without direct dependencies between them.
package adapters

import (
	"context"
	"encoding/json"

	"leadconvert/internal/interactions/repository"
	"leadconvert/internal/leads/scoring"

	"github.com/google/uuid"
)

// ScoringSignalsAdapter feeds interaction signals to the scoring engine.
type ScoringSignalsAdapter struct {
	repo *repository.Repository
}

func NewScoringSignalsAdapter(repo *repository.Repository) *ScoringSignalsAdapter {
	return &ScoringSignalsAdapter{repo: repo}
}

func (a *ScoringSignalsAdapter) ScoringSignals(ctx context.Context, leadID uuid.UUID) ([]scoring.Signal, error) {
	signals, err := a.repo.ScoringSignals(ctx, leadID)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.Signal, 0, len(signals))
	for _, s := range signals {
		out = append(out, scoring.Signal{
			Sentiment:   s.Sentiment,
			IntentScore: s.IntentScore,
		})
	}
	return out, nil
}

// InsightRecorderAdapter persists scoring runs as insight interactions.
type InsightRecorderAdapter struct {
	repo *repository.Repository
}

func NewInsightRecorderAdapter(repo *repository.Repository) *InsightRecorderAdapter {
	return &InsightRecorderAdapter{repo: repo}
}

func (a *InsightRecorderAdapter) RecordInsight(ctx context.Context, leadID uuid.UUID, insights scoring.Insights, actions []scoring.RecommendedAction) error {
	insightsJSON, err := json.Marshal(insights)
	if err != nil {
		return err
	}
	actionsJSON, err := json.Marshal(actions)
	if err != nil {
		return err
	}

	_, err = a.repo.Create(ctx, repository.CreateParams{
		LeadID:             leadID,
		Channel:            "other",
		Direction:          repository.DirectionOutbound,
		Content:            "Lead scoring insight",
		Type:               repository.TypeInsight,
		Insights:           insightsJSON,
		RecommendedActions: actionsJSON,
	})
	return err
}

// Compile-time interface checks
var _ scoring.SignalSource = (*ScoringSignalsAdapter)(nil)
var _ scoring.InsightRecorder = (*InsightRecorderAdapter)(nil)
