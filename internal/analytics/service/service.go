// Package service assembles analytics snapshots from the aggregation queries.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"leadconvert/internal/analytics/repository"
	"leadconvert/platform/apperr"
	"leadconvert/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultTimeSeriesDays = 30
	defaultInsightLimit   = 10
	defaultTopUserLimit   = 10
	dashboardRecentLimit  = 5
	activityLookbackDays  = 30
	maxTimeSeriesDays     = 365
	maxListLimit          = 100
)

type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) LeadStatusCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.LeadStatusCounts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load status distribution", err)
	}
	return counts, nil
}

func (s *Service) LeadSourceCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.LeadSourceCounts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load source distribution", err)
	}
	return counts, nil
}

func (s *Service) InteractionChannelCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.InteractionChannelCounts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load channel distribution", err)
	}
	return counts, nil
}

// Conversions carries the funnel totals plus the derived rate.
type Conversions struct {
	TotalLeads     int64
	ConvertedLeads int64
	LostLeads      int64
	ConversionRate float64
}

func (s *Service) Conversions(ctx context.Context) (Conversions, error) {
	metrics, err := s.repo.ConversionMetrics(ctx)
	if err != nil {
		return Conversions{}, apperr.Wrap(apperr.KindInternal, "Failed to load conversion metrics", err)
	}
	return toConversions(metrics), nil
}

func toConversions(m repository.ConversionMetrics) Conversions {
	c := Conversions{
		TotalLeads:     m.TotalLeads,
		ConvertedLeads: m.ConvertedLeads,
		LostLeads:      m.LostLeads,
	}
	if m.TotalLeads > 0 {
		c.ConversionRate = float64(m.ConvertedLeads) / float64(m.TotalLeads) * 100
	}
	return c
}

func (s *Service) ScoreDistribution(ctx context.Context) ([]repository.ScoreBucket, error) {
	distribution, err := s.repo.ScoreDistribution(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load score distribution", err)
	}
	return distribution, nil
}

// LeadsOverTime returns per-day creation counts over the lookback window.
func (s *Service) LeadsOverTime(ctx context.Context, days int) ([]repository.TimePoint, error) {
	if days <= 0 {
		days = defaultTimeSeriesDays
	}
	if days > maxTimeSeriesDays {
		days = maxTimeSeriesDays
	}
	since := time.Now().AddDate(0, 0, -days)
	points, err := s.repo.LeadsOverTime(ctx, since)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load lead time series", err)
	}
	return points, nil
}

// LeadCounts is the dashboard headline block.
type LeadCounts struct {
	Total               int64
	Qualified           int64
	Converted           int64
	ActiveConversations int64
	NewToday            int64
}

// Dashboard is the aggregate snapshot served in one round trip.
type Dashboard struct {
	LeadCounts         LeadCounts
	LeadsByStatus      map[string]int64
	LeadsBySource      map[string]int64
	Conversions        Conversions
	ScoreDistribution  []repository.ScoreBucket
	ChannelEngagement  map[string]int64
	RecentLeads        []repository.RecentLead
	RecentInteractions []repository.RecentInteraction
}

// Dashboard fans the snapshot queries out in parallel and fails fast if any
// of them errors.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var dashboard Dashboard

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.repo.LeadStatusCounts(ctx)
		dashboard.LeadsByStatus = counts
		return err
	})
	g.Go(func() error {
		counts, err := s.repo.LeadSourceCounts(ctx)
		dashboard.LeadsBySource = counts
		return err
	})
	g.Go(func() error {
		metrics, err := s.repo.ConversionMetrics(ctx)
		dashboard.Conversions = toConversions(metrics)
		return err
	})
	g.Go(func() error {
		distribution, err := s.repo.ScoreDistribution(ctx)
		dashboard.ScoreDistribution = distribution
		return err
	})
	g.Go(func() error {
		counts, err := s.repo.InteractionChannelCounts(ctx)
		dashboard.ChannelEngagement = counts
		return err
	})
	g.Go(func() error {
		leads, err := s.repo.RecentLeads(ctx, dashboardRecentLimit)
		dashboard.RecentLeads = leads
		return err
	})
	g.Go(func() error {
		interactions, err := s.repo.RecentInteractions(ctx, dashboardRecentLimit)
		dashboard.RecentInteractions = interactions
		return err
	})
	g.Go(func() error {
		count, err := s.repo.LeadsCreatedSince(ctx, startOfToday())
		dashboard.LeadCounts.NewToday = count
		return err
	})
	g.Go(func() error {
		count, err := s.repo.ActiveConversations(ctx)
		dashboard.LeadCounts.ActiveConversations = count
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, apperr.Wrap(apperr.KindInternal, "Failed to load dashboard data", err)
	}

	for _, count := range dashboard.LeadsByStatus {
		dashboard.LeadCounts.Total += count
	}
	dashboard.LeadCounts.Qualified = dashboard.LeadsByStatus["qualified"]
	dashboard.LeadCounts.Converted = dashboard.LeadsByStatus["converted"]

	return dashboard, nil
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (s *Service) InsightsByLead(ctx context.Context, leadID uuid.UUID) ([]repository.Insight, error) {
	insights, err := s.repo.InsightsByLead(ctx, leadID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load lead insights", err)
	}
	return insights, nil
}

func (s *Service) RecentInsights(ctx context.Context, limit int) ([]repository.Insight, error) {
	if limit <= 0 {
		limit = defaultInsightLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	insights, err := s.repo.RecentInsights(ctx, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load recent insights", err)
	}
	return insights, nil
}

// CreateInsight stores a manually submitted insight against a lead.
func (s *Service) CreateInsight(ctx context.Context, leadID uuid.UUID, insights, actions json.RawMessage, createdBy uuid.UUID) (repository.Insight, error) {
	insight, err := s.repo.CreateInsight(ctx, repository.CreateInsightParams{
		LeadID:             leadID,
		Insights:           insights,
		RecommendedActions: actions,
		CreatedBy:          createdBy,
	})
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return repository.Insight{}, apperr.NotFound("Lead not found")
		}
		return repository.Insight{}, apperr.Wrap(apperr.KindInternal, "Failed to create insight", err)
	}
	return insight, nil
}

func (s *Service) TopUsers(ctx context.Context, limit int) ([]repository.UserPerformance, error) {
	if limit <= 0 {
		limit = defaultTopUserLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	users, err := s.repo.TopUsers(ctx, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load top users", err)
	}
	return users, nil
}

// UserActivity returns the 30-day activity breakdown scoped to the caller's
// role: admins see everyone, managers see non-admins, agents see themselves.
func (s *Service) UserActivity(ctx context.Context, requesterID uuid.UUID, role string) ([]repository.UserActivity, error) {
	scope := scopeForRole(requesterID, role)
	since := time.Now().AddDate(0, 0, -activityLookbackDays)

	summaries, err := s.repo.UserActivitySummaries(ctx, scope, since)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load user activity", err)
	}
	return summaries, nil
}

func scopeForRole(requesterID uuid.UUID, role string) repository.ActivityScope {
	switch role {
	case "admin":
		return repository.ActivityScope{}
	case "manager":
		return repository.ActivityScope{ExcludeAdmins: true}
	default:
		return repository.ActivityScope{UserID: &requesterID}
	}
}
