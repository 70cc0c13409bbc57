// Package transport defines the JSON shapes served by the analytics module.
package transport

import (
	"encoding/json"
	"time"

	"leadconvert/internal/analytics/repository"
	"leadconvert/internal/analytics/service"

	"github.com/google/uuid"
)

type ConversionsResponse struct {
	TotalLeads     int64   `json:"totalLeads"`
	ConvertedLeads int64   `json:"convertedLeads"`
	LostLeads      int64   `json:"lostLeads"`
	ConversionRate float64 `json:"conversionRate"`
}

type ScoreBucketResponse struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type TimePointResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type RecentLeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	LeadScore int       `json:"leadScore"`
	CreatedAt time.Time `json:"createdAt"`
}

type RecentInteractionResponse struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"leadId"`
	LeadName  string    `json:"leadName"`
	Channel   string    `json:"channel"`
	Direction string    `json:"direction"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

type LeadCountsResponse struct {
	Total               int64 `json:"total"`
	Qualified           int64 `json:"qualified"`
	Converted           int64 `json:"converted"`
	ActiveConversations int64 `json:"activeConversations"`
	NewToday            int64 `json:"newToday"`
}

type DashboardResponse struct {
	LeadCounts         LeadCountsResponse          `json:"leadCounts"`
	LeadsByStatus      map[string]int64            `json:"leadsByStatus"`
	LeadsBySource      map[string]int64            `json:"leadsBySource"`
	Conversions        ConversionsResponse         `json:"conversions"`
	ScoreDistribution  []ScoreBucketResponse       `json:"scoreDistribution"`
	ChannelEngagement  map[string]int64            `json:"channelEngagement"`
	RecentLeads        []RecentLeadResponse        `json:"recentLeads"`
	RecentInteractions []RecentInteractionResponse `json:"recentInteractions"`
}

type CreateInsightRequest struct {
	LeadID             string          `json:"leadId" binding:"required,uuid"`
	Insights           json.RawMessage `json:"insights"`
	RecommendedActions json.RawMessage `json:"recommendedActions"`
}

type InsightResponse struct {
	ID                 uuid.UUID       `json:"id"`
	LeadID             uuid.UUID       `json:"leadId"`
	LeadName           string          `json:"leadName,omitempty"`
	Content            string          `json:"content"`
	Insights           json.RawMessage `json:"insights"`
	RecommendedActions json.RawMessage `json:"recommendedActions"`
	CreatedAt          time.Time       `json:"timestamp"`
}

type UserPerformanceResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Score     int64      `json:"score"`
	LastLogin *time.Time `json:"lastLogin"`
}

type ActivityTypeSummaryResponse struct {
	Count  int64 `json:"count"`
	Points int64 `json:"points"`
}

type UserActivityResponse struct {
	UserID            uuid.UUID                              `json:"userId"`
	Name              string                                 `json:"name"`
	Email             string                                 `json:"email"`
	Role              string                                 `json:"role"`
	TotalScore        int64                                  `json:"totalScore"`
	Last30DaysScore   int64                                  `json:"last30DaysScore"`
	ActivityBreakdown map[string]ActivityTypeSummaryResponse `json:"activityBreakdown"`
}

func ToConversionsResponse(c service.Conversions) ConversionsResponse {
	return ConversionsResponse{
		TotalLeads:     c.TotalLeads,
		ConvertedLeads: c.ConvertedLeads,
		LostLeads:      c.LostLeads,
		ConversionRate: c.ConversionRate,
	}
}

func ToScoreDistribution(buckets []repository.ScoreBucket) []ScoreBucketResponse {
	out := make([]ScoreBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, ScoreBucketResponse{Range: b.Range, Count: b.Count})
	}
	return out
}

func ToTimeSeries(points []repository.TimePoint) []TimePointResponse {
	out := make([]TimePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, TimePointResponse{Date: p.Date, Count: p.Count})
	}
	return out
}

func ToRecentLeads(leads []repository.RecentLead) []RecentLeadResponse {
	out := make([]RecentLeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, RecentLeadResponse{
			ID:        l.ID,
			Name:      l.Name,
			Email:     l.Email,
			Source:    l.Source,
			Status:    l.Status,
			LeadScore: l.LeadScore,
			CreatedAt: l.CreatedAt,
		})
	}
	return out
}

func ToRecentInteractions(interactions []repository.RecentInteraction) []RecentInteractionResponse {
	out := make([]RecentInteractionResponse, 0, len(interactions))
	for _, i := range interactions {
		out = append(out, RecentInteractionResponse{
			ID:        i.ID,
			LeadID:    i.LeadID,
			LeadName:  i.LeadName,
			Channel:   i.Channel,
			Direction: i.Direction,
			Content:   i.Content,
			CreatedAt: i.CreatedAt,
		})
	}
	return out
}

func ToDashboardResponse(d service.Dashboard) DashboardResponse {
	return DashboardResponse{
		LeadCounts: LeadCountsResponse{
			Total:               d.LeadCounts.Total,
			Qualified:           d.LeadCounts.Qualified,
			Converted:           d.LeadCounts.Converted,
			ActiveConversations: d.LeadCounts.ActiveConversations,
			NewToday:            d.LeadCounts.NewToday,
		},
		LeadsByStatus:      d.LeadsByStatus,
		LeadsBySource:      d.LeadsBySource,
		Conversions:        ToConversionsResponse(d.Conversions),
		ScoreDistribution:  ToScoreDistribution(d.ScoreDistribution),
		ChannelEngagement:  d.ChannelEngagement,
		RecentLeads:        ToRecentLeads(d.RecentLeads),
		RecentInteractions: ToRecentInteractions(d.RecentInteractions),
	}
}

func ToInsightResponse(i repository.Insight) InsightResponse {
	return InsightResponse{
		ID:                 i.ID,
		LeadID:             i.LeadID,
		LeadName:           i.LeadName,
		Content:            i.Content,
		Insights:           i.Insights,
		RecommendedActions: i.RecommendedActions,
		CreatedAt:          i.CreatedAt,
	}
}

func ToInsightList(insights []repository.Insight) []InsightResponse {
	out := make([]InsightResponse, 0, len(insights))
	for _, i := range insights {
		out = append(out, ToInsightResponse(i))
	}
	return out
}

func ToUserPerformanceList(users []repository.UserPerformance) []UserPerformanceResponse {
	out := make([]UserPerformanceResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserPerformanceResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			Score:     u.Score,
			LastLogin: u.LastLogin,
		})
	}
	return out
}

func ToUserActivityList(summaries []repository.UserActivity) []UserActivityResponse {
	out := make([]UserActivityResponse, 0, len(summaries))
	for _, s := range summaries {
		breakdown := make(map[string]ActivityTypeSummaryResponse, len(s.Breakdown))
		var windowPoints int64
		for _, b := range s.Breakdown {
			breakdown[b.Type] = ActivityTypeSummaryResponse{Count: b.Count, Points: b.Points}
			windowPoints += b.Points
		}
		out = append(out, UserActivityResponse{
			UserID:            s.UserID,
			Name:              s.Name,
			Email:             s.Email,
			Role:              s.Role,
			TotalScore:        s.TotalScore,
			Last30DaysScore:   windowPoints,
			ActivityBreakdown: breakdown,
		})
	}
	return out
}
