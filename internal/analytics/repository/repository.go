// Package repository holds the read-side aggregation queries for analytics.
// Everything here is computed on demand; there is no caching layer.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrLeadNotFound = errors.New("lead not found")

// scoreBuckets is the fixed bucket order for score distributions.
var scoreBuckets = []string{"0-20", "21-40", "41-60", "61-80", "81-100"}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LeadStatusCounts returns the number of leads per status.
func (r *Repository) LeadStatusCounts(ctx context.Context) (map[string]int64, error) {
	return r.groupedCounts(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
}

// LeadSourceCounts returns the number of leads per source.
func (r *Repository) LeadSourceCounts(ctx context.Context) (map[string]int64, error) {
	return r.groupedCounts(ctx, `SELECT source, COUNT(*) FROM leads GROUP BY source`)
}

// InteractionChannelCounts returns the number of interactions per channel.
func (r *Repository) InteractionChannelCounts(ctx context.Context) (map[string]int64, error) {
	return r.groupedCounts(ctx, `SELECT channel, COUNT(*) FROM interactions GROUP BY channel`)
}

func (r *Repository) groupedCounts(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query grouped counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scan grouped count: %w", err)
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

// ConversionMetrics holds overall funnel totals.
type ConversionMetrics struct {
	TotalLeads     int64
	ConvertedLeads int64
	LostLeads      int64
}

func (r *Repository) ConversionMetrics(ctx context.Context) (ConversionMetrics, error) {
	var m ConversionMetrics
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'converted'),
		       COUNT(*) FILTER (WHERE status = 'lost')
		FROM leads`).Scan(&m.TotalLeads, &m.ConvertedLeads, &m.LostLeads)
	if err != nil {
		return ConversionMetrics{}, fmt.Errorf("query conversion metrics: %w", err)
	}
	return m, nil
}

// ScoreBucket is one slice of the lead score distribution.
type ScoreBucket struct {
	Range string
	Count int64
}

// ScoreDistribution returns lead counts in five fixed score ranges. Empty
// buckets are included with a zero count so charts always render all bands.
func (r *Repository) ScoreDistribution(ctx context.Context) ([]ScoreBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT CASE
			WHEN lead_score <= 20 THEN '0-20'
			WHEN lead_score <= 40 THEN '21-40'
			WHEN lead_score <= 60 THEN '41-60'
			WHEN lead_score <= 80 THEN '61-80'
			ELSE '81-100'
		END AS bucket, COUNT(*)
		FROM leads
		GROUP BY bucket`)
	if err != nil {
		return nil, fmt.Errorf("query score distribution: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64, len(scoreBuckets))
	for rows.Next() {
		var bucket string
		var count int64
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("scan score bucket: %w", err)
		}
		counts[bucket] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	distribution := make([]ScoreBucket, 0, len(scoreBuckets))
	for _, bucket := range scoreBuckets {
		distribution = append(distribution, ScoreBucket{Range: bucket, Count: counts[bucket]})
	}
	return distribution, nil
}

// TimePoint is a per-day creation count.
type TimePoint struct {
	Date  string
	Count int64
}

// LeadsOverTime returns per-calendar-day lead creation counts since the
// given lookback window.
func (r *Repository) LeadsOverTime(ctx context.Context, since time.Time) ([]TimePoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT created_at::date AS day, COUNT(*)
		FROM leads
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("query leads over time: %w", err)
	}
	defer rows.Close()

	var points []TimePoint
	for rows.Next() {
		var day time.Time
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan time point: %w", err)
		}
		points = append(points, TimePoint{Date: day.Format("2006-01-02"), Count: count})
	}
	return points, rows.Err()
}

// RecentLead is the trimmed lead row shown on the dashboard.
type RecentLead struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Source    string
	Status    string
	LeadScore int
	CreatedAt time.Time
}

func (r *Repository) RecentLeads(ctx context.Context, limit int) ([]RecentLead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, source, status, lead_score, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent leads: %w", err)
	}
	defer rows.Close()

	var leads []RecentLead
	for rows.Next() {
		var l RecentLead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Source, &l.Status, &l.LeadScore, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// RecentInteraction is an interaction joined with its lead's name.
type RecentInteraction struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	LeadName  string
	Channel   string
	Direction string
	Content   string
	CreatedAt time.Time
}

func (r *Repository) RecentInteractions(ctx context.Context, limit int) ([]RecentInteraction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.lead_id, COALESCE(l.name, 'Unknown Lead'), i.channel, i.direction, i.content, i.created_at
		FROM interactions i
		LEFT JOIN leads l ON l.id = i.lead_id
		ORDER BY i.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent interactions: %w", err)
	}
	defer rows.Close()

	var interactions []RecentInteraction
	for rows.Next() {
		var i RecentInteraction
		if err := rows.Scan(&i.ID, &i.LeadID, &i.LeadName, &i.Channel, &i.Direction, &i.Content, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent interaction: %w", err)
		}
		interactions = append(interactions, i)
	}
	return interactions, rows.Err()
}

// LeadsCreatedSince counts leads created at or after the given instant.
func (r *Repository) LeadsCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM leads WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("query leads created since: %w", err)
	}
	return count, nil
}

// ActiveConversations counts leads that are still in play and have had at
// least one interaction.
func (r *Repository) ActiveConversations(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM leads
		WHERE status NOT IN ('converted', 'lost')
		  AND last_interaction IS NOT NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("query active conversations: %w", err)
	}
	return count, nil
}

// Insight is an insight-type interaction row, optionally joined with its
// lead's name.
type Insight struct {
	ID                 uuid.UUID
	LeadID             uuid.UUID
	LeadName           string
	Content            string
	Insights           json.RawMessage
	RecommendedActions json.RawMessage
	CreatedAt          time.Time
}

func (r *Repository) InsightsByLead(ctx context.Context, leadID uuid.UUID) ([]Insight, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, '', content, COALESCE(insights, 'null'::jsonb), COALESCE(recommended_actions, 'null'::jsonb), created_at
		FROM interactions
		WHERE lead_id = $1 AND type = 'insight'
		ORDER BY created_at DESC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("query lead insights: %w", err)
	}
	defer rows.Close()
	return scanInsights(rows)
}

func (r *Repository) RecentInsights(ctx context.Context, limit int) ([]Insight, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.lead_id, COALESCE(l.name, 'Unknown Lead'), i.content,
		       COALESCE(i.insights, 'null'::jsonb), COALESCE(i.recommended_actions, 'null'::jsonb), i.created_at
		FROM interactions i
		LEFT JOIN leads l ON l.id = i.lead_id
		WHERE i.type = 'insight'
		ORDER BY i.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent insights: %w", err)
	}
	defer rows.Close()
	return scanInsights(rows)
}

func scanInsights(rows pgx.Rows) ([]Insight, error) {
	var insights []Insight
	for rows.Next() {
		var i Insight
		if err := rows.Scan(&i.ID, &i.LeadID, &i.LeadName, &i.Content, &i.Insights, &i.RecommendedActions, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		insights = append(insights, i)
	}
	return insights, rows.Err()
}

// CreateInsightParams carries a manually submitted insight.
type CreateInsightParams struct {
	LeadID             uuid.UUID
	Insights           json.RawMessage
	RecommendedActions json.RawMessage
	CreatedBy          uuid.UUID
}

// CreateInsight stores a manual insight as an insight-type interaction.
func (r *Repository) CreateInsight(ctx context.Context, p CreateInsightParams) (Insight, error) {
	var i Insight
	err := r.pool.QueryRow(ctx, `
		INSERT INTO interactions (lead_id, type, channel, direction, content, insights, recommended_actions, created_by)
		VALUES ($1, 'insight', 'other', 'outbound', 'System generated insight', $2, $3, $4)
		RETURNING id, lead_id, content, COALESCE(insights, 'null'::jsonb), COALESCE(recommended_actions, 'null'::jsonb), created_at`,
		p.LeadID, p.Insights, p.RecommendedActions, p.CreatedBy,
	).Scan(&i.ID, &i.LeadID, &i.Content, &i.Insights, &i.RecommendedActions, &i.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Insight{}, ErrLeadNotFound
		}
		return Insight{}, fmt.Errorf("insert insight: %w", err)
	}
	return i, nil
}

// UserPerformance is a user row for the top-performers listing.
type UserPerformance struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Role      string
	Score     int64
	LastLogin *time.Time
}

func (r *Repository) TopUsers(ctx context.Context, limit int) ([]UserPerformance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, role, score, last_login
		FROM users
		ORDER BY score DESC, name
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top users: %w", err)
	}
	defer rows.Close()

	var users []UserPerformance
	for rows.Next() {
		var u UserPerformance
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Score, &u.LastLogin); err != nil {
			return nil, fmt.Errorf("scan top user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ActivityScope restricts the user activity summary. The zero value covers
// all users.
type ActivityScope struct {
	UserID        *uuid.UUID
	ExcludeAdmins bool
}

// ActivityTypeSummary aggregates one activity type for one user.
type ActivityTypeSummary struct {
	Type   string
	Count  int64
	Points int64
}

// UserActivity is one user's activity breakdown over the reporting window.
type UserActivity struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	Role       string
	TotalScore int64
	Breakdown  []ActivityTypeSummary
}

// UserActivitySummaries aggregates ledger entries since the given instant,
// grouped per user and activity type. Users without activity in the window
// are omitted.
func (r *Repository) UserActivitySummaries(ctx context.Context, scope ActivityScope, since time.Time) ([]UserActivity, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, u.score,
		       a.type, COUNT(a.id), COALESCE(SUM(a.points), 0)
		FROM users u
		JOIN user_activities a ON a.user_id = u.id
		WHERE a.created_at >= $1`
	args := []interface{}{since}

	if scope.UserID != nil {
		args = append(args, *scope.UserID)
		query += fmt.Sprintf(" AND u.id = $%d", len(args))
	}
	if scope.ExcludeAdmins {
		query += " AND u.role <> 'admin'"
	}
	query += `
		GROUP BY u.id, u.name, u.email, u.role, u.score, a.type
		ORDER BY u.name, a.type`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query user activity: %w", err)
	}
	defer rows.Close()

	var summaries []UserActivity
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			user    UserActivity
			summary ActivityTypeSummary
		)
		if err := rows.Scan(&user.UserID, &user.Name, &user.Email, &user.Role, &user.TotalScore,
			&summary.Type, &summary.Count, &summary.Points); err != nil {
			return nil, fmt.Errorf("scan user activity: %w", err)
		}
		pos, ok := index[user.UserID]
		if !ok {
			pos = len(summaries)
			index[user.UserID] = pos
			summaries = append(summaries, user)
		}
		summaries[pos].Breakdown = append(summaries[pos].Breakdown, summary)
	}
	return summaries, rows.Err()
}
