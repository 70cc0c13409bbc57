package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("interaction not found")

const (
	TypeCommunication = "communication"
	TypeEngagement    = "engagement"
	TypeInsight       = "insight"

	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Interaction struct {
	ID                 uuid.UUID
	LeadID             uuid.UUID
	Channel            string
	Direction          string
	Content            string
	Type               string
	Sentiment          *string
	IntentScore        *float64
	Insights           json.RawMessage
	RecommendedActions json.RawMessage
	ExternalID         *string
	DeliveryStatus     *string
	CreatedBy          *uuid.UUID
	CreatedAt          time.Time
}

type CreateParams struct {
	LeadID             uuid.UUID
	Channel            string
	Direction          string
	Content            string
	Type               string
	Sentiment          *string
	IntentScore        *float64
	Insights           json.RawMessage
	RecommendedActions json.RawMessage
	ExternalID         *string
	DeliveryStatus     *string
	CreatedBy          *uuid.UUID
}

type UpdateParams struct {
	Content     *string
	Sentiment   *string
	IntentScore *float64
}

// Signal is a scoring-relevant projection of an interaction.
type Signal struct {
	Sentiment   string
	IntentScore *float64
}

// Conversation is the latest communication per lead and channel.
type Conversation struct {
	LeadID        uuid.UUID
	Channel       string
	LeadName      string
	LeadEmail     string
	LeadPhone     string
	LastMessage   string
	LastDirection string
	LastTimestamp time.Time
}

const interactionColumns = `id, lead_id, channel, direction, content, type, sentiment, intent_score,
	insights, recommended_actions, external_id, delivery_status, created_by, created_at`

func scanInteraction(row pgx.Row) (Interaction, error) {
	var i Interaction
	err := row.Scan(
		&i.ID, &i.LeadID, &i.Channel, &i.Direction, &i.Content, &i.Type,
		&i.Sentiment, &i.IntentScore, &i.Insights, &i.RecommendedActions,
		&i.ExternalID, &i.DeliveryStatus, &i.CreatedBy, &i.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Interaction{}, ErrNotFound
	}
	return i, err
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Interaction, error) {
	typ := p.Type
	if typ == "" {
		typ = TypeCommunication
	}
	return scanInteraction(r.pool.QueryRow(ctx, `
		INSERT INTO interactions (
			lead_id, channel, direction, content, type, sentiment, intent_score,
			insights, recommended_actions, external_id, delivery_status, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+interactionColumns,
		p.LeadID, p.Channel, p.Direction, p.Content, typ, p.Sentiment, p.IntentScore,
		p.Insights, p.RecommendedActions, p.ExternalID, p.DeliveryStatus, p.CreatedBy))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Interaction, error) {
	return scanInteraction(r.pool.QueryRow(ctx, `
		SELECT `+interactionColumns+` FROM interactions WHERE id = $1
	`, id))
}

// ListByLead returns communication interactions for a lead, newest first.
// Engagement and insight rows are excluded; they are timeline metadata, not
// conversation content.
func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID, channel string) ([]Interaction, error) {
	query := `
		SELECT ` + interactionColumns + ` FROM interactions
		WHERE lead_id = $1 AND type = 'communication'`
	args := []any{leadID}
	if channel != "" {
		args = append(args, channel)
		query += fmt.Sprintf(" AND channel = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInteractions(rows)
}

// ListAllByLead returns the full timeline including engagement and insight
// entries.
func (r *Repository) ListAllByLead(ctx context.Context, leadID uuid.UUID) ([]Interaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+interactionColumns+` FROM interactions
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInteractions(rows)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Interaction, error) {
	sets := []string{}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Content != nil {
		add("content", *p.Content)
	}
	if p.Sentiment != nil {
		add("sentiment", *p.Sentiment)
	}
	if p.IntentScore != nil {
		add("intent_score", *p.IntentScore)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`
		UPDATE interactions SET %s WHERE id = $1
		RETURNING %s
	`, strings.Join(sets, ", "), interactionColumns)

	return scanInteraction(r.pool.QueryRow(ctx, query, args...))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM interactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ScoringSignals returns sentiment and intent for every non-insight
// interaction of a lead. Insight rows are excluded so scoring runs do not
// feed their own output back in.
func (r *Repository) ScoringSignals(ctx context.Context, leadID uuid.UUID) ([]Signal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT COALESCE(sentiment, 'neutral'), intent_score
		FROM interactions
		WHERE lead_id = $1 AND type <> 'insight'
		ORDER BY created_at
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	signals := make([]Signal, 0)
	for rows.Next() {
		var s Signal
		if err := rows.Scan(&s.Sentiment, &s.IntentScore); err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}

// Conversations returns the latest communication per lead/channel pair over
// the last 30 days, newest first.
func (r *Repository) Conversations(ctx context.Context) ([]Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (i.lead_id, i.channel)
			i.lead_id, i.channel, l.name, l.email, l.phone,
			i.content, i.direction, i.created_at
		FROM interactions i
		JOIN leads l ON l.id = i.lead_id
		WHERE i.type = 'communication'
		  AND i.created_at >= now() - interval '30 days'
		ORDER BY i.lead_id, i.channel, i.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]Conversation, 0)
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(
			&c.LeadID, &c.Channel, &c.LeadName, &c.LeadEmail, &c.LeadPhone,
			&c.LastMessage, &c.LastDirection, &c.LastTimestamp,
		); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// DISTINCT ON forces lead/channel ordering; re-sort by recency for the UI.
	sort.Slice(conversations, func(a, b int) bool {
		return conversations[a].LastTimestamp.After(conversations[b].LastTimestamp)
	})
	return conversations, nil
}

func collectInteractions(rows pgx.Rows) ([]Interaction, error) {
	interactions := make([]Interaction, 0)
	for rows.Next() {
		i, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, i)
	}
	return interactions, rows.Err()
}
