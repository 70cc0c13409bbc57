package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadconvert/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")
var ErrDuplicateEmail = errors.New("lead email already exists")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                     uuid.UUID
	Name                   string
	Email                  string
	Phone                  string
	Source                 domain.Source
	InitialMessage         *string
	LeadScore              float64
	Status                 domain.Status
	Tags                   []string
	LastInteraction        *time.Time
	LastInteractionChannel *string
	LastEngagement         *time.Time
	CreatedBy              *uuid.UUID
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type CreateParams struct {
	Name           string
	Email          string
	Phone          string
	Source         domain.Source
	InitialMessage *string
	Tags           []string
	CreatedBy      *uuid.UUID
}

type UpdateParams struct {
	Name           *string
	Email          *string
	Phone          *string
	Status         *domain.Status
	Tags           []string
	InitialMessage *string
}

type ListFilter struct {
	Status *domain.Status
	Source *domain.Source
	Search string
	Limit  int
	Offset int
}

const leadColumns = `id, name, email, phone, source, initial_message, lead_score, status, tags,
	last_interaction, last_interaction_channel, last_engagement, created_by, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.InitialMessage,
		&l.LeadScore, &l.Status, &l.Tags,
		&l.LastInteraction, &l.LastInteractionChannel, &l.LastEngagement,
		&l.CreatedBy, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Lead, error) {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, source, initial_message, tags, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+leadColumns,
		p.Name, p.Email, p.Phone, p.Source, p.InitialMessage, tags, p.CreatedBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Lead{}, ErrDuplicateEmail
		}
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1
	`, id))
}

// FindByPhone looks up a lead by normalized phone number. Multiple matches
// return the most recently created lead.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, phone))
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Lead, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Source != nil {
		args = append(args, *f.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads WHERE `+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY lead_score DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	return leads, total, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (Lead, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.Tags != nil {
		add("tags", p.Tags)
	}
	if p.InitialMessage != nil {
		add("initial_message", *p.InitialMessage)
	}

	query := fmt.Sprintf(`
		UPDATE leads SET %s WHERE id = $1
		RETURNING %s
	`, strings.Join(sets, ", "), leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Lead{}, ErrDuplicateEmail
		}
		return Lead{}, err
	}
	return lead, nil
}

// Delete removes a lead. Interactions cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetScore stores a computed score. When qualify is set and the lead is
// still new, it is promoted to qualified in the same statement.
func (r *Repository) SetScore(ctx context.Context, id uuid.UUID, score float64, qualify bool) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			lead_score = LEAST(GREATEST($2, 0), 100),
			status = CASE WHEN $3 AND status = 'new' THEN 'qualified' ELSE status END,
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, score, qualify))
}

// AdjustScore applies a relative score change, clamped to [0, 100] in SQL so
// concurrent adjustments never escape the range.
func (r *Repository) AdjustScore(ctx context.Context, id uuid.UUID, delta float64) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			lead_score = LEAST(GREATEST(lead_score + $2, 0), 100),
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, delta))
}

// SetStatus writes a status without transition checks. Callers validate the
// transition first.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status domain.Status) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, status))
}

// StampInteraction records the time and channel of the latest interaction.
func (r *Repository) StampInteraction(ctx context.Context, id uuid.UUID, channel string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET last_interaction = $2, last_interaction_channel = $3, updated_at = now()
		WHERE id = $1
	`, id, at, channel)
	return err
}

// StampEngagement records a tracking event (email open, link click).
func (r *Repository) StampEngagement(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE leads SET last_engagement = $2, updated_at = now()
		WHERE id = $1
	`, id, at)
	return err
}
