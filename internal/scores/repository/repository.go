package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Activity struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        string
	Points      int64
	Description string
	CreatedAt   time.Time
}

type UserScore struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Score  int64
}

// AddActivity inserts the ledger entry and bumps the user's total in one
// transaction. The increment runs in SQL so concurrent activities never lose
// points.
func (r *Repository) AddActivity(ctx context.Context, userID uuid.UUID, activityType string, points int64, description string) (Activity, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Activity{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE users SET score = score + $2 WHERE id = $1
	`, userID, points)
	if err != nil {
		return Activity{}, err
	}
	if tag.RowsAffected() == 0 {
		return Activity{}, ErrNotFound
	}

	var activity Activity
	err = tx.QueryRow(ctx, `
		INSERT INTO user_activities (user_id, type, points, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, type, points, description, created_at
	`, userID, activityType, points, description).Scan(
		&activity.ID, &activity.UserID, &activity.Type,
		&activity.Points, &activity.Description, &activity.CreatedAt,
	)
	if err != nil {
		return Activity{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Activity{}, err
	}
	return activity, nil
}

// GetUserScore returns a user's total with their recent ledger entries.
func (r *Repository) GetUserScore(ctx context.Context, userID uuid.UUID, activityLimit int) (UserScore, []Activity, error) {
	var score UserScore
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, score FROM users WHERE id = $1
	`, userID).Scan(&score.UserID, &score.Name, &score.Email, &score.Score)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserScore{}, nil, ErrNotFound
	}
	if err != nil {
		return UserScore{}, nil, err
	}

	if activityLimit <= 0 {
		activityLimit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, points, description, created_at
		FROM user_activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, activityLimit)
	if err != nil {
		return UserScore{}, nil, err
	}
	defer rows.Close()

	activities := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Points, &a.Description, &a.CreatedAt); err != nil {
			return UserScore{}, nil, err
		}
		activities = append(activities, a)
	}
	return score, activities, rows.Err()
}

// Leaderboard returns the top scorers.
func (r *Repository) Leaderboard(ctx context.Context, limit int) ([]UserScore, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, score FROM users
		ORDER BY score DESC, name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]UserScore, 0, limit)
	for rows.Next() {
		var s UserScore
		if err := rows.Scan(&s.UserID, &s.Name, &s.Email, &s.Score); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// TouchLastLogin stamps the user's last login time.
func (r *Repository) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, userID, at)
	return err
}
