// Package transport defines response DTOs for the scores module.
package transport

import (
	"time"

	"leadconvert/internal/scores/repository"
	"leadconvert/internal/scores/service"

	"github.com/google/uuid"
)

type ActivityResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Points      int64     `json:"points"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UserScoreResponse struct {
	UserID     uuid.UUID          `json:"userId"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Score      int64              `json:"score"`
	Activities []ActivityResponse `json:"activities"`
}

type LeaderboardEntry struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Score  int64     `json:"score"`
}

func ToUserScoreResponse(s service.UserScore) UserScoreResponse {
	activities := make([]ActivityResponse, 0, len(s.Activities))
	for _, a := range s.Activities {
		activities = append(activities, ActivityResponse{
			ID:          a.ID,
			Type:        a.Type,
			Points:      a.Points,
			Description: a.Description,
			CreatedAt:   a.CreatedAt,
		})
	}
	return UserScoreResponse{
		UserID:     s.UserID,
		Name:       s.Name,
		Email:      s.Email,
		Score:      s.Score,
		Activities: activities,
	}
}

func ToLeaderboard(scores []repository.UserScore) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(scores))
	for _, s := range scores {
		out = append(out, LeaderboardEntry{
			UserID: s.UserID,
			Name:   s.Name,
			Email:  s.Email,
			Score:  s.Score,
		})
	}
	return out
}
