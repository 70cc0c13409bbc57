// Package service implements the gamified activity ledger: every rewarded
// action appends a ledger entry and bumps the user's running total.
package service

import (
	"context"
	"errors"
	"time"

	"leadconvert/internal/scores/repository"
	"leadconvert/platform/apperr"
	"leadconvert/platform/logger"

	"github.com/google/uuid"
)

// Activity types recognized by the ledger.
const (
	ActivityLogin       = "login"
	ActivityCreateLead  = "create_lead"
	ActivityUpdateLead  = "update_lead"
	ActivityInteraction = "interaction"
	ActivityOther       = "other"
)

const leaderboardSize = 10

// PointsFor maps an activity type to its point value. Unknown types earn the
// baseline.
func PointsFor(activityType string) int64 {
	switch activityType {
	case ActivityLogin:
		return 50
	case ActivityCreateLead:
		return 30
	case ActivityUpdateLead:
		return 15
	case ActivityInteraction:
		return 25
	default:
		return 5
	}
}

type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// AddActivity records an activity and credits its points atomically.
func (s *Service) AddActivity(ctx context.Context, userID uuid.UUID, activityType, description string) (repository.Activity, error) {
	activity, err := s.repo.AddActivity(ctx, userID, normalizeType(activityType), PointsFor(activityType), description)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Activity{}, apperr.NotFound("User not found")
		}
		return repository.Activity{}, apperr.Wrap(apperr.KindInternal, "Failed to record activity", err)
	}
	return activity, nil
}

// RecordLogin credits login points and stamps the login time.
func (s *Service) RecordLogin(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.AddActivity(ctx, userID, ActivityLogin, "Logged in"); err != nil {
		return err
	}
	if err := s.repo.TouchLastLogin(ctx, userID, time.Now()); err != nil {
		s.log.Error("failed to stamp last login", "error", err, "userId", userID)
	}
	return nil
}

type UserScore struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	Score      int64
	Activities []repository.Activity
}

// UserScore returns a user's total and recent activities.
func (s *Service) UserScore(ctx context.Context, userID uuid.UUID) (UserScore, error) {
	score, activities, err := s.repo.GetUserScore(ctx, userID, 50)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return UserScore{}, apperr.NotFound("User not found")
		}
		return UserScore{}, apperr.Wrap(apperr.KindInternal, "Failed to load user score", err)
	}
	return UserScore{
		UserID:     score.UserID,
		Name:       score.Name,
		Email:      score.Email,
		Score:      score.Score,
		Activities: activities,
	}, nil
}

// Leaderboard returns the top scorers.
func (s *Service) Leaderboard(ctx context.Context) ([]repository.UserScore, error) {
	scores, err := s.repo.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to load leaderboard", err)
	}
	return scores, nil
}

func normalizeType(activityType string) string {
	switch activityType {
	case ActivityLogin, ActivityCreateLead, ActivityUpdateLead, ActivityInteraction:
		return activityType
	default:
		return ActivityOther
	}
}
