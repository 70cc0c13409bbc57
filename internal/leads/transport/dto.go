// Package transport defines request and response DTOs for the leads module.
package transport

import (
	"time"

	"leadconvert/internal/leads/repository"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	Name           string   `json:"name" binding:"required,min=1,max=200"`
	Email          string   `json:"email" binding:"required,email"`
	Phone          string   `json:"phone" binding:"required,min=3,max=32"`
	Source         string   `json:"source" binding:"required,oneof=web_form whatsapp email other"`
	InitialMessage string   `json:"initialMessage" binding:"omitempty,max=5000"`
	Tags           []string `json:"tags" binding:"omitempty,dive,min=1,max=50"`
}

type UpdateLeadRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Email          *string  `json:"email" binding:"omitempty,email"`
	Phone          *string  `json:"phone" binding:"omitempty,min=3,max=32"`
	Status         *string  `json:"status" binding:"omitempty,oneof=new contacted qualified converted lost"`
	Tags           []string `json:"tags" binding:"omitempty,dive,min=1,max=50"`
	InitialMessage *string  `json:"initialMessage" binding:"omitempty,max=5000"`
}

type LeadResponse struct {
	ID                     uuid.UUID  `json:"id"`
	Name                   string     `json:"name"`
	Email                  string     `json:"email"`
	Phone                  string     `json:"phone"`
	Source                 string     `json:"source"`
	InitialMessage         *string    `json:"initialMessage,omitempty"`
	LeadScore              float64    `json:"leadScore"`
	Status                 string     `json:"status"`
	Tags                   []string   `json:"tags"`
	LastInteraction        *time.Time `json:"lastInteraction,omitempty"`
	LastInteractionChannel *string    `json:"lastInteractionChannel,omitempty"`
	LastEngagement         *time.Time `json:"lastEngagement,omitempty"`
	CreatedBy              *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

type LeadListResponse struct {
	Leads []LeadResponse `json:"leads"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type ScoreResponse struct {
	LeadID    uuid.UUID `json:"leadId"`
	Score     float64   `json:"score"`
	Qualified bool      `json:"qualified"`
}

func ToLeadResponse(l repository.Lead) LeadResponse {
	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}
	return LeadResponse{
		ID:                     l.ID,
		Name:                   l.Name,
		Email:                  l.Email,
		Phone:                  l.Phone,
		Source:                 string(l.Source),
		InitialMessage:         l.InitialMessage,
		LeadScore:              l.LeadScore,
		Status:                 string(l.Status),
		Tags:                   tags,
		LastInteraction:        l.LastInteraction,
		LastInteractionChannel: l.LastInteractionChannel,
		LastEngagement:         l.LastEngagement,
		CreatedBy:              l.CreatedBy,
		CreatedAt:              l.CreatedAt,
		UpdatedAt:              l.UpdatedAt,
	}
}

func ToLeadResponses(leads []repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToLeadResponse(l))
	}
	return out
}
