// Package transport defines request and response DTOs for the interactions module.
package transport

import (
	"encoding/json"
	"time"

	"leadconvert/internal/interactions/repository"

	"github.com/google/uuid"
)

type CreateInteractionRequest struct {
	LeadID      uuid.UUID `json:"leadId" binding:"required"`
	Channel     string    `json:"channel" binding:"required,oneof=email phone web social whatsapp in_person other"`
	Direction   string    `json:"direction" binding:"required,oneof=inbound outbound"`
	Content     string    `json:"content" binding:"required,max=10000"`
	Sentiment   *string   `json:"sentiment" binding:"omitempty,oneof=positive negative neutral"`
	IntentScore *float64  `json:"intentScore" binding:"omitempty,gte=0,lte=100"`
}

type UpdateInteractionRequest struct {
	Content     *string  `json:"content" binding:"omitempty,max=10000"`
	Sentiment   *string  `json:"sentiment" binding:"omitempty,oneof=positive negative neutral"`
	IntentScore *float64 `json:"intentScore" binding:"omitempty,gte=0,lte=100"`
}

type TrackLinkClickRequest struct {
	URL string `json:"url" binding:"required,max=2000"`
}

type InteractionResponse struct {
	ID                 uuid.UUID       `json:"id"`
	LeadID             uuid.UUID       `json:"leadId"`
	Channel            string          `json:"channel"`
	Direction          string          `json:"direction"`
	Content            string          `json:"content"`
	Type               string          `json:"type"`
	Sentiment          *string         `json:"sentiment,omitempty"`
	IntentScore        *float64        `json:"intentScore,omitempty"`
	Insights           json.RawMessage `json:"insights,omitempty"`
	RecommendedActions json.RawMessage `json:"recommendedActions,omitempty"`
	ExternalID         *string         `json:"externalId,omitempty"`
	DeliveryStatus     *string         `json:"deliveryStatus,omitempty"`
	CreatedBy          *uuid.UUID      `json:"createdBy,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

type ConversationResponse struct {
	ID            string    `json:"id"`
	LeadID        uuid.UUID `json:"leadId"`
	Channel       string    `json:"channel"`
	LeadName      string    `json:"leadName"`
	LeadEmail     string    `json:"leadEmail"`
	LeadPhone     string    `json:"leadPhone"`
	LastMessage   string    `json:"lastMessage"`
	LastDirection string    `json:"lastDirection"`
	LastTimestamp time.Time `json:"lastTimestamp"`
}

func ToInteractionResponse(i repository.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:                 i.ID,
		LeadID:             i.LeadID,
		Channel:            i.Channel,
		Direction:          i.Direction,
		Content:            i.Content,
		Type:               i.Type,
		Sentiment:          i.Sentiment,
		IntentScore:        i.IntentScore,
		Insights:           i.Insights,
		RecommendedActions: i.RecommendedActions,
		ExternalID:         i.ExternalID,
		DeliveryStatus:     i.DeliveryStatus,
		CreatedBy:          i.CreatedBy,
		CreatedAt:          i.CreatedAt,
	}
}

func ToInteractionResponses(interactions []repository.Interaction) []InteractionResponse {
	out := make([]InteractionResponse, 0, len(interactions))
	for _, i := range interactions {
		out = append(out, ToInteractionResponse(i))
	}
	return out
}

func ToConversationResponses(conversations []repository.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		out = append(out, ConversationResponse{
			ID:            c.LeadID.String() + "-" + c.Channel,
			LeadID:        c.LeadID,
			Channel:       c.Channel,
			LeadName:      c.LeadName,
			LeadEmail:     c.LeadEmail,
			LeadPhone:     c.LeadPhone,
			LastMessage:   c.LastMessage,
			LastDirection: c.LastDirection,
			LastTimestamp: c.LastTimestamp,
		})
	}
	return out
}
