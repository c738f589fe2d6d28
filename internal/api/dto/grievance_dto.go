package dto

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// CreateGrievanceRequest payload.
type CreateGrievanceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Department  string `json:"department"`
	Priority    string `json:"priority"`
}

// AssignRequest payload.
type AssignRequest struct {
	OfficialID string `json:"officialId"`
}

// ResolveRequest payload.
type ResolveRequest struct {
	ResolutionDocument string `json:"resolutionDocument"`
}

// RejectRequest payload.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// EscalateRequest payload.
type EscalateRequest struct {
	EscalationReason string `json:"escalationReason"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// EscalationResponseRequest payload.
type EscalationResponseRequest struct {
	Response   string  `json:"response"`
	ReassignTo *string `json:"reassignTo"`
}

// FeedbackResponse is the stored rating.
type FeedbackResponse struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// GrievanceResponse is the full grievance view.
type GrievanceResponse struct {
	ID                    string                   `json:"id"`
	PetitionID            string                   `json:"petitionId"`
	PetitionerID          string                   `json:"petitionerId"`
	Title                 string                   `json:"title"`
	Description           string                   `json:"description"`
	Department            domain.Department        `json:"department"`
	Status                domain.GrievanceStatus   `json:"status"`
	Priority              domain.GrievancePriority `json:"priority,omitempty"`
	AssignedTo            *string                  `json:"assignedTo"`
	ResolutionDocument    *string                  `json:"resolutionDocument,omitempty"`
	RejectionReason       *string                  `json:"rejectionReason,omitempty"`
	IsEscalated           bool                     `json:"isEscalated"`
	EscalationEligible    bool                     `json:"escalationEligible"`
	EscalationReason      string                   `json:"escalationReason,omitempty"`
	EscalatedAt           *time.Time               `json:"escalatedAt,omitempty"`
	EscalationResponse    *string                  `json:"escalationResponse,omitempty"`
	EscalationRespondedBy *string                  `json:"escalationRespondedBy,omitempty"`
	EscalationRespondedAt *time.Time               `json:"escalationRespondedAt,omitempty"`
	Feedback              *FeedbackResponse        `json:"feedback,omitempty"`
	CreatedAt             time.Time                `json:"createdAt"`
	UpdatedAt             time.Time                `json:"updatedAt"`
}

// HistoryResponse is one timeline entry.
type HistoryResponse struct {
	ID         string                     `json:"id"`
	ActorRole  domain.Role                `json:"actorRole"`
	ActorID    *string                    `json:"actorId"`
	ChangeType domain.GrievanceChangeType `json:"changeType"`
	OldValue   map[string]any             `json:"oldValue,omitempty"`
	NewValue   map[string]any             `json:"newValue,omitempty"`
	CreatedAt  time.Time                  `json:"createdAt"`
}

// NewGrievanceResponse maps the domain aggregate.
func NewGrievanceResponse(g *domain.Grievance) GrievanceResponse {
	resp := GrievanceResponse{
		ID:                    g.ID,
		PetitionID:            g.PetitionID,
		PetitionerID:          g.PetitionerID,
		Title:                 g.Title,
		Description:           g.Description,
		Department:            g.Department,
		Status:                g.Status,
		Priority:              g.Priority,
		AssignedTo:            g.AssignedTo,
		ResolutionDocument:    g.ResolutionDocument,
		RejectionReason:       g.RejectionReason,
		IsEscalated:           g.IsEscalated,
		EscalationEligible:    g.EscalationEligible,
		EscalationReason:      g.EscalationReason,
		EscalatedAt:           g.EscalatedAt,
		EscalationResponse:    g.EscalationResponse,
		EscalationRespondedBy: g.EscalationRespondedBy,
		EscalationRespondedAt: g.EscalationRespondedAt,
		CreatedAt:             g.CreatedAt,
		UpdatedAt:             g.UpdatedAt,
	}
	if g.Feedback != nil {
		resp.Feedback = &FeedbackResponse{
			Rating:      g.Feedback.Rating,
			Comment:     g.Feedback.Comment,
			SubmittedAt: g.Feedback.SubmittedAt,
		}
	}
	return resp
}

// NewHistoryResponse maps a timeline entry.
func NewHistoryResponse(h *domain.GrievanceHistory) HistoryResponse {
	return HistoryResponse{
		ID:         h.ID,
		ActorRole:  h.ActorRole,
		ActorID:    h.ActorID,
		ChangeType: h.ChangeType,
		OldValue:   h.OldValue,
		NewValue:   h.NewValue,
		CreatedAt:  h.CreatedAt,
	}
}
