package events

import (
	"time"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGrievanceCreated       EventType = "grievance_created"
	EventGrievanceStatusChanged EventType = "grievance_status_changed"
	EventGrievanceAssigned      EventType = "grievance_assigned"
	EventGrievanceEscalated     EventType = "grievance_escalated"
	EventEscalationResponded    EventType = "escalation_responded"
	EventFeedbackSubmitted      EventType = "feedback_submitted"
	EventEscalationEligible     EventType = "escalation_eligible"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role domain.Role `json:"role"`
	ID   *string     `json:"id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string            `json:"id"`
	Type        EventType         `json:"type"`
	GrievanceID string            `json:"grievance_id"`
	PetitionID  string            `json:"petition_id"`
	Department  domain.Department `json:"department"`
	Actor       Actor             `json:"actor"`
	Timestamp   time.Time         `json:"timestamp"`
	Payload     interface{}       `json:"payload"`
}

// GrievanceCreatedPayload payload.
type GrievanceCreatedPayload struct {
	PetitionerID string                   `json:"petitioner_id"`
	Title        string                   `json:"title"`
	Priority     domain.GrievancePriority `json:"priority,omitempty"`
}

// GrievanceStatusChangedPayload payload.
type GrievanceStatusChangedPayload struct {
	OldStatus domain.GrievanceStatus `json:"old_status"`
	NewStatus domain.GrievanceStatus `json:"new_status"`
}

// GrievanceAssignedPayload payload.
type GrievanceAssignedPayload struct {
	PreviousOfficialID *string `json:"previous_official_id,omitempty"`
	OfficialID         string  `json:"official_id"`
}

// GrievanceEscalatedPayload payload.
type GrievanceEscalatedPayload struct {
	Reason string `json:"reason"`
}

// EscalationRespondedPayload payload.
type EscalationRespondedPayload struct {
	Response   string  `json:"response"`
	ReassignTo *string `json:"reassign_to,omitempty"`
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	Rating int `json:"rating"`
}
