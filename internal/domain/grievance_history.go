package domain

import "time"

// GrievanceChangeType captures what changed in a history entry.
type GrievanceChangeType string

const (
	ChangeTypeCreated            GrievanceChangeType = "CREATED"
	ChangeTypeStatus             GrievanceChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee           GrievanceChangeType = "ASSIGNEE_CHANGE"
	ChangeTypeEscalated          GrievanceChangeType = "ESCALATED"
	ChangeTypeEscalationResponse GrievanceChangeType = "ESCALATION_RESPONSE"
	ChangeTypeFeedback           GrievanceChangeType = "FEEDBACK"
	ChangeTypeEligibility        GrievanceChangeType = "ELIGIBILITY"
)

// ActorSystem marks history written by background jobs.
const ActorSystem Role = "system"

// GrievanceHistory is an immutable timeline entry.
type GrievanceHistory struct {
	ID          string
	GrievanceID string
	ActorRole   Role
	ActorID     *string
	ChangeType  GrievanceChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
