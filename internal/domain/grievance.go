package domain

import "time"

// GrievanceStatus enumerates lifecycle states for grievances.
type GrievanceStatus string

const (
	StatusPending    GrievanceStatus = "pending"
	StatusAssigned   GrievanceStatus = "assigned"
	StatusInProgress GrievanceStatus = "in-progress"
	StatusResolved   GrievanceStatus = "resolved"
	StatusRejected   GrievanceStatus = "rejected"
)

// Terminal reports whether no transition may leave the status.
func (s GrievanceStatus) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// Valid reports whether s is a known status.
func (s GrievanceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// GrievancePriority enumerates urgency. The zero value means unset.
type GrievancePriority string

const (
	PriorityNone   GrievancePriority = ""
	PriorityLow    GrievancePriority = "low"
	PriorityMedium GrievancePriority = "medium"
	PriorityHigh   GrievancePriority = "high"
)

// Valid reports whether p is unset or a known priority.
func (p GrievancePriority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Feedback is the petitioner's rating of a resolved grievance.
type Feedback struct {
	Rating      int
	Comment     string
	SubmittedAt time.Time
}

// Grievance is the aggregate for complaints.
type Grievance struct {
	ID                 string
	PetitionID         string
	PetitionerID       string
	Title              string
	Description        string
	Department         Department
	Status             GrievanceStatus
	Priority           GrievancePriority
	AssignedTo         *string
	ResolutionDocument *string
	RejectionReason    *string

	IsEscalated           bool
	EscalationEligible    bool
	EscalationReason      string
	EscalatedAt           *time.Time
	EscalationResponse    *string
	EscalationRespondedBy *string
	EscalationRespondedAt *time.Time

	Feedback *Feedback

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasResponse reports whether the escalation was already answered.
func (g *Grievance) HasResponse() bool {
	return g.EscalationResponse != nil
}

// AssignedToID returns the assignee id or an empty string.
func (g *Grievance) AssignedToID() string {
	if g.AssignedTo == nil {
		return ""
	}
	return *g.AssignedTo
}
