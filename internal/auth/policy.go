package auth

import (
	"github.com/spec-kit/grievance-service/internal/domain"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// Action is an operation a principal wants to perform on a grievance.
type Action string

const (
	ActionCreate         Action = "create"
	ActionRead           Action = "read"
	ActionEscalate       Action = "escalate"
	ActionFeedback       Action = "feedback"
	ActionAssign         Action = "assign"
	ActionUpdateStatus   Action = "update-status"
	ActionReject         Action = "reject"
	ActionRespond        Action = "respond"
	ActionReassign       Action = "reassign"
	ActionListResponders Action = "list-responders"
	ActionListEscalated  Action = "list-escalated"
	ActionViewStats      Action = "view-stats"
)

// Target describes the resource an action applies to. AuthorID is empty for
// department-scoped actions.
type Target struct {
	Department domain.Department
	AuthorID   string
}

// GrievanceTarget builds the target for an existing grievance.
func GrievanceTarget(g *domain.Grievance) Target {
	return Target{Department: g.Department, AuthorID: g.PetitionerID}
}

var rules = map[domain.Role]map[Action]bool{
	domain.RolePetitioner: {
		ActionCreate:   true,
		ActionRead:     true,
		ActionEscalate: true,
		ActionFeedback: true,
	},
	domain.RoleOfficial: {
		ActionRead:           true,
		ActionAssign:         true,
		ActionUpdateStatus:   true,
		ActionReject:         true,
		ActionRespond:        true,
		ActionListResponders: true,
		ActionListEscalated:  true,
	},
	domain.RoleAdmin: {
		ActionRead:           true,
		ActionAssign:         true,
		ActionReject:         true,
		ActionRespond:        true,
		ActionReassign:       true,
		ActionListResponders: true,
		ActionListEscalated:  true,
		ActionViewStats:      true,
	},
}

// Authorize allows or denies an action. Petitioners are limited to their own
// grievances and officials to their own department; admins act across
// departments. Denials are Forbidden.
func Authorize(p domain.Principal, action Action, target Target) error {
	if err := CheckRole(p, action); err != nil {
		return err
	}
	switch p.Role {
	case domain.RolePetitioner:
		if action != ActionCreate && target.AuthorID != p.ID {
			return apperrors.NewForbidden("grievance belongs to another petitioner")
		}
	case domain.RoleOfficial:
		if target.Department == "" || target.Department != p.Department {
			return apperrors.NewForbidden("grievance belongs to another department")
		}
	}
	return nil
}

// CheckRole denies actions the principal's role may never perform,
// independent of any target. Callers use it before loading the target.
func CheckRole(p domain.Principal, action Action) error {
	if !rules[p.Role][action] {
		return apperrors.NewForbidden("role " + string(p.Role) + " may not " + string(action))
	}
	return nil
}
