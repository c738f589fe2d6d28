// Package errorutil defines the failure taxonomy shared by the service core.
// Transport layers translate a Kind into their own status codes.
package errorutil

import (
	"errors"
	"fmt"
)

// Kind names a class of expected failure.
type Kind string

const (
	KindUnauthenticated             Kind = "UNAUTHENTICATED"
	KindForbidden                   Kind = "FORBIDDEN"
	KindInvalidTransition           Kind = "INVALID_TRANSITION"
	KindAlreadyResponded            Kind = "ALREADY_RESPONDED"
	KindAlreadyRated                Kind = "ALREADY_RATED"
	KindAlreadyEscalated            Kind = "ALREADY_ESCALATED"
	KindCrossDepartmentReassignment Kind = "CROSS_DEPARTMENT_REASSIGNMENT"
	KindEmptyResponse               Kind = "EMPTY_RESPONSE"
	KindNotFound                    Kind = "NOT_FOUND"
	KindValidation                  Kind = "VALIDATION_FAILED"
	KindConflict                    Kind = "CONFLICT"
	KindInternal                    Kind = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError of the same kind, so callers can write
// errors.Is(err, errorutil.ErrForbidden).
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrUnauthenticated             = &DomainError{Kind: KindUnauthenticated}
	ErrForbidden                   = &DomainError{Kind: KindForbidden}
	ErrInvalidTransition           = &DomainError{Kind: KindInvalidTransition}
	ErrAlreadyResponded            = &DomainError{Kind: KindAlreadyResponded}
	ErrAlreadyRated                = &DomainError{Kind: KindAlreadyRated}
	ErrAlreadyEscalated            = &DomainError{Kind: KindAlreadyEscalated}
	ErrCrossDepartmentReassignment = &DomainError{Kind: KindCrossDepartmentReassignment}
	ErrEmptyResponse               = &DomainError{Kind: KindEmptyResponse}
	ErrNotFound                    = &DomainError{Kind: KindNotFound}
	ErrValidation                  = &DomainError{Kind: KindValidation}
	ErrConflict                    = &DomainError{Kind: KindConflict}
	ErrInternal                    = &DomainError{Kind: KindInternal}
)

// NewDomainError constructs a DomainError.
func NewDomainError(kind Kind, message string, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Message: message, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidation, message, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(KindNotFound, fmt.Sprintf("%s not found", resource), details)
}

func NewUnauthenticated(message string) error {
	return NewDomainError(KindUnauthenticated, message, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(KindForbidden, message, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(KindConflict, message, details)
}

// NewInvalidTransition names the current state and the attempted event.
func NewInvalidTransition(state, event string) error {
	return NewDomainError(KindInvalidTransition,
		fmt.Sprintf("cannot %s grievance in state %s", event, state),
		map[string]any{"state": state, "event": event})
}

func NewAlreadyResponded(grievanceID string) error {
	return NewDomainError(KindAlreadyResponded, "escalation already has a response",
		map[string]any{"grievance_id": grievanceID})
}

func NewAlreadyRated(grievanceID string) error {
	return NewDomainError(KindAlreadyRated, "feedback already submitted",
		map[string]any{"grievance_id": grievanceID})
}

func NewAlreadyEscalated(grievanceID string) error {
	return NewDomainError(KindAlreadyEscalated, "grievance already escalated",
		map[string]any{"grievance_id": grievanceID})
}

func NewCrossDepartmentReassignment(grievanceDept, officialDept string) error {
	return NewDomainError(KindCrossDepartmentReassignment,
		"official belongs to a different department",
		map[string]any{"grievance_department": grievanceDept, "official_department": officialDept})
}

func NewEmptyResponse() error {
	return NewDomainError(KindEmptyResponse, "response text required", nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Kind:    KindInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// ToDomainError converts generic errors to DomainError. Anything that is not
// already classified is an infrastructure failure.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Kind:    KindInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// MapError is ToDomainError returned as an error value.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// KindOf reports the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if de := ToDomainError(err); de != nil {
		return de.Kind
	}
	return ""
}
