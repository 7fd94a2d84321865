package workflow

import (
	"fmt"
	"strings"
)

// Status is the closed set of order workflow states. Orders only move between
// them through the transition table in this package.
type Status string

const (
	StatusPending          Status = "pending"
	StatusAssignedToDrawer Status = "assigned_to_drawer"
	StatusDrawerCompleted  Status = "drawer_completed"
	StatusCheckerReview    Status = "checker_review"
	StatusCheckerCompleted Status = "checker_completed"
	StatusQaReview         Status = "qa_review"
	StatusQaCompleted      Status = "qa_completed"
	StatusCompleted        Status = "completed"
	StatusRejected         Status = "rejected"
)

var allStatuses = map[Status]struct{}{
	StatusPending:          {},
	StatusAssignedToDrawer: {},
	StatusDrawerCompleted:  {},
	StatusCheckerReview:    {},
	StatusCheckerCompleted: {},
	StatusQaReview:         {},
	StatusQaCompleted:      {},
	StatusCompleted:        {},
	StatusRejected:         {},
}

func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := allStatuses[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// Priority of an order. Unknown portal values normalize to regular.
type Priority string

const (
	PriorityRegular Priority = "regular"
	PriorityHigh    Priority = "high"
	PriorityUrgent  Priority = "urgent"
)

func NormalizePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(PriorityUrgent):
		return PriorityUrgent
	case string(PriorityHigh):
		return PriorityHigh
	default:
		return PriorityRegular
	}
}

// Source records where an order entered the system.
type Source string

const (
	SourceClientPortal   Source = "client_portal"
	SourceAdminManual    Source = "admin_manual"
	SourceExternalPortal Source = "external_portal"
)

// Severity grades a review issue.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityMajor      Severity = "major"
	SeverityMinor      Severity = "minor"
	SeveritySuggestion Severity = "suggestion"
)

func ParseSeverity(s string) (Severity, error) {
	severity := Severity(strings.ToLower(strings.TrimSpace(s)))
	switch severity {
	case SeverityCritical, SeverityMajor, SeverityMinor, SeveritySuggestion:
		return severity, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
}

// Role slugs for the human work stages plus the manager.
type Role string

const (
	RoleDrawer  Role = "drawer"
	RoleChecker Role = "checker"
	RoleQa      Role = "qa"
	RoleManager Role = "manager"
)

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	switch role {
	case RoleDrawer, RoleChecker, RoleQa, RoleManager:
		return role, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}
