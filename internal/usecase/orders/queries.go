package orders

import (
	"context"
	"time"

	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/ports"
)

// QueueBucket selects which slice of a role's queue to list.
type QueueBucket string

const (
	BucketPending    QueueBucket = "pending"
	BucketInProgress QueueBucket = "in_progress"
	BucketCompleted  QueueBucket = "completed"
	BucketRejected   QueueBucket = "rejected"
)

// OrderDetail aggregates everything the show views render for one order.
type OrderDetail struct {
	Order       ports.Order
	Assignments []ports.Assignment
	StatusLogs  []ports.StatusLog
	Reviews     []ports.Review
	Issues      []ports.Issue
	Checklist   ChecklistStatus
}

// Stats powers the dashboard summary.
type Stats struct {
	ByStatus   []ports.StatusCount
	ByPriority []ports.PriorityCount
}

// activeStatus maps a role to the status in which that role works an order.
func activeStatus(role workflow.Role) []string {
	switch role {
	case workflow.RoleDrawer:
		return []string{string(workflow.StatusAssignedToDrawer)}
	case workflow.RoleChecker:
		return []string{string(workflow.StatusCheckerReview)}
	case workflow.RoleQa:
		return []string{string(workflow.StatusQaReview)}
	default:
		return nil
	}
}

// ListOrders is the raw filtered listing used by the manager views.
func (s *Service) ListOrders(ctx context.Context, filter ports.OrderFilter) ([]ports.Order, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListOrders(ctx, filter)
}

// RoleQueue lists one bucket of a role's work queue. Pending means the
// order sits in the role's status with the stage not yet started; in
// progress means started but not finished.
func (s *Service) RoleQueue(ctx context.Context, role workflow.Role, bucket QueueBucket, limit int) ([]ports.Order, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	filter := ports.OrderFilter{Limit: limit}
	switch bucket {
	case BucketPending:
		filter.Statuses = activeStatus(role)
		filter.StageNotStarted = string(role)
	case BucketInProgress:
		filter.Statuses = activeStatus(role)
		filter.StageInProgress = string(role)
	case BucketCompleted:
		filter.Statuses = []string{string(workflow.StatusCompleted)}
	case BucketRejected:
		filter.Statuses = []string{string(workflow.StatusRejected)}
	default:
		return nil, &workflow.ValidationError{Field: "bucket", Reason: "unknown queue bucket " + string(bucket)}
	}
	if len(filter.Statuses) == 0 {
		return nil, &workflow.ValidationError{Field: "role", Reason: "role " + string(role) + " has no work queue"}
	}
	return s.repo.ListOrders(ctx, filter)
}

// GetOrderDetail loads the order with its full workflow history.
func (s *Service) GetOrderDetail(ctx context.Context, orderID uint64) (OrderDetail, error) {
	if err := s.check(ctx); err != nil {
		return OrderDetail{}, err
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	assignments, err := s.repo.ListAssignments(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	logs, err := s.repo.ListStatusLogs(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	reviews, err := s.repo.ListReviews(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	issues, err := s.repo.ListIssues(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	checklist, err := s.GetChecklistStatus(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}

	return OrderDetail{
		Order:       order,
		Assignments: assignments,
		StatusLogs:  logs,
		Reviews:     reviews,
		Issues:      issues,
		Checklist:   checklist,
	}, nil
}

// HighPriority lists urgent and high orders waiting in a role's stage.
func (s *Service) HighPriority(ctx context.Context, role workflow.Role, limit int) ([]ports.Order, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	statuses := activeStatus(role)
	if statuses == nil {
		return nil, &workflow.ValidationError{Field: "role", Reason: "role " + string(role) + " has no work queue"}
	}

	urgent, err := s.repo.ListOrders(ctx, ports.OrderFilter{
		Statuses: statuses,
		Priority: string(workflow.PriorityUrgent),
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	high, err := s.repo.ListOrders(ctx, ports.OrderFilter{
		Statuses: statuses,
		Priority: string(workflow.PriorityHigh),
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	return append(urgent, high...), nil
}

// Overdue lists open orders whose due date has passed.
func (s *Service) Overdue(ctx context.Context, now time.Time, limit int) ([]ports.Order, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListOrders(ctx, ports.OrderFilter{
		Statuses: []string{
			string(workflow.StatusPending),
			string(workflow.StatusAssignedToDrawer),
			string(workflow.StatusCheckerReview),
			string(workflow.StatusQaReview),
		},
		DueBefore: now.UTC().Format(time.RFC3339Nano),
		Limit:     limit,
	})
}

// GetStats counts orders per status plus per priority across open statuses.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	if err := s.check(ctx); err != nil {
		return Stats{}, err
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	byPriority, err := s.repo.CountByPriority(ctx, []string{
		string(workflow.StatusPending),
		string(workflow.StatusAssignedToDrawer),
		string(workflow.StatusCheckerReview),
		string(workflow.StatusQaReview),
	})
	if err != nil {
		return Stats{}, err
	}
	return Stats{ByStatus: byStatus, ByPriority: byPriority}, nil
}

// CreateManualOrder registers an order entered by an admin rather than
// scraped from the portal.
type CreateManualOrderInput struct {
	OrderNumber string
	Address     string
	Priority    string
	Instruction string
	DueAt       *string
}

func (s *Service) CreateManualOrder(ctx context.Context, input CreateManualOrderInput) (ports.Order, error) {
	if err := s.check(ctx); err != nil {
		return ports.Order{}, err
	}
	if input.OrderNumber == "" {
		return ports.Order{}, &workflow.ValidationError{Field: "order_number", Reason: "required"}
	}

	now := nowUTCString()
	return s.repo.CreateOrder(ctx, ports.Order{
		OrderNumber:   input.OrderNumber,
		Status:        string(workflow.StatusPending),
		Priority:      string(workflow.NormalizePriority(input.Priority)),
		Source:        string(workflow.SourceAdminManual),
		Address:       input.Address,
		Instruction:   input.Instruction,
		DueAt:         input.DueAt,
		OrderPlacedAt: &now,
		CreatedAt:     now,
	})
}
