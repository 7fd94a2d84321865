package orders

import (
	"context"
	"strings"

	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/ports"
)

// AssignDrawer binds a drawer to the order and moves it to
// assigned_to_drawer. Reassignment retires the previous current drawer
// assignment in the same transaction.
func (s *Service) AssignDrawer(ctx context.Context, input AssignDrawerInput) (TransitionResult, error) {
	if err := s.check(ctx); err != nil {
		return TransitionResult{}, err
	}

	drawer, err := s.repo.GetUser(ctx, input.DrawerID)
	if err != nil {
		return TransitionResult{}, err
	}
	if drawer.Role != string(workflow.RoleDrawer) {
		return TransitionResult{}, &workflow.ValidationError{
			Field:  "drawer_id",
			Reason: "user " + drawer.Name + " does not have the drawer role",
		}
	}

	return s.transition(ctx, input.OrderID, workflow.ActionAssignDrawer, actorRef(input.ActorID),
		"Drawer assigned: "+drawer.Name,
		map[string]any{"assigned_at": nowUTCString()},
		func(txCtx context.Context, order ports.Order, now string) error {
			if _, err := s.repo.RetireCurrentAssignments(txCtx, order.OrderID, string(workflow.RoleDrawer)); err != nil {
				return err
			}
			_, err := s.repo.CreateAssignment(txCtx, ports.Assignment{
				OrderID:    order.OrderID,
				UserID:     drawer.UserID,
				Role:       string(workflow.RoleDrawer),
				AssignedAt: now,
				IsCurrent:  true,
			})
			return err
		})
}

// StartDrawing stamps drawer_started_at. Status does not move.
func (s *Service) StartDrawing(ctx context.Context, input StageActionInput) error {
	return s.stampStage(ctx, input, workflow.ActionStartDrawing,
		[]workflow.Status{workflow.StatusAssignedToDrawer},
		"drawer_started_at",
		func(txCtx context.Context, now string) error {
			_, err := s.repo.UpdateCurrentAssignment(txCtx, input.OrderID,
				string(workflow.RoleDrawer), map[string]any{"started_at": now})
			return err
		})
}

// CompleteDrawing hands the order to the checker stage and attaches the
// checker checklist when the order does not have one yet.
func (s *Service) CompleteDrawing(ctx context.Context, input StageActionInput) (TransitionResult, error) {
	return s.transition(ctx, input.OrderID, workflow.ActionCompleteDrawing, actorRef(input.ActorID),
		"Sent to checker",
		map[string]any{"drawer_completed_at": nowUTCString()},
		func(txCtx context.Context, order ports.Order, now string) error {
			if _, err := s.repo.UpdateCurrentAssignment(txCtx, order.OrderID,
				string(workflow.RoleDrawer), map[string]any{
					"completed_at": now,
					"is_current":   false,
				}); err != nil {
				return err
			}

			items, err := s.repo.ListChecklistItems(txCtx, order.OrderID)
			if err != nil {
				return err
			}
			if len(items) > 0 {
				return nil
			}
			templates, err := s.repo.ListChecklistTemplates(txCtx, string(workflow.RoleChecker))
			if err != nil {
				return err
			}
			return s.repo.CreateChecklistItems(txCtx, order.OrderID, templates)
		})
}

// StartCheckerReview stamps checker_started_at.
func (s *Service) StartCheckerReview(ctx context.Context, input StageActionInput) error {
	return s.stampStage(ctx, input, workflow.ActionStartCheckerReview,
		[]workflow.Status{workflow.StatusCheckerReview},
		"checker_started_at", nil)
}

// CompleteChecklist is the gate before checker review may conclude: it fails
// while any checklist item for the order remains unchecked.
func (s *Service) CompleteChecklist(ctx context.Context, input StageActionInput) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrder(txCtx, input.OrderID)
		if err != nil {
			return err
		}
		if err := requireStatus(order, workflow.ActionCompleteChecklist, workflow.StatusCheckerReview); err != nil {
			return err
		}

		unchecked, err := s.repo.CountUncheckedItems(txCtx, order.OrderID)
		if err != nil {
			return err
		}
		if unchecked > 0 {
			return &workflow.PrerequisiteError{Unchecked: int(unchecked)}
		}

		_, err = s.repo.UpdateOrderIfStatus(txCtx, order.OrderID, order.Status,
			map[string]any{"checker_started_at": nowUTCString()})
		return err
	})
}

// ApproveByChecker sends the order to QA and records the approval review.
func (s *Service) ApproveByChecker(ctx context.Context, input StageActionInput) (TransitionResult, error) {
	return s.transition(ctx, input.OrderID, workflow.ActionApproveChecker, actorRef(input.ActorID),
		"Approved by checker",
		map[string]any{"checker_completed_at": nowUTCString()},
		func(txCtx context.Context, order ports.Order, now string) error {
			_, err := s.repo.CreateReview(txCtx, ports.Review{
				OrderID:    order.OrderID,
				ReviewerID: input.ActorID,
				Role:       string(workflow.RoleChecker),
				Approved:   true,
				Comment:    "Order approved by checker",
				ReviewedAt: now,
			})
			return err
		})
}

// RejectByChecker returns the order to the drawer, recording a rejection
// review and one issue per supplied entry. Checker stage timestamps are
// cleared so the next pass starts clean.
func (s *Service) RejectByChecker(ctx context.Context, input RejectInput) (TransitionResult, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return TransitionResult{}, &workflow.ValidationError{Field: "reason", Reason: "required"}
	}
	issues, err := normalizeIssues(input.Issues)
	if err != nil {
		return TransitionResult{}, err
	}

	return s.transition(ctx, input.OrderID, workflow.ActionRejectChecker, actorRef(input.ActorID),
		"Rejected by checker: "+reason,
		map[string]any{
			"checker_started_at":   nil,
			"checker_completed_at": nil,
		},
		func(txCtx context.Context, order ports.Order, now string) error {
			review, err := s.repo.CreateReview(txCtx, ports.Review{
				OrderID:    order.OrderID,
				ReviewerID: input.ActorID,
				Role:       string(workflow.RoleChecker),
				Approved:   false,
				Comment:    reason,
				ReviewedAt: now,
			})
			if err != nil {
				return err
			}
			return s.createReviewIssues(txCtx, order.OrderID, review.ReviewID, issues)
		})
}

// StartQaReview stamps qa_started_at.
func (s *Service) StartQaReview(ctx context.Context, input StageActionInput) error {
	return s.stampStage(ctx, input, workflow.ActionStartQaReview,
		[]workflow.Status{workflow.StatusQaReview},
		"qa_started_at", nil)
}

// ApproveByQa completes the order.
func (s *Service) ApproveByQa(ctx context.Context, input StageActionInput) (TransitionResult, error) {
	return s.transition(ctx, input.OrderID, workflow.ActionApproveQa, actorRef(input.ActorID),
		"Order completed by QA",
		map[string]any{"qa_completed_at": nowUTCString()},
		func(txCtx context.Context, order ports.Order, now string) error {
			_, err := s.repo.CreateReview(txCtx, ports.Review{
				OrderID:    order.OrderID,
				ReviewerID: input.ActorID,
				Role:       string(workflow.RoleQa),
				Approved:   true,
				Comment:    "Order approved by QA",
				ReviewedAt: now,
			})
			return err
		})
}

// RejectByQa returns the order to checker review.
func (s *Service) RejectByQa(ctx context.Context, input RejectInput) (TransitionResult, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return TransitionResult{}, &workflow.ValidationError{Field: "reason", Reason: "required"}
	}

	return s.transition(ctx, input.OrderID, workflow.ActionRejectQa, actorRef(input.ActorID),
		"Rejected by QA: "+reason,
		map[string]any{
			"qa_started_at":   nil,
			"qa_completed_at": nil,
		},
		func(txCtx context.Context, order ports.Order, now string) error {
			_, err := s.repo.CreateReview(txCtx, ports.Review{
				OrderID:    order.OrderID,
				ReviewerID: input.ActorID,
				Role:       string(workflow.RoleQa),
				Approved:   false,
				Comment:    reason,
				ReviewedAt: now,
			})
			return err
		})
}

// RejectByManager drops the order out of the workflow from any active state.
func (s *Service) RejectByManager(ctx context.Context, input StageActionInput) (TransitionResult, error) {
	return s.transition(ctx, input.OrderID, workflow.ActionRejectManager, actorRef(input.ActorID),
		"Rejected by manager", nil, nil)
}

// stampStage writes one stage timestamp after a status guard, without moving
// status. The conditional update keeps it race-safe against concurrent
// transitions.
func (s *Service) stampStage(
	ctx context.Context,
	input StageActionInput,
	action workflow.Action,
	expected []workflow.Status,
	column string,
	extra func(txCtx context.Context, now string) error,
) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	now := nowUTCString()
	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrder(txCtx, input.OrderID)
		if err != nil {
			return err
		}
		if err := requireStatus(order, action, expected...); err != nil {
			return err
		}

		ok, err := s.repo.UpdateOrderIfStatus(txCtx, order.OrderID, order.Status,
			map[string]any{column: now})
		if err != nil {
			return err
		}
		if !ok {
			return staleStatusError(txCtx, s.repo, order.OrderID, action)
		}

		if extra != nil {
			return extra(txCtx, now)
		}
		return nil
	})
}

func normalizeIssues(inputs []IssueInput) ([]IssueInput, error) {
	issues := make([]IssueInput, 0, len(inputs))
	for _, input := range inputs {
		severity := strings.TrimSpace(input.Severity)
		if severity == "" {
			severity = string(workflow.SeverityMajor)
		}
		parsed, err := workflow.ParseSeverity(severity)
		if err != nil {
			return nil, &workflow.ValidationError{Field: "severity", Reason: err.Error()}
		}
		description := strings.TrimSpace(input.Description)
		if description == "" {
			return nil, &workflow.ValidationError{Field: "description", Reason: "required"}
		}
		issues = append(issues, IssueInput{Severity: string(parsed), Description: description})
	}
	return issues, nil
}

func (s *Service) createReviewIssues(ctx context.Context, orderID, reviewID uint64, issues []IssueInput) error {
	for _, issue := range issues {
		if _, err := s.repo.CreateIssue(ctx, ports.Issue{
			OrderID:     orderID,
			ReviewID:    &reviewID,
			Severity:    issue.Severity,
			Description: issue.Description,
		}); err != nil {
			return err
		}
	}
	return nil
}
