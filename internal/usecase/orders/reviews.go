package orders

import (
	"context"
	"strings"

	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/ports"
)

// SubmitReview records a standalone review without moving status. The
// checker and QA approve/reject operations write their own reviews; this
// path exists for ad-hoc commentary during either review stage.
func (s *Service) SubmitReview(ctx context.Context, input SubmitReviewInput) (ports.Review, error) {
	if err := s.check(ctx); err != nil {
		return ports.Review{}, err
	}

	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return ports.Review{}, &workflow.ValidationError{Field: "comment", Reason: "required"}
	}
	issues, err := normalizeIssues(input.Issues)
	if err != nil {
		return ports.Review{}, err
	}

	var review ports.Review
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		reviewer, err := s.repo.GetUser(txCtx, input.ReviewerID)
		if err != nil {
			return err
		}
		role, err := workflow.ParseRole(reviewer.Role)
		if err != nil {
			return &workflow.ValidationError{Field: "reviewer_id", Reason: err.Error()}
		}
		if role != workflow.RoleChecker && role != workflow.RoleQa {
			return &workflow.ValidationError{
				Field:  "reviewer_id",
				Reason: "user " + reviewer.Name + " is not a checker or qa reviewer",
			}
		}

		order, err := s.repo.GetOrder(txCtx, input.OrderID)
		if err != nil {
			return err
		}
		if err := requireStatus(order, workflow.ActionSubmitReview,
			workflow.StatusCheckerReview, workflow.StatusQaReview); err != nil {
			return err
		}

		review, err = s.repo.CreateReview(txCtx, ports.Review{
			OrderID:    order.OrderID,
			ReviewerID: reviewer.UserID,
			Role:       string(role),
			Approved:   input.Approved,
			Comment:    comment,
			ReviewedAt: nowUTCString(),
		})
		if err != nil {
			return err
		}
		if input.Approved {
			return nil
		}
		return s.createReviewIssues(txCtx, order.OrderID, review.ReviewID, issues)
	})
	if err != nil {
		return ports.Review{}, err
	}
	return review, nil
}

// ReportIssue files an issue against an order outside a rejection, e.g. a
// problem noticed after hand-off. Terminal orders do not accept new issues.
func (s *Service) ReportIssue(ctx context.Context, orderID uint64, input IssueInput) (ports.Issue, error) {
	if err := s.check(ctx); err != nil {
		return ports.Issue{}, err
	}

	normalized, err := normalizeIssues([]IssueInput{input})
	if err != nil {
		return ports.Issue{}, err
	}

	var issue ports.Issue
	err = s.uow.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrder(txCtx, orderID)
		if err != nil {
			return err
		}
		if workflow.Status(order.Status).Terminal() {
			return &workflow.ValidationError{Field: "order_id", Reason: "order is closed"}
		}
		issue, err = s.repo.CreateIssue(txCtx, ports.Issue{
			OrderID:     order.OrderID,
			Severity:    normalized[0].Severity,
			Description: normalized[0].Description,
		})
		return err
	})
	if err != nil {
		return ports.Issue{}, err
	}
	return issue, nil
}
