package orders

import (
	"context"

	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/ports"
)

// ChecklistStatus summarises an order's checklist for dashboards.
type ChecklistStatus struct {
	Items     []ports.ChecklistItem
	Total     int
	Checked   int
	Unchecked int
}

// ToggleChecklistItem checks or unchecks one item while the order sits in
// checker review. Checking stamps who and when; unchecking clears both.
func (s *Service) ToggleChecklistItem(ctx context.Context, input ToggleChecklistItemInput) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	return s.uow.WithTx(ctx, func(txCtx context.Context) error {
		item, err := s.repo.GetChecklistItem(txCtx, input.ItemID)
		if err != nil {
			return err
		}
		order, err := s.repo.GetOrder(txCtx, item.OrderID)
		if err != nil {
			return err
		}
		if err := requireStatus(order, workflow.ActionCompleteChecklist, workflow.StatusCheckerReview); err != nil {
			return err
		}

		if !input.Checked {
			return s.repo.SetChecklistItem(txCtx, item.ItemID, false, nil, nil)
		}
		now := nowUTCString()
		userID := input.UserID
		return s.repo.SetChecklistItem(txCtx, item.ItemID, true, &now, &userID)
	})
}

// GetChecklistStatus returns the order's checklist items with counts.
func (s *Service) GetChecklistStatus(ctx context.Context, orderID uint64) (ChecklistStatus, error) {
	if err := s.check(ctx); err != nil {
		return ChecklistStatus{}, err
	}

	items, err := s.repo.ListChecklistItems(ctx, orderID)
	if err != nil {
		return ChecklistStatus{}, err
	}

	status := ChecklistStatus{Items: items, Total: len(items)}
	for _, item := range items {
		if item.Checked {
			status.Checked++
		}
	}
	status.Unchecked = status.Total - status.Checked
	return status, nil
}
