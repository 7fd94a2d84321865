package orders

import (
	"context"
	"errors"
	"time"

	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/ports"
)

// Service exposes one operation per workflow transition plus the read side
// used by dashboards and the console. Every status change runs in a single
// transaction and compare-and-swaps on the expected current status, so two
// concurrent actors can never both win against a stale order.
type Service struct {
	repo ports.OrderRepository
	uow  ports.UnitOfWork
}

func NewService(repo ports.OrderRepository, uow ports.UnitOfWork) *Service {
	return &Service{repo: repo, uow: uow}
}

func (s *Service) check(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.repo == nil {
		return errors.New("order repository is required")
	}
	if s.uow == nil {
		return errors.New("unit of work is required")
	}
	return nil
}

// TransitionResult reports the applied status change.
type TransitionResult struct {
	OrderID uint64
	From    workflow.Status
	To      workflow.Status
}

type AssignDrawerInput struct {
	OrderID  uint64
	DrawerID uint64
	ActorID  uint64
}

type StageActionInput struct {
	OrderID uint64
	ActorID uint64
}

type RejectInput struct {
	OrderID uint64
	ActorID uint64
	Reason  string
	Issues  []IssueInput
}

type IssueInput struct {
	Severity    string
	Description string
}

type SubmitReviewInput struct {
	OrderID    uint64
	ReviewerID uint64
	Approved   bool
	Comment    string
	Issues     []IssueInput
}

type ToggleChecklistItemInput struct {
	ItemID  uint64
	UserID  uint64
	Checked bool
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// actorRef turns an optional actor id into the nullable audit reference.
func actorRef(id uint64) *uint64 {
	if id == 0 {
		return nil
	}
	return &id
}

// transition applies one status-changing action: resolve the target status,
// CAS the order row, let apply add side effects, then write the audit log.
// A CAS miss means another actor moved the order first; the loser gets a
// precondition failure computed from the fresh status.
func (s *Service) transition(
	ctx context.Context,
	orderID uint64,
	action workflow.Action,
	actorID *uint64,
	note string,
	updates map[string]any,
	apply func(txCtx context.Context, order ports.Order, now string) error,
) (TransitionResult, error) {
	if err := s.check(ctx); err != nil {
		return TransitionResult{}, err
	}

	now := nowUTCString()
	var result TransitionResult

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		order, err := s.repo.GetOrder(txCtx, orderID)
		if err != nil {
			return err
		}

		current, err := workflow.ParseStatus(order.Status)
		if err != nil {
			return err
		}
		next, err := workflow.Next(current, action)
		if err != nil {
			return err
		}

		all := make(map[string]any, len(updates)+1)
		for k, v := range updates {
			all[k] = v
		}
		all["status"] = string(next)

		ok, err := s.repo.UpdateOrderIfStatus(txCtx, orderID, string(current), all)
		if err != nil {
			return err
		}
		if !ok {
			return staleStatusError(txCtx, s.repo, orderID, action)
		}

		if apply != nil {
			if err := apply(txCtx, order, now); err != nil {
				return err
			}
		}

		if next != current {
			from := string(current)
			if err := s.repo.AppendStatusLog(txCtx, ports.StatusLog{
				OrderID:    orderID,
				FromStatus: &from,
				ToStatus:   string(next),
				ActorID:    actorID,
				Note:       note,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}

		result = TransitionResult{OrderID: orderID, From: current, To: next}
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}
	return result, nil
}

// staleStatusError re-reads the order after a CAS miss and builds the
// precondition failure the caller would have seen without the race.
func staleStatusError(ctx context.Context, repo ports.OrderReadRepository, orderID uint64, action workflow.Action) error {
	fresh, err := repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	return &workflow.PreconditionError{
		Action:   action,
		Expected: workflow.AllowedFrom(action),
		Actual:   workflow.Status(fresh.Status),
	}
}

// requireStatus guards timestamp-only actions that do not move status.
func requireStatus(order ports.Order, action workflow.Action, expected ...workflow.Status) error {
	for _, status := range expected {
		if workflow.Status(order.Status) == status {
			return nil
		}
	}
	return &workflow.PreconditionError{
		Action:   action,
		Expected: expected,
		Actual:   workflow.Status(order.Status),
	}
}
