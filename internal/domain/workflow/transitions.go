package workflow

// Action names a workflow operation that may change an order's status.
type Action string

const (
	ActionAssignDrawer    Action = "assign_drawer"
	ActionCompleteDrawing Action = "complete_drawing"
	ActionApproveChecker  Action = "checker_approve"
	ActionRejectChecker   Action = "checker_reject"
	ActionApproveQa       Action = "qa_approve"
	ActionRejectQa        Action = "qa_reject"
	ActionRejectManager   Action = "manager_reject"

	// Guard-only actions: they touch stage timestamps without moving status,
	// so they have no entry in the transition table.
	ActionStartDrawing       Action = "start_drawing"
	ActionStartCheckerReview Action = "checker_start_review"
	ActionCompleteChecklist  Action = "checklist_complete"
	ActionStartQaReview      Action = "qa_start_review"
	ActionSubmitReview       Action = "submit_review"
)

type rule struct {
	from []Status
	to   Status
}

// transitions is the single source of truth for status changes. Actions that
// touch timestamps without moving status (drawer start, review start,
// checklist completion) are guarded by status checks in the usecase layer and
// intentionally absent here.
var transitions = map[Action]rule{
	ActionAssignDrawer: {
		from: []Status{StatusPending, StatusAssignedToDrawer},
		to:   StatusAssignedToDrawer,
	},
	ActionCompleteDrawing: {
		from: []Status{StatusAssignedToDrawer},
		to:   StatusCheckerReview,
	},
	ActionApproveChecker: {
		from: []Status{StatusCheckerReview},
		to:   StatusQaReview,
	},
	ActionRejectChecker: {
		from: []Status{StatusCheckerReview},
		to:   StatusAssignedToDrawer,
	},
	ActionApproveQa: {
		from: []Status{StatusQaReview},
		to:   StatusCompleted,
	},
	ActionRejectQa: {
		from: []Status{StatusQaReview},
		to:   StatusCheckerReview,
	},
	ActionRejectManager: {
		from: []Status{
			StatusPending,
			StatusAssignedToDrawer,
			StatusDrawerCompleted,
			StatusCheckerReview,
			StatusCheckerCompleted,
			StatusQaReview,
			StatusQaCompleted,
		},
		to: StatusRejected,
	},
}

// Next resolves the target status for action from the current status.
// A wrong current status yields *PreconditionError and no other effect.
func Next(current Status, action Action) (Status, error) {
	r, ok := transitions[action]
	if !ok {
		return "", ErrUnknownAction
	}
	for _, from := range r.from {
		if from == current {
			return r.to, nil
		}
	}
	return "", &PreconditionError{
		Action:   action,
		Expected: append([]Status(nil), r.from...),
		Actual:   current,
	}
}

// AllowedFrom reports the statuses from which action may be applied.
func AllowedFrom(action Action) []Status {
	r, ok := transitions[action]
	if !ok {
		return nil
	}
	return append([]Status(nil), r.from...)
}
