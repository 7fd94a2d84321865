package workflow

import (
	"errors"
	"testing"
)

func TestNextHappyPath(t *testing.T) {
	steps := []struct {
		from   Status
		action Action
		want   Status
	}{
		{StatusPending, ActionAssignDrawer, StatusAssignedToDrawer},
		{StatusAssignedToDrawer, ActionCompleteDrawing, StatusCheckerReview},
		{StatusCheckerReview, ActionApproveChecker, StatusQaReview},
		{StatusQaReview, ActionApproveQa, StatusCompleted},
	}

	for _, step := range steps {
		got, err := Next(step.from, step.action)
		if err != nil {
			t.Fatalf("Next(%s, %s) error = %v", step.from, step.action, err)
		}
		if got != step.want {
			t.Fatalf("Next(%s, %s) = %s, want %s", step.from, step.action, got, step.want)
		}
	}
}

func TestNextBackwardEdges(t *testing.T) {
	got, err := Next(StatusCheckerReview, ActionRejectChecker)
	if err != nil {
		t.Fatalf("checker reject error = %v", err)
	}
	if got != StatusAssignedToDrawer {
		t.Fatalf("checker reject = %s, want %s", got, StatusAssignedToDrawer)
	}

	got, err = Next(StatusQaReview, ActionRejectQa)
	if err != nil {
		t.Fatalf("qa reject error = %v", err)
	}
	if got != StatusCheckerReview {
		t.Fatalf("qa reject = %s, want %s", got, StatusCheckerReview)
	}
}

func TestNextWrongStatus(t *testing.T) {
	_, err := Next(StatusPending, ActionApproveQa)
	var pre *PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("Next() error = %v, want *PreconditionError", err)
	}
	if pre.Actual != StatusPending {
		t.Fatalf("PreconditionError.Actual = %s", pre.Actual)
	}
	if len(pre.Expected) != 1 || pre.Expected[0] != StatusQaReview {
		t.Fatalf("PreconditionError.Expected = %v", pre.Expected)
	}
}

func TestManagerRejectFromActiveStates(t *testing.T) {
	for _, from := range []Status{
		StatusPending, StatusAssignedToDrawer, StatusCheckerReview, StatusQaReview,
	} {
		got, err := Next(from, ActionRejectManager)
		if err != nil {
			t.Fatalf("manager reject from %s error = %v", from, err)
		}
		if got != StatusRejected {
			t.Fatalf("manager reject from %s = %s", from, got)
		}
	}

	if _, err := Next(StatusCompleted, ActionRejectManager); err == nil {
		t.Fatal("manager reject from completed should fail")
	}
	if _, err := Next(StatusRejected, ActionRejectManager); err == nil {
		t.Fatal("manager reject from rejected should fail")
	}
}

func TestNextUnknownAction(t *testing.T) {
	if _, err := Next(StatusPending, Action("fold")); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("Next() error = %v, want ErrUnknownAction", err)
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" Checker_Review ")
	if err != nil {
		t.Fatalf("ParseStatus() error = %v", err)
	}
	if got != StatusCheckerReview {
		t.Fatalf("ParseStatus() = %s", got)
	}

	if _, err := ParseStatus("shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("ParseStatus() error = %v, want ErrInvalidStatus", err)
	}
}

func TestNormalizePriority(t *testing.T) {
	if got := NormalizePriority(" URGENT "); got != PriorityUrgent {
		t.Fatalf("NormalizePriority() = %s", got)
	}
	if got := NormalizePriority("asap"); got != PriorityRegular {
		t.Fatalf("NormalizePriority() fallback = %s", got)
	}
	if got := NormalizePriority(""); got != PriorityRegular {
		t.Fatalf("NormalizePriority() empty = %s", got)
	}
}

func TestParseSeverity(t *testing.T) {
	got, err := ParseSeverity("Major")
	if err != nil {
		t.Fatalf("ParseSeverity() error = %v", err)
	}
	if got != SeverityMajor {
		t.Fatalf("ParseSeverity() = %s", got)
	}

	if _, err := ParseSeverity("blocker"); !errors.Is(err, ErrInvalidSeverity) {
		t.Fatalf("ParseSeverity() error = %v, want ErrInvalidSeverity", err)
	}
}
