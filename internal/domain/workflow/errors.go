package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidSeverity = errors.New("invalid issue severity")
	ErrInvalidRole     = errors.New("invalid role")
	ErrUnknownAction   = errors.New("unknown workflow action")
)

// PreconditionError reports a transition attempted from the wrong status.
// The order is left unmodified when this is returned.
type PreconditionError struct {
	Action   Action
	Expected []Status
	Actual   Status
}

func (e *PreconditionError) Error() string {
	expected := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		expected = append(expected, string(s))
	}
	return fmt.Sprintf("action %s requires status %s, order is %s",
		e.Action, strings.Join(expected, " or "), e.Actual)
}

// PrerequisiteError reports a checklist gate that is not yet satisfied.
type PrerequisiteError struct {
	Unchecked int
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("checklist incomplete: %d item(s) unchecked", e.Unchecked)
}

// ValidationError reports malformed actor input, e.g. assigning a user
// without the drawer role.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
