package orders

import (
	"context"
	"strings"

	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/ports"
)

type CreateUserInput struct {
	Name string
	Role string
}

// CreateUser registers a workflow participant (drawer, checker, qa, manager).
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (ports.User, error) {
	if err := s.check(ctx); err != nil {
		return ports.User{}, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.User{}, &workflow.ValidationError{Field: "name", Reason: "required"}
	}
	role, err := workflow.ParseRole(input.Role)
	if err != nil {
		return ports.User{}, &workflow.ValidationError{Field: "role", Reason: err.Error()}
	}

	return s.repo.CreateUser(ctx, ports.User{Name: name, Role: string(role)})
}

// ListUsers lists users, optionally narrowed to one role.
func (s *Service) ListUsers(ctx context.Context, role string) ([]ports.User, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if role != "" {
		parsed, err := workflow.ParseRole(role)
		if err != nil {
			return nil, &workflow.ValidationError{Field: "role", Reason: err.Error()}
		}
		role = string(parsed)
	}
	return s.repo.ListUsers(ctx, role)
}
