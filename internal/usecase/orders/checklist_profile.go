package orders

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"draftdesk/internal/domain/workflow"
	"draftdesk/internal/ports"
)

type checklistEntryConfig struct {
	Role     string `toml:"role"`
	Title    string `toml:"title"`
	Position int    `toml:"position"`
}

// ChecklistProfile is the checklists.toml file: the per-role item templates
// copied onto each order when it reaches the matching stage.
type ChecklistProfile struct {
	Version int                    `toml:"version"`
	Items   []checklistEntryConfig `toml:"items"`
}

func LoadChecklistProfile(file string) (ChecklistProfile, error) {
	path := strings.TrimSpace(file)
	if path == "" {
		return ChecklistProfile{}, errors.New("checklist file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return ChecklistProfile{}, err
	}

	var profile ChecklistProfile
	if err := toml.Unmarshal(raw, &profile); err != nil {
		return ChecklistProfile{}, err
	}
	if err := validateChecklistProfile(profile); err != nil {
		return ChecklistProfile{}, err
	}
	return profile, nil
}

func validateChecklistProfile(profile ChecklistProfile) error {
	if profile.Version != 1 {
		return errors.New("unsupported checklist version: expected version = 1")
	}
	for _, item := range profile.Items {
		if _, err := workflow.ParseRole(item.Role); err != nil {
			return errors.New("items." + strings.TrimSpace(item.Role) + ": " + err.Error())
		}
		if strings.TrimSpace(item.Title) == "" {
			return errors.New("items: title is required")
		}
	}
	return nil
}

// SeedChecklistTemplates inserts the profile's templates for roles that have
// none yet. Roles that already carry templates are left untouched, so edits
// to existing rows survive a re-run.
func (s *Service) SeedChecklistTemplates(ctx context.Context, profile ChecklistProfile) (int, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	byRole := make(map[string][]checklistEntryConfig)
	for _, item := range profile.Items {
		role := strings.ToLower(strings.TrimSpace(item.Role))
		byRole[role] = append(byRole[role], item)
	}

	seeded := 0
	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		for role, items := range byRole {
			existing, err := s.repo.ListChecklistTemplates(txCtx, role)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				continue
			}
			for position, item := range items {
				pos := item.Position
				if pos == 0 {
					pos = position + 1
				}
				if _, err := s.repo.CreateChecklistTemplate(txCtx, ports.ChecklistTemplate{
					Role:     role,
					Title:    strings.TrimSpace(item.Title),
					Position: pos,
				}); err != nil {
					return err
				}
				seeded++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seeded, nil
}
