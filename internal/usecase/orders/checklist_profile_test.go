package orders

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const sampleProfile = `version = 1

[[items]]
role = "checker"
title = "Boundaries match survey"
position = 1

[[items]]
role = "checker"
title = "Easements shown"
position = 2
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checklists.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadChecklistProfile(t *testing.T) {
	profile, err := LoadChecklistProfile(writeProfile(t, sampleProfile))
	if err != nil {
		t.Fatalf("LoadChecklistProfile() error = %v", err)
	}
	if len(profile.Items) != 2 {
		t.Fatalf("items = %d", len(profile.Items))
	}
	if profile.Items[0].Role != "checker" || profile.Items[0].Position != 1 {
		t.Fatalf("first item = %+v", profile.Items[0])
	}
}

func TestLoadChecklistProfileRejectsBadRole(t *testing.T) {
	bad := `version = 1

[[items]]
role = "painter"
title = "x"
`
	if _, err := LoadChecklistProfile(writeProfile(t, bad)); err == nil {
		t.Fatal("LoadChecklistProfile() accepted unknown role")
	}
}

func TestLoadChecklistProfileRejectsWrongVersion(t *testing.T) {
	if _, err := LoadChecklistProfile(writeProfile(t, "version = 9\n")); err == nil {
		t.Fatal("LoadChecklistProfile() accepted wrong version")
	}
}

func TestSeedChecklistTemplatesIsIdempotent(t *testing.T) {
	svc, repo := setupService(t)
	ctx := context.Background()

	profile, err := LoadChecklistProfile(writeProfile(t, sampleProfile))
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}

	seeded, err := svc.SeedChecklistTemplates(ctx, profile)
	if err != nil {
		t.Fatalf("SeedChecklistTemplates() error = %v", err)
	}
	if seeded != 2 {
		t.Fatalf("seeded = %d, want 2", seeded)
	}

	seeded, err = svc.SeedChecklistTemplates(ctx, profile)
	if err != nil {
		t.Fatalf("second seed error = %v", err)
	}
	if seeded != 0 {
		t.Fatalf("second seed = %d, want 0", seeded)
	}

	templates, err := repo.ListChecklistTemplates(ctx, "checker")
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("templates = %d", len(templates))
	}
}
