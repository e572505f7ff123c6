package notion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSchemaLoaderEmptyPath(t *testing.T) {
	got, err := NewSchemaLoader("").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(DefaultSchema(), got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaLoaderOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := `---
synonyms:
  roles: [audience, 角色]
  owner: [maintainer]
active_statuses: [shown, live]
filter_inactive: false
fallback_category: Misc
default_title: "  "
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	got, err := NewSchemaLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff([]string{"audience", "角色"}, got.Synonyms["ROLES"]); diff != "" {
		t.Errorf("ROLES synonyms mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"maintainer"}, got.Synonyms["OWNER"]); diff != "" {
		t.Errorf("OWNER synonyms mismatch (-want +got):\n%s", diff)
	}
	if len(got.Synonyms["URL"]) == 0 {
		t.Error("built-in URL synonyms lost")
	}
	if !got.IsActiveStatus("live") || got.IsActiveStatus("active") {
		t.Errorf("ActiveStatuses = %v, want [shown live]", got.ActiveStatuses)
	}
	if got.FilterInactive {
		t.Error("FilterInactive = true, want false")
	}
	if got.FallbackCategory != "Misc" {
		t.Errorf("FallbackCategory = %q, want %q", got.FallbackCategory, "Misc")
	}
	if got.DefaultTitle != DefaultSchema().DefaultTitle {
		t.Errorf("DefaultTitle = %q, want built-in", got.DefaultTitle)
	}
	if got.DefaultStatus != "active" {
		t.Errorf("DefaultStatus = %q, want %q", got.DefaultStatus, "active")
	}
}

func TestSchemaLoaderFileNotFound(t *testing.T) {
	if _, err := NewSchemaLoader("/nonexistent/schema.yaml").Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestSchemaLoaderInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte("synonyms: [not, a, map"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	if _, err := NewSchemaLoader(path).Load(); err == nil {
		t.Error("Load() with invalid yaml should return error")
	}
}

func TestDefaultSchemaIsolated(t *testing.T) {
	a := DefaultSchema()
	a.Synonyms["ROLES"] = nil
	if len(DefaultSchema().Synonyms["ROLES"]) == 0 {
		t.Error("DefaultSchema() shares its synonym table between calls")
	}
}
