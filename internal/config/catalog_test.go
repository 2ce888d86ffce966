package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCatalogTOML = `
[time_tracking]
hours_per_day = 8.0
days_per_week = 5.0

[[projects]]
id = 10000
key = "HSP"
name = "homosapien"

[[projects]]
id = 10001
key = "MKY"
name = "monkey"
browsers = ["fred"]

[[issue_types]]
id = 1
name = "Bug"

[[priorities]]
id = 1
name = "Blocker"
sequence = 1

[[versions]]
id = 10000
name = "New Version 1"
project_id = 10000
sequence = 1

[[users]]
name = "fred"
groups = ["jira-developers"]

[[fields]]
id = "cf[10000]"
custom_id = 10000
name = "Colour"
type = "custom-select"
searchable = true
orderable = true

[[contexts]]
id = "ctx-1"
field_id = "cf[10000]"
project_ids = [10000]

[[options]]
id = 20000
field_id = "cf[10000]"
value = "red"
`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog(writeCatalogFile(t, sampleCatalogTOML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Projects) != 2 || cat.Projects[0].Key != "HSP" {
		t.Fatalf("projects = %+v", cat.Projects)
	}
	if len(cat.Projects[1].Browsers) != 1 || cat.Projects[1].Browsers[0] != "fred" {
		t.Errorf("browsers = %v", cat.Projects[1].Browsers)
	}
	if cat.TimeTracking.HoursPerDay != 8 || cat.TimeTracking.DaysPerWeek != 5 {
		t.Errorf("time tracking = %+v", cat.TimeTracking)
	}
	if len(cat.Fields) != 1 || cat.Fields[0].CustomID != 10000 {
		t.Errorf("fields = %+v", cat.Fields)
	}
	if len(cat.Contexts) != 1 || cat.Contexts[0].ProjectIDs[0] != 10000 {
		t.Errorf("contexts = %+v", cat.Contexts)
	}
}

func TestLoadCatalog_UnknownKeyRejected(t *testing.T) {
	content := sampleCatalogTOML + "\n[[projcets]]\nid = 9\nkey = \"X\"\nname = \"typo\"\n"
	_, err := LoadCatalog(writeCatalogFile(t, content))
	if err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Fatalf("expected unknown-keys error, got %v", err)
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseCatalog_DanglingVersionProject(t *testing.T) {
	_, err := ParseCatalog(`
[[projects]]
id = 10000
key = "HSP"
name = "homosapien"

[[versions]]
id = 10000
name = "Orphan"
project_id = 99999
sequence = 1
`)
	if err == nil || !strings.Contains(err.Error(), "unknown project") {
		t.Fatalf("expected unknown-project error, got %v", err)
	}
}

func TestParseCatalog_ContextNeedsKnownField(t *testing.T) {
	_, err := ParseCatalog(`
[[contexts]]
id = "ctx-1"
field_id = "cf[10000]"
`)
	if err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected unknown-field error, got %v", err)
	}
}

func TestParseCatalog_DuplicateFieldID(t *testing.T) {
	_, err := ParseCatalog(`
[[fields]]
id = "cf[10000]"
name = "Colour"
type = "custom-select"

[[fields]]
id = "cf[10000]"
name = "Shade"
type = "custom-select"
`)
	if err == nil || !strings.Contains(err.Error(), "duplicate field id") {
		t.Fatalf("expected duplicate-field error, got %v", err)
	}
}
