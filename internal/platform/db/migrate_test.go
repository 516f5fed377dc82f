package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMigrations_SortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "002_sequencer_state.sql", "CREATE TABLE sequencer_state (id int);")
	writeFile(t, dir, "001_submissions.sql", "CREATE TABLE submissions (id uuid);")
	writeFile(t, dir, "notes.txt", "ignore me")
	writeFile(t, dir, "README.sql", "no numeric prefix")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Errorf("migrations not sorted by version: %+v", migrations)
	}
	if migrations[0].Name != "001_submissions.sql" {
		t.Errorf("unexpected first migration: %s", migrations[0].Name)
	}
	if migrations[1].SQL == "" {
		t.Error("migration SQL not loaded")
	}
}

func TestLoadMigrations_MissingDirectory(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/path")
	if _, err := m.LoadMigrations(); err == nil {
		t.Error("expected error for missing directory")
	}
}
