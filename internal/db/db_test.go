package db

import (
	"path/filepath"
	"testing"
)

func TestNew_CreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer database.Close()

	tables := []string{"renders", "goose_db_version"}
	for _, table := range tables {
		var name string
		err := database.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}

	version, err := database.Version()
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if version != 2 {
		t.Errorf("Version() = %d, want 2", version)
	}
}

func TestNew_WALEnabled(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer database.Close()

	var journalMode string
	err = database.Conn().QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("PRAGMA journal_mode error = %v", err)
	}

	if journalMode != "wal" {
		t.Errorf("journal_mode = %s, want wal", journalMode)
	}
}

func TestNew_MigrationsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db1, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("first New() error = %v", err)
	}
	db1.Close()

	db2, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer db2.Close()
}

func TestNew_MarksInterruptedRenders(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db1, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("first New() error = %v", err)
	}
	_, err = db1.Conn().Exec(`
		INSERT INTO renders (id, mode, status, output_path, created_at, updated_at)
		VALUES ('r1', 'quote', 'running', 'output_quote.mp4', datetime('now'), datetime('now')),
		       ('r2', 'slideshow', 'completed', 'output_reel.mp4', datetime('now'), datetime('now'))`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	db1.Close()

	db2, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer db2.Close()

	var status, errMsg string
	if err := db2.Conn().QueryRow("SELECT status, error FROM renders WHERE id = 'r1'").Scan(&status, &errMsg); err != nil {
		t.Fatalf("select: %v", err)
	}
	if status != "failed" || errMsg != "interrupted by restart" {
		t.Errorf("r1 = %s/%q, want failed/interrupted by restart", status, errMsg)
	}

	if err := db2.Conn().QueryRow("SELECT status FROM renders WHERE id = 'r2'").Scan(&status); err != nil {
		t.Fatalf("select: %v", err)
	}
	if status != "completed" {
		t.Errorf("r2 status = %s, want completed", status)
	}
}
