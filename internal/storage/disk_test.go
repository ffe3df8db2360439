package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/jobfit/internal/models"
)

func TestDatabaseFiles(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/data/jobs.db", []string{"/data/jobs.db", "/data/jobs.db-wal", "/data/jobs.db-shm"}},
		{":memory:", nil},
		{"", nil},
	}
	for _, tt := range tests {
		if got := DatabaseFiles(tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DatabaseFiles(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDatabaseSize(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "jobs.db")

	got, err := DatabaseSize(dbPath)
	if err != nil || got != 0 {
		t.Errorf("missing database: got %d, %v", got, err)
	}

	if err := os.WriteFile(dbPath, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dbPath+"-wal", []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.db"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = DatabaseSize(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if got != 8 {
		t.Errorf("database with WAL: got %d bytes, want 8", got)
	}

	got, err = DatabaseSize(":memory:")
	if err != nil || got != 0 {
		t.Errorf("in-memory database: got %d, %v", got, err)
	}
}

func TestDatabaseSize_GrowsWithJobs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "jobs.db")
	s, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	before, err := DatabaseSize(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	jobs := make([]models.JobRecord, 50)
	for i := range jobs {
		jobs[i] = models.JobRecord{Title: "Developer", Description: "Build services in Go and SQL"}
	}
	if err := s.ReplaceJobs(context.Background(), "bench", jobs); err != nil {
		t.Fatal(err)
	}
	after, err := DatabaseSize(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if after <= before {
		t.Errorf("size should grow after import: before %d, after %d", before, after)
	}
}
