// Package storage persists imported job corpora in SQLite or PostgreSQL.
package storage

import (
	"context"
	"fmt"

	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/models"
)

// Storage defines job corpus persistence operations.
type Storage interface {
	// ReplaceJobs atomically replaces the stored corpus with jobs, keeping their order.
	ReplaceJobs(ctx context.Context, source string, jobs []models.JobRecord) error
	// ListJobs returns the stored corpus in import order.
	ListJobs(ctx context.Context) ([]models.JobRecord, error)
	CountJobs(ctx context.Context) (int64, error)

	Close() error
}

// New opens the store selected by cfg.Driver.
func New(cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		s, err := NewSQLiteStorage(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := NewPostgresStorage(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q (supported: sqlite3, postgres)", cfg.Driver)
	}
}
