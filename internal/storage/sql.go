package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/jobfit/internal/models"
)

const jobsSchema = `
	CREATE TABLE IF NOT EXISTS jobs (
		row_num INTEGER PRIMARY KEY,
		job_id TEXT NOT NULL DEFAULT '',
		job_title TEXT NOT NULL DEFAULT '',
		job_description TEXT NOT NULL DEFAULT '',
		company_name TEXT NOT NULL DEFAULT '',
		job_location TEXT NOT NULL DEFAULT '',
		work_rights_requirement TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		imported_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_job_id ON jobs(job_id);
	`

// sqlStore implements Storage over database/sql. Queries are written with "?" placeholders
// and rebound for drivers that use numbered placeholders.
type sqlStore struct {
	db       *sql.DB
	numbered bool
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(jobsSchema)
	return err
}

func (s *sqlStore) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ReplaceJobs deletes the stored corpus and inserts jobs in one transaction.
func (s *sqlStore) ReplaceJobs(ctx context.Context, source string, jobs []models.JobRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs`); err != nil {
		return fmt.Errorf("failed to clear jobs: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(
		`INSERT INTO jobs (row_num, job_id, job_title, job_description, company_name, job_location,
		 work_rights_requirement, source, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range jobs {
		j := &jobs[i]
		if _, err := stmt.ExecContext(ctx,
			i, j.ID, j.Title, j.Description, j.Company, j.Location, j.WorkRightsRequirement, source, now,
		); err != nil {
			return fmt.Errorf("failed to insert job %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListJobs returns all jobs ordered by import position.
func (s *sqlStore) ListJobs(ctx context.Context) ([]models.JobRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, job_title, job_description, company_name, job_location, work_rights_requirement
		 FROM jobs ORDER BY row_num`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]models.JobRecord, 0)
	for rows.Next() {
		var j models.JobRecord
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &j.Company, &j.Location, &j.WorkRightsRequirement); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// CountJobs returns the number of stored jobs.
func (s *sqlStore) CountJobs(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *sqlStore) Close() error {
	return s.db.Close()
}
