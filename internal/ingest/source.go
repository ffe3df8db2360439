// Package ingest loads job records from CSV, XLSX or the job store and normalizes them.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/models"
	"github.com/hyperjump/jobfit/internal/storage"
)

// Column names recognized in tabular sources (case-insensitive, surrounding spaces ignored).
const (
	ColumnJobID       = "job_id"
	ColumnTitle       = "job_title"
	ColumnDescription = "job_description"
	ColumnCompany     = "company_name"
	ColumnLocation    = "job_location"
	ColumnWorkRights  = "work_rights_requirement"
)

// requiredColumns must be present in a tabular source header.
var requiredColumns = []string{ColumnTitle, ColumnDescription, ColumnWorkRights}

// Source supplies the job corpus for a run.
type Source interface {
	Load(ctx context.Context) ([]models.JobRecord, error)
	Name() string
}

// NewSource creates the source selected by cfg.Type. store is only used by the storage source.
func NewSource(cfg *config.SourceConfig, store storage.Storage) (Source, error) {
	switch cfg.Type {
	case config.SourceCSV:
		return NewFileSource(cfg.Path, "")
	case config.SourceXLSX:
		return NewFileSource(cfg.Path, cfg.Sheet)
	case config.SourceStorage:
		if store == nil {
			return nil, fmt.Errorf("storage source requires a job store")
		}
		return NewStoreSource(store), nil
	default:
		return nil, fmt.Errorf("unknown source type %q (supported: csv, xlsx, storage)", cfg.Type)
	}
}

// FileSource reads jobs from a .csv or .xlsx file on every Load.
type FileSource struct {
	path  string
	sheet string
}

// NewFileSource creates a source for path. sheet selects the worksheet of an .xlsx file;
// empty means the first sheet.
func NewFileSource(path, sheet string) (*FileSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
	default:
		return nil, fmt.Errorf("unsupported job file %q (supported: .csv, .xlsx)", path)
	}
	return &FileSource{path: path, sheet: sheet}, nil
}

// Load reads and normalizes every row of the file.
func (s *FileSource) Load(ctx context.Context) ([]models.JobRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := ReadTable(s.path, s.sheet)
	if err != nil {
		return nil, err
	}
	return RowsToJobs(rows)
}

// Name returns the file path.
func (s *FileSource) Name() string {
	return s.path
}

// Path returns the file path.
func (s *FileSource) Path() string {
	return s.path
}

// StoreSource reads jobs previously imported into the job store.
type StoreSource struct {
	store storage.Storage
}

// NewStoreSource wraps store.
func NewStoreSource(store storage.Storage) *StoreSource {
	return &StoreSource{store: store}
}

// Load returns the stored corpus in import order.
func (s *StoreSource) Load(ctx context.Context) ([]models.JobRecord, error) {
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored jobs: %w", err)
	}
	for i := range jobs {
		jobs[i].Normalize()
	}
	return jobs, nil
}

// Name identifies the source in logs and status output.
func (s *StoreSource) Name() string {
	return "storage"
}

// RowsToJobs maps a header row plus data rows to job records. Missing optional columns and
// short rows yield empty fields; rows with every cell blank are skipped.
func RowsToJobs(rows [][]string) ([]models.JobRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("job table is empty: header row required")
	}
	columns := make(map[string]int)
	for i, name := range rows[0] {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			return nil, fmt.Errorf("job table is missing required column %q", c)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	jobs := make([]models.JobRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		job := models.JobRecord{
			ID:                    cell(row, ColumnJobID),
			Title:                 cell(row, ColumnTitle),
			Description:           cell(row, ColumnDescription),
			Company:               cell(row, ColumnCompany),
			Location:              cell(row, ColumnLocation),
			WorkRightsRequirement: cell(row, ColumnWorkRights),
		}
		job.Normalize()
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
