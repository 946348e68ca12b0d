package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Import job statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)

var ErrImportJobNotFound = errors.New("import job not found")

type ImportJob struct {
	ID            string     `json:"id"`
	AccountID     string     `json:"account_id"`
	FileName      string     `json:"file_name"`
	Format        string     `json:"format"`
	Status        string     `json:"status"`
	RowsParsed    int        `json:"rows_parsed"`
	RowsFailed    int        `json:"rows_failed"`
	RowsCommitted int        `json:"rows_committed"`
	RowsDuplicate int        `json:"rows_duplicate"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}

// CreateImportJob inserts a job in the running state.
func CreateImportJob(db *sql.DB, job *ImportJob) error {
	if job.Status == "" {
		job.Status = StatusRunning
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	_, err := db.Exec(`
	INSERT INTO import_jobs (id, account_id, file_name, format, status, rows_parsed, rows_failed, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.AccountID, job.FileName, job.Format, job.Status, job.RowsParsed, job.RowsFailed, job.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create import job %s: %w", job.ID, err)
	}
	return nil
}

// FinishImportJob records the terminal status and counts of a job.
func FinishImportJob(db *sql.DB, job *ImportJob) error {
	now := time.Now().UTC()
	job.FinishedAt = &now
	res, err := db.Exec(`
	UPDATE import_jobs
	SET status = ?, rows_committed = ?, rows_duplicate = ?, error = ?, finished_at = ?
	WHERE id = ?`,
		job.Status, job.RowsCommitted, job.RowsDuplicate, job.Error, now, job.ID)
	if err != nil {
		return fmt.Errorf("failed to finish import job %s: %w", job.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrImportJobNotFound
	}
	return nil
}

// GetImportJob loads one job of an account.
func GetImportJob(db *sql.DB, accountID, id string) (*ImportJob, error) {
	row := db.QueryRow(`
	SELECT id, account_id, file_name, format, status, rows_parsed, rows_failed, rows_committed, rows_duplicate,
		error, created_at, finished_at
	FROM import_jobs
	WHERE id = ? AND account_id = ?`, id, accountID)

	var (
		job      ImportJob
		fileName sql.NullString
		format   sql.NullString
		errText  sql.NullString
		finished sql.NullTime
	)
	err := row.Scan(&job.ID, &job.AccountID, &fileName, &format, &job.Status, &job.RowsParsed, &job.RowsFailed,
		&job.RowsCommitted, &job.RowsDuplicate, &errText, &job.CreatedAt, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrImportJobNotFound
		}
		return nil, fmt.Errorf("failed to load import job %s: %w", id, err)
	}
	job.FileName = fileName.String
	job.Format = format.String
	job.Error = errText.String
	if finished.Valid {
		t := finished.Time
		job.FinishedAt = &t
	}
	return &job, nil
}
