package services

import (
	"context"

	"github.com/username/tradejournal/src/model"
	"github.com/username/tradejournal/src/models"
)

// ImportRequest is one uploaded export owned by an account.
type ImportRequest struct {
	AccountID string
	FileName  string
	Content   []byte
}

// Progress is reported after every committed batch.
type Progress struct {
	BatchesDone  int `json:"batches_done"`
	BatchesTotal int `json:"batches_total"`
	Committed    int `json:"committed"`
	Total        int `json:"total"`
}

// ProgressFunc receives pipeline progress. It is called synchronously from Commit.
type ProgressFunc func(Progress)

// ImportReport is the outcome of a commit, including partial imports.
type ImportReport struct {
	ImportID    string               `json:"import_id"`
	AccountID   string               `json:"account_id"`
	FileName    string               `json:"file_name"`
	Format      models.FormatKind    `json:"format"`
	Status      string               `json:"status"`
	Parsed      int                  `json:"parsed"`
	Committed   int                  `json:"committed"`
	Duplicates  int                  `json:"duplicates"`
	InsertedIDs []int64              `json:"inserted_ids"`
	RowErrors   []models.ImportError `json:"row_errors"`
	Error       string               `json:"error,omitempty"`
}

// BatchResult is what a sink reports for one committed batch.
type BatchResult struct {
	IDs        []int64
	Duplicates int
}

// TradeSink persists batches of trades. A returned error means nothing of that
// batch was written.
type TradeSink interface {
	InsertBatch(ctx context.Context, batch []models.StoredTrade) (BatchResult, error)
}

// TradeStore is a sink that can also read back and remove stored trades.
type TradeStore interface {
	TradeSink
	ListTrades(ctx context.Context, accountID string) ([]models.StoredTrade, error)
	DeleteImport(ctx context.Context, accountID, importID string) (int64, error)
}

// JobStore records import job lifecycle.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.ImportJob) error
	FinishJob(ctx context.Context, job *model.ImportJob) error
	GetJob(ctx context.Context, accountID, id string) (*model.ImportJob, error)
}

// ImportService parses uploads and drives them through the batch pipeline.
type ImportService interface {
	Preview(ctx context.Context, req ImportRequest) (*models.ImportResult, error)
	Commit(ctx context.Context, req ImportRequest, progress ProgressFunc) (*ImportReport, error)
	LatestReport(accountID string) (*ImportReport, error)
	GetJob(ctx context.Context, accountID, id string) (*model.ImportJob, error)
}
