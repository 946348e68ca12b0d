// src/services/import_service.go
package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/tradejournal/src/logger"
	"github.com/username/tradejournal/src/model"
	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/parsers"
	"github.com/username/tradejournal/src/parsers/spreadsheet"
	"github.com/username/tradejournal/src/processors"
	"github.com/username/tradejournal/src/security/validation"
	"github.com/username/tradejournal/src/utils"
)

const (
	ckParseResult  = "parse_result_%s"
	ckLatestReport = "latest_import_report_account_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
	DefaultBatchSize       = 100
)

type importServiceImpl struct {
	engine         *parsers.Engine
	tradeProcessor processors.Processor
	sink           TradeSink
	jobs           JobStore
	reportCache    *cache.Cache
	batchSize      int
	newID          func() string
}

// ImportOption customizes the import service.
type ImportOption func(*importServiceImpl)

// WithEngine replaces the parsing engine, e.g. to pin its clock in tests.
func WithEngine(e *parsers.Engine) ImportOption {
	return func(s *importServiceImpl) { s.engine = e }
}

// WithBatchSize sets how many trades go into one sink call.
func WithBatchSize(n int) ImportOption {
	return func(s *importServiceImpl) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithIDGenerator replaces uuid import ids.
func WithIDGenerator(fn func() string) ImportOption {
	return func(s *importServiceImpl) { s.newID = fn }
}

func NewImportService(
	tradeProcessor processors.Processor,
	sink TradeSink,
	jobs JobStore,
	reportCache *cache.Cache,
	opts ...ImportOption,
) ImportService {
	s := &importServiceImpl{
		engine:         parsers.NewEngine(),
		tradeProcessor: tradeProcessor,
		sink:           sink,
		jobs:           jobs,
		reportCache:    reportCache,
		batchSize:      DefaultBatchSize,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Preview parses an upload without writing anything. Results are cached by
// content hash so a following Commit of the same file does not parse again.
// Every call gets its own copy of the result.
func (s *importServiceImpl) Preview(ctx context.Context, req ImportRequest) (*models.ImportResult, error) {
	return s.parse(ctx, req)
}

func (s *importServiceImpl) parse(ctx context.Context, req ImportRequest) (*models.ImportResult, error) {
	workbook := spreadsheet.IsWorkbook(req.FileName, req.Content)
	key := fmt.Sprintf(ckParseResult, contentKey(req.Content, workbook))
	if cached, found := s.reportCache.Get(key); found {
		logger.FromContext(ctx).Debug("Cache hit for parse result", "fileName", req.FileName)
		result := cached.(models.ImportResult).Clone()
		return &result, nil
	}

	var result models.ImportResult
	if workbook {
		records, err := spreadsheet.ReadRecords(bytes.NewReader(req.Content))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
		}
		result = s.engine.ParseRecords(records)
	} else {
		result = s.engine.Parse(validation.StripUnprintable(string(req.Content)))
	}

	logger.FromContext(ctx).Info("Parsed import file",
		"fileName", req.FileName, "format", result.Format, "trades", len(result.Trades), "rowErrors", len(result.Errors))
	s.reportCache.Set(key, result, cache.DefaultExpiration)
	owned := result.Clone()
	return &owned, nil
}

// Commit parses the upload and writes its trades in fixed-size batches. The
// first failing batch ends the import; trades committed before it stay stored
// and the returned report (status partial or failed) lists them alongside the
// error.
func (s *importServiceImpl) Commit(ctx context.Context, req ImportRequest, progress ProgressFunc) (*ImportReport, error) {
	if strings.TrimSpace(req.AccountID) == "" {
		return nil, ErrAccountRequired
	}
	startTime := time.Now()
	log := logger.FromContext(ctx)

	result, err := s.parse(ctx, req)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{
		ImportID:    s.newID(),
		AccountID:   req.AccountID,
		FileName:    req.FileName,
		Format:      result.Format,
		Parsed:      len(result.Trades),
		InsertedIDs: []int64{},
		RowErrors:   result.Errors,
	}
	if len(result.Trades) == 0 {
		report.Status = model.StatusFailed
		report.Error = ErrEmptyImport.Error()
		return report, ErrEmptyImport
	}

	job := &model.ImportJob{
		ID:         report.ImportID,
		AccountID:  req.AccountID,
		FileName:   req.FileName,
		Format:     string(result.Format),
		RowsParsed: len(result.Trades),
		RowsFailed: len(result.Errors),
	}
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	stored := s.tradeProcessor.Process(result.Trades, processors.ImportContext{
		AccountID: req.AccountID,
		ImportID:  report.ImportID,
		Format:    result.Format,
	})

	runErr := s.runBatches(ctx, stored, report, progress)
	switch {
	case runErr == nil:
		report.Status = model.StatusCompleted
	case report.Committed > 0:
		report.Status = model.StatusPartial
	default:
		report.Status = model.StatusFailed
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}

	job.Status = report.Status
	job.RowsCommitted = report.Committed
	job.RowsDuplicate = report.Duplicates
	job.Error = report.Error
	if err := s.jobs.FinishJob(context.WithoutCancel(ctx), job); err != nil {
		log.Error("Failed to record import job result", "importID", job.ID, "error", err)
	}

	s.reportCache.Set(fmt.Sprintf(ckLatestReport, req.AccountID), report, cache.DefaultExpiration)
	log.Info("Import finished",
		"importID", report.ImportID, "accountID", req.AccountID, "status", report.Status,
		"committed", report.Committed, "duplicates", report.Duplicates, "duration", time.Since(startTime))

	return report, runErr
}

func (s *importServiceImpl) runBatches(ctx context.Context, stored []models.StoredTrade, report *ImportReport, progress ProgressFunc) error {
	total := len(stored)
	batches := (total + s.batchSize - 1) / s.batchSize

	for b := 0; b < batches; b++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: import cancelled before batch %d/%d: %v", ErrBatchFailed, b+1, batches, err)
		}

		start := b * s.batchSize
		end := utils.MinInt(start+s.batchSize, total)
		res, err := s.sink.InsertBatch(ctx, stored[start:end])
		if err != nil {
			logger.FromContext(ctx).Warn("Trade batch failed, stopping import",
				"importID", report.ImportID, "batch", b+1, "batches", batches, "committed", report.Committed, "error", err)
			return fmt.Errorf("%w: batch %d/%d: %v", ErrBatchFailed, b+1, batches, err)
		}

		report.InsertedIDs = append(report.InsertedIDs, res.IDs...)
		report.Committed += len(res.IDs)
		report.Duplicates += res.Duplicates
		if progress != nil {
			progress(Progress{BatchesDone: b + 1, BatchesTotal: batches, Committed: report.Committed, Total: total})
		}
	}
	return nil
}

func (s *importServiceImpl) LatestReport(accountID string) (*ImportReport, error) {
	if cached, found := s.reportCache.Get(fmt.Sprintf(ckLatestReport, accountID)); found {
		return cached.(*ImportReport), nil
	}
	return nil, ErrImportNotFound
}

func (s *importServiceImpl) GetJob(ctx context.Context, accountID, id string) (*model.ImportJob, error) {
	job, err := s.jobs.GetJob(ctx, accountID, id)
	if errors.Is(err, model.ErrImportJobNotFound) {
		return nil, ErrImportNotFound
	}
	return job, err
}

func contentKey(content []byte, workbook bool) string {
	hash := sha256.Sum256(content)
	kind := "csv"
	if workbook {
		kind = "xlsx"
	}
	return kind + "_" + hex.EncodeToString(hash[:])
}
