// src/parsers/parser.go
package parsers

import (
	"strings"
	"time"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/utils"
)

// EmptyFileMessage is the single error reported for input without a header and data row.
const EmptyFileMessage = "file is empty or has no data rows"

// Extractor turns the body rows of one export format into canonical trades and
// row-scoped errors.
type Extractor interface {
	Kind() models.FormatKind
	Extract(header []string, rows [][]string, now time.Time) ([]models.CanonicalTrade, []models.ImportError)
}

// Engine parses trade history exports. It keeps no state between calls and is
// safe for concurrent use.
type Engine struct {
	now func() time.Time
}

type Option func(*Engine)

// WithClock overrides the clock used when a date cannot be parsed.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Parse runs the default engine over the full text of a CSV export.
func Parse(csvText string) models.ImportResult {
	return defaultEngine.Parse(csvText)
}

// Parse splits text into lines (dropping blank ones), tokenizes them and runs
// the format pipeline.
func (e *Engine) Parse(csvText string) models.ImportResult {
	lines := utils.SplitLines(csvText)
	records := make([][]string, 0, len(lines))
	for _, line := range lines {
		records = append(records, utils.SplitLine(line))
	}
	return e.run(records)
}

// ParseRecords runs the pipeline over rows that are already split into cells,
// such as spreadsheet rows. Cells are trimmed and all-blank rows dropped.
func (e *Engine) ParseRecords(records [][]string) models.ImportResult {
	cleaned := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(rec))
		blank := true
		for i, cell := range rec {
			row[i] = strings.TrimSpace(cell)
			if row[i] != "" {
				blank = false
			}
		}
		if !blank {
			cleaned = append(cleaned, row)
		}
	}
	return e.run(cleaned)
}

func (e *Engine) run(records [][]string) models.ImportResult {
	if len(records) < 2 {
		return models.ImportResult{
			Trades: []models.CanonicalTrade{},
			Errors: []models.ImportError{models.NewFileError("", models.ReasonEmptyFile, EmptyFileMessage)},
			Format: models.FormatGeneric,
		}
	}

	header, rows := records[0], records[1:]
	kind := DetectFormat(header)
	extractor, err := GetExtractor(kind)
	if err != nil {
		// unreachable for kinds returned by DetectFormat
		return models.ImportResult{
			Trades: []models.CanonicalTrade{},
			Errors: []models.ImportError{models.NewFileError("", models.ReasonInternal, err.Error())},
			Format: kind,
		}
	}

	trades, errs := extractor.Extract(header, rows, e.now())
	return aggregate(kind, trades, errs)
}

// aggregate keeps extractor order and guarantees non-nil lists.
func aggregate(kind models.FormatKind, trades []models.CanonicalTrade, errs []models.ImportError) models.ImportResult {
	if trades == nil {
		trades = []models.CanonicalTrade{}
	}
	if errs == nil {
		errs = []models.ImportError{}
	}
	return models.ImportResult{Trades: trades, Errors: errs, Format: kind}
}
