package models

import "fmt"

// ReasonCode classifies why a row (or the whole file) could not be imported.
type ReasonCode string

const (
	ReasonEmptyFile     ReasonCode = "empty_file"
	ReasonMissingColumn ReasonCode = "missing_column"
	ReasonMissingValue  ReasonCode = "missing_value"
	ReasonInvalidNumber ReasonCode = "invalid_number"
	ReasonNonPositive   ReasonCode = "non_positive"
	ReasonInternal      ReasonCode = "internal_error"
)

// FileLevelRow is the row number carried by errors that concern the whole file.
const FileLevelRow = 0

// ImportError is a row-scoped (or file-level, RowNumber 0) diagnostic.
type ImportError struct {
	RowNumber int        `json:"row_number"`
	Field     string     `json:"field,omitempty"`
	Reason    ReasonCode `json:"reason"`
	Message   string     `json:"message"`
}

func (e ImportError) String() string {
	return e.Message
}

// NewRowError builds an ImportError with a human readable message prefixed by the row number.
func NewRowError(row int, field string, reason ReasonCode, format string, args ...any) ImportError {
	msg := fmt.Sprintf(format, args...)
	return ImportError{
		RowNumber: row,
		Field:     field,
		Reason:    reason,
		Message:   fmt.Sprintf("row %d: %s", row, msg),
	}
}

// NewFileError builds a file-level ImportError.
func NewFileError(field string, reason ReasonCode, message string) ImportError {
	return ImportError{
		RowNumber: FileLevelRow,
		Field:     field,
		Reason:    reason,
		Message:   message,
	}
}

// ImportResult is everything a single parse produced. Trades and Errors keep input row order.
type ImportResult struct {
	Trades []CanonicalTrade `json:"trades"`
	Errors []ImportError    `json:"errors"`
	Format FormatKind       `json:"format"`
}

// Clone returns a deep copy so callers can own and mutate a result that is also held elsewhere.
func (r ImportResult) Clone() ImportResult {
	out := ImportResult{
		Trades: make([]CanonicalTrade, len(r.Trades)),
		Errors: make([]ImportError, len(r.Errors)),
		Format: r.Format,
	}
	for i, tr := range r.Trades {
		out.Trades[i] = tr.clone()
	}
	copy(out.Errors, r.Errors)
	return out
}
