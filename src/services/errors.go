package services

import "errors"

var (
	ErrParsingFailed   = errors.New("failed to parse import file")
	ErrUnsupportedFile = errors.New("unsupported import file")
	ErrEmptyImport     = errors.New("no importable trades in file")
	ErrBatchFailed     = errors.New("trade batch insert failed")
	ErrImportNotFound  = errors.New("import not found")
	ErrAccountRequired = errors.New("account id is required")
)
