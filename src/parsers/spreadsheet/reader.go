// Package spreadsheet reads trade history workbooks so they can go through the
// same engine as CSV text.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrNoSheets = errors.New("workbook has no sheets")

// zipMagic starts every OOXML workbook.
var zipMagic = []byte("PK\x03\x04")

// IsWorkbook reports whether a file looks like an .xlsx workbook, by extension
// or by its leading bytes.
func IsWorkbook(filename string, head []byte) bool {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return true
	}
	return bytes.HasPrefix(head, zipMagic)
}

// ReadRecords returns the rows of the first sheet as strings. Trailing empty
// cells are not included, matching excelize's GetRows.
func ReadRecords(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
