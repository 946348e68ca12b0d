// Package common holds the row state machine pieces every format extractor shares.
package common

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/parsers/columns"
	"github.com/username/tradejournal/src/utils"
)

// Row is one tokenized body row with its 1-based file row number (header = 1).
type Row struct {
	Number int
	Cells  []string
}

// Cell returns the trimmed cell at idx, or "" when the column is absent or the row is short.
func (r Row) Cell(idx columns.Index) string {
	return utils.CellAt(r.Cells, int(idx))
}

// Float parses a required numeric cell. An empty or unparsable cell yields exactly one row error.
func (r Row) Float(idx columns.Index, field columns.Field, label string) (float64, *models.ImportError) {
	raw := r.Cell(idx)
	if raw == "" {
		e := models.NewRowError(r.Number, string(field), models.ReasonMissingValue, "missing %s", label)
		return 0, &e
	}
	v, ok := utils.ParseNumber(raw)
	if !ok {
		e := models.NewRowError(r.Number, string(field), models.ReasonInvalidNumber, "invalid %s %q", label, raw)
		return 0, &e
	}
	return v, nil
}

// FloatOr parses an optional numeric cell: an empty cell yields fallback, a
// non-empty unparsable cell is still a row error.
func (r Row) FloatOr(idx columns.Index, field columns.Field, label string, fallback float64) (float64, *models.ImportError) {
	if r.Cell(idx) == "" {
		return fallback, nil
	}
	return r.Float(idx, field, label)
}

// Required returns a row error when a required text cell is empty.
func (r Row) Required(idx columns.Index, field columns.Field, label string) (string, *models.ImportError) {
	v := r.Cell(idx)
	if v == "" {
		e := models.NewRowError(r.Number, string(field), models.ReasonMissingValue, "missing %s", label)
		return "", &e
	}
	return v, nil
}

// CheckPositiveSize enforces positionSize > 0.
func (r Row) CheckPositiveSize(size float64) *models.ImportError {
	if size > 0 {
		return nil
	}
	e := models.NewRowError(r.Number, string(columns.Size), models.ReasonNonPositive,
		"position size must be greater than zero, got %s", utils.FormatNumber(size))
	return &e
}

// nonTradeMarkers are ledger rows (deposits, credits) that are neither trades nor errors.
var nonTradeMarkers = map[string]struct{}{
	"balance": {},
	"credit":  {},
}

var directionVocabulary = map[string]models.Direction{
	"buy":        models.DirectionLong,
	"long":       models.DirectionLong,
	"buy limit":  models.DirectionLong,
	"buy stop":   models.DirectionLong,
	"sell":       models.DirectionShort,
	"short":      models.DirectionShort,
	"sell limit": models.DirectionShort,
	"sell stop":  models.DirectionShort,
}

func normalizeOrderType(orderType string) string {
	return strings.Join(strings.Fields(strings.ToLower(orderType)), " ")
}

// IsNonTrade reports whether an order-type cell marks an account ledger event.
func IsNonTrade(orderType string) bool {
	_, ok := nonTradeMarkers[normalizeOrderType(orderType)]
	return ok
}

// ResolveDirection maps order-type text to a direction.
func ResolveDirection(orderType string) (models.Direction, bool) {
	d, ok := directionVocabulary[normalizeOrderType(orderType)]
	return d, ok
}

// OptionalPositive returns a price only when it parses and is > 0. Platforms
// write 0 for "no stop".
func OptionalPositive(raw string) *float64 {
	v, ok := utils.ParseNumber(raw)
	if !ok || v <= 0 {
		return nil
	}
	return &v
}

// OptionalNumber returns any parsable value, or nil.
func OptionalNumber(raw string) *float64 {
	v, ok := utils.ParseNumber(raw)
	if !ok {
		return nil
	}
	return &v
}

// OptionalText returns nil for an empty cell.
func OptionalText(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

// ComputePnL returns (exit - entry) * size, negated for shorts, computed in
// decimal so price differences do not pick up binary rounding noise.
func ComputePnL(direction models.Direction, entry, exit, size float64) float64 {
	pnl := decimal.NewFromFloat(exit).Sub(decimal.NewFromFloat(entry)).Mul(decimal.NewFromFloat(size))
	if direction == models.DirectionShort {
		pnl = pnl.Neg()
	}
	f, _ := pnl.Float64()
	return f
}

// RowFunc turns one row into a trade, a row error, or neither (silent skip).
type RowFunc func(row Row) (*models.CanonicalTrade, *models.ImportError)

// Run applies fn to every body row in order. Data row i (0-based) is file row
// i+2. A panic inside fn becomes that row's single error and processing continues.
func Run(rows [][]string, fn RowFunc) ([]models.CanonicalTrade, []models.ImportError) {
	trades := []models.CanonicalTrade{}
	errs := []models.ImportError{}

	for i, cells := range rows {
		row := Row{Number: i + 2, Cells: cells}
		trade, rowErr := runRow(row, fn)
		switch {
		case rowErr != nil:
			errs = append(errs, *rowErr)
		case trade != nil:
			trade.SourceRow = row.Number
			trade.Outcome = models.OutcomeFromPnL(trade.PnL)
			trades = append(trades, *trade)
		}
	}
	return trades, errs
}

func runRow(row Row, fn RowFunc) (trade *models.CanonicalTrade, rowErr *models.ImportError) {
	defer func() {
		if r := recover(); r != nil {
			e := models.NewRowError(row.Number, "", models.ReasonInternal, "unexpected error: %v", r)
			trade, rowErr = nil, &e
		}
	}()
	return fn(row)
}
