// src/parsers/generic/parser.go
package generic

import (
	"fmt"
	"time"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/parsers/columns"
	"github.com/username/tradejournal/src/parsers/common"
	"github.com/username/tradejournal/src/utils"
)

// DefaultPositionSize is used when a file has no size column or the cell is empty.
const DefaultPositionSize = 0.01

// requiredFields must be present in the header; without them no row can be read.
var requiredFields = []struct {
	field columns.Field
	label string
}{
	{columns.Instrument, "instrument"},
	{columns.OpenPrice, "entry price"},
}

type layout struct {
	instrument, direction, entryPrice, exitPrice columns.Index
	size, pnl, stopLoss, takeProfit              columns.Index
	date, entryTime, exitTime, timeframe         columns.Index
	ticket, commission, swap                     columns.Index
}

func resolve(header []string) layout {
	return layout{
		instrument: columns.Resolve(header, columns.Instrument),
		direction:  columns.Resolve(header, columns.Direction),
		entryPrice: columns.Resolve(header, columns.OpenPrice),
		exitPrice:  columns.Resolve(header, columns.ClosePrice),
		size:       columns.Resolve(header, columns.Size),
		pnl:        columns.Resolve(header, columns.Profit),
		stopLoss:   columns.Resolve(header, columns.StopLoss),
		takeProfit: columns.Resolve(header, columns.TakeProfit),
		date:       columns.Resolve(header, columns.Date),
		entryTime:  columns.Resolve(header, columns.EntryTime),
		exitTime:   columns.Resolve(header, columns.ExitTime),
		timeframe:  columns.Resolve(header, columns.Timeframe),
		ticket:     columns.Resolve(header, columns.Ticket),
		commission: columns.Resolve(header, columns.Commission),
		swap:       columns.Resolve(header, columns.Swap),
	}
}

// GenericParser reads hand-made spreadsheets where only instrument and entry
// price are mandatory.
type GenericParser struct{}

// NewParser creates a new instance of the GenericParser.
func NewParser() *GenericParser {
	return &GenericParser{}
}

func (p *GenericParser) Kind() models.FormatKind {
	return models.FormatGeneric
}

// Extract returns a single file-level error and no trades when a required column
// is missing from the header.
func (p *GenericParser) Extract(header []string, rows [][]string, now time.Time) ([]models.CanonicalTrade, []models.ImportError) {
	for _, req := range requiredFields {
		if !columns.Resolve(header, req.field).Ok() {
			return []models.CanonicalTrade{}, []models.ImportError{
				models.NewFileError(string(req.field), models.ReasonMissingColumn,
					fmt.Sprintf("required column missing: %s", req.label)),
			}
		}
	}

	cols := resolve(header)
	return common.Run(rows, func(r common.Row) (*models.CanonicalTrade, *models.ImportError) {
		return extractRow(r, cols, now)
	})
}

func extractRow(r common.Row, cols layout, now time.Time) (*models.CanonicalTrade, *models.ImportError) {
	orderType := r.Cell(cols.direction)
	if common.IsNonTrade(orderType) {
		return nil, nil
	}
	direction, ok := common.ResolveDirection(orderType)
	if !ok {
		direction = models.DirectionLong
	}

	instrument, rowErr := r.Required(cols.instrument, columns.Instrument, "instrument")
	if rowErr != nil {
		return nil, rowErr
	}

	entry, rowErr := r.Float(cols.entryPrice, columns.OpenPrice, "entry price")
	if rowErr != nil {
		return nil, rowErr
	}
	exit, rowErr := r.FloatOr(cols.exitPrice, columns.ClosePrice, "exit price", entry)
	if rowErr != nil {
		return nil, rowErr
	}
	size, rowErr := r.FloatOr(cols.size, columns.Size, "position size", DefaultPositionSize)
	if rowErr != nil {
		return nil, rowErr
	}
	if rowErr := r.CheckPositiveSize(size); rowErr != nil {
		return nil, rowErr
	}

	var pnl float64
	if r.Cell(cols.pnl) != "" {
		if pnl, rowErr = r.Float(cols.pnl, columns.Profit, "P&L"); rowErr != nil {
			return nil, rowErr
		}
	} else {
		pnl = common.ComputePnL(direction, entry, exit, size)
	}

	dateCell := r.Cell(cols.date)
	entryTime := utils.ExtractTime(dateCell)
	if cols.entryTime.Ok() {
		entryTime = utils.ExtractTime(r.Cell(cols.entryTime))
	}

	return &models.CanonicalTrade{
		Instrument:   instrument,
		Direction:    direction,
		EntryPrice:   entry,
		ExitPrice:    exit,
		PositionSize: size,
		PnL:          pnl,
		StopLoss:     common.OptionalPositive(r.Cell(cols.stopLoss)),
		TakeProfit:   common.OptionalPositive(r.Cell(cols.takeProfit)),
		TradeDate:    utils.NormalizeDate(dateCell, now),
		EntryTime:    entryTime,
		ExitTime:     utils.ExtractTime(r.Cell(cols.exitTime)),
		Timeframe:    common.OptionalText(r.Cell(cols.timeframe)),
		Commission:   common.OptionalNumber(r.Cell(cols.commission)),
		Swap:         common.OptionalNumber(r.Cell(cols.swap)),
		Ticket:       r.Cell(cols.ticket),
	}, nil
}
