// src/parsers/mt5/parser.go
package mt5

import (
	"time"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/parsers/columns"
	"github.com/username/tradejournal/src/parsers/common"
	"github.com/username/tradejournal/src/utils"
)

var indicators = []string{"position", "symbol", "volume", "price", "s/l", "t/p", "profit", "time"}

// minIndicators is how many indicator substrings a header needs to count as MT5.
const minIndicators = 5

// Detect reports whether header looks like a MetaTrader 5 positions or deals report.
// It must be evaluated after the MT4 check; MT4 headers can satisfy it too.
func Detect(header []string) bool {
	count := 0
	for _, token := range indicators {
		if columns.HeaderContains(header, token) {
			count++
		}
	}
	return count >= minIndicators
}

type layout struct {
	ticket, orderType, instrument, size columns.Index
	entryPrice, exitPrice               columns.Index
	stopLoss, takeProfit, profit        columns.Index
	openTime, commission, swap          columns.Index
}

// resolve picks entry/exit columns: named open/close price columns first, then
// a repeated "Price" header (positions report: open price then close price),
// and finally the single deal price used for both.
func resolve(header []string) layout {
	cols := layout{
		ticket:     columns.Resolve(header, columns.Position),
		orderType:  columns.Resolve(header, columns.Direction),
		instrument: columns.Resolve(header, columns.Instrument),
		size:       columns.Resolve(header, columns.Size),
		stopLoss:   columns.Resolve(header, columns.StopLoss),
		takeProfit: columns.Resolve(header, columns.TakeProfit),
		profit:     columns.Resolve(header, columns.Profit),
		openTime:   columns.Resolve(header, columns.OpenTime),
		commission: columns.Resolve(header, columns.Commission),
		swap:       columns.Resolve(header, columns.Swap),
	}

	open := columns.Resolve(header, columns.OpenPrice)
	prices := columns.Occurrences(header, "price")
	switch {
	case open.Ok():
		cols.entryPrice = open
		cols.exitPrice = columns.Resolve(header, columns.ClosePrice)
		if !cols.exitPrice.Ok() {
			cols.exitPrice = open
		}
	case len(prices) >= 2:
		cols.entryPrice, cols.exitPrice = prices[0], prices[len(prices)-1]
	default:
		cols.entryPrice = columns.Resolve(header, columns.Price)
		cols.exitPrice = cols.entryPrice
	}
	return cols
}

// MT5Parser extracts trades from MetaTrader 5 history exports.
type MT5Parser struct{}

// NewParser creates a new instance of the MT5Parser.
func NewParser() *MT5Parser {
	return &MT5Parser{}
}

func (p *MT5Parser) Kind() models.FormatKind {
	return models.FormatMT5
}

// Extract converts every body row. MT5 reports do not expose a separate close
// time, so ExitTime is never set.
func (p *MT5Parser) Extract(header []string, rows [][]string, now time.Time) ([]models.CanonicalTrade, []models.ImportError) {
	cols := resolve(header)
	return common.Run(rows, func(r common.Row) (*models.CanonicalTrade, *models.ImportError) {
		return extractRow(r, cols, now)
	})
}

func extractRow(r common.Row, cols layout, now time.Time) (*models.CanonicalTrade, *models.ImportError) {
	orderType := r.Cell(cols.orderType)
	if common.IsNonTrade(orderType) {
		return nil, nil
	}
	direction, ok := common.ResolveDirection(orderType)
	if !ok {
		return nil, nil
	}

	instrument, rowErr := r.Required(cols.instrument, columns.Instrument, "symbol")
	if rowErr != nil {
		return nil, rowErr
	}

	entry, rowErr := r.Float(cols.entryPrice, columns.OpenPrice, "entry price")
	if rowErr != nil {
		return nil, rowErr
	}
	exit := entry
	if cols.exitPrice != cols.entryPrice {
		if exit, rowErr = r.Float(cols.exitPrice, columns.ClosePrice, "exit price"); rowErr != nil {
			return nil, rowErr
		}
	}
	size, rowErr := r.Float(cols.size, columns.Size, "volume")
	if rowErr != nil {
		return nil, rowErr
	}
	if rowErr := r.CheckPositiveSize(size); rowErr != nil {
		return nil, rowErr
	}
	pnl, rowErr := r.Float(cols.profit, columns.Profit, "profit")
	if rowErr != nil {
		return nil, rowErr
	}

	openTime := r.Cell(cols.openTime)
	return &models.CanonicalTrade{
		Instrument:   instrument,
		Direction:    direction,
		EntryPrice:   entry,
		ExitPrice:    exit,
		PositionSize: size,
		PnL:          pnl,
		StopLoss:     common.OptionalPositive(r.Cell(cols.stopLoss)),
		TakeProfit:   common.OptionalPositive(r.Cell(cols.takeProfit)),
		TradeDate:    utils.NormalizeDate(openTime, now),
		EntryTime:    utils.ExtractTime(openTime),
		Commission:   common.OptionalNumber(r.Cell(cols.commission)),
		Swap:         common.OptionalNumber(r.Cell(cols.swap)),
		Ticket:       r.Cell(cols.ticket),
	}, nil
}
