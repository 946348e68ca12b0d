// src/parsers/mt4/parser.go
package mt4

import (
	"time"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/parsers/columns"
	"github.com/username/tradejournal/src/parsers/common"
	"github.com/username/tradejournal/src/utils"
)

// signature lists the header substrings every MetaTrader 4 account history carries.
var signature = []string{
	"ticket", "open time", "close time", "type", "size", "item", "open price", "close price", "profit",
}

// Detect reports whether header is an MT4 account history export.
func Detect(header []string) bool {
	for _, token := range signature {
		if !columns.HeaderContains(header, token) {
			return false
		}
	}
	return true
}

// layout is the resolved column set of one MT4 file.
type layout struct {
	ticket, orderType, instrument, size         columns.Index
	openPrice, closePrice, stopLoss, takeProfit columns.Index
	profit, openTime, closeTime                 columns.Index
	commission, swap                            columns.Index
}

func resolve(header []string) layout {
	cols := layout{
		ticket:     columns.Resolve(header, columns.Ticket),
		orderType:  columns.Resolve(header, columns.Direction),
		instrument: columns.Resolve(header, columns.Instrument),
		size:       columns.Resolve(header, columns.Size),
		openPrice:  columns.Resolve(header, columns.OpenPrice),
		closePrice: columns.Resolve(header, columns.ClosePrice),
		stopLoss:   columns.Resolve(header, columns.StopLoss),
		takeProfit: columns.Resolve(header, columns.TakeProfit),
		profit:     columns.Resolve(header, columns.Profit),
		openTime:   columns.Resolve(header, columns.OpenTime),
		closeTime:  columns.Resolve(header, columns.CloseTime),
		commission: columns.Resolve(header, columns.Commission),
		swap:       columns.Resolve(header, columns.Swap),
	}
	// Detailed statements label both prices plain "Price".
	if !cols.openPrice.Ok() {
		if prices := columns.Occurrences(header, "price"); len(prices) >= 2 {
			cols.openPrice, cols.closePrice = prices[0], prices[len(prices)-1]
		}
	}
	return cols
}

// MT4Parser extracts closed trades from MetaTrader 4 history exports.
type MT4Parser struct{}

// NewParser creates a new instance of the MT4Parser.
func NewParser() *MT4Parser {
	return &MT4Parser{}
}

func (p *MT4Parser) Kind() models.FormatKind {
	return models.FormatMT4
}

// Extract resolves columns once and converts every body row. Ledger rows and
// order types outside the direction vocabulary (pending order cancellations,
// etc.) are skipped without an error.
func (p *MT4Parser) Extract(header []string, rows [][]string, now time.Time) ([]models.CanonicalTrade, []models.ImportError) {
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

	instrument, rowErr := r.Required(cols.instrument, columns.Instrument, "instrument")
	if rowErr != nil {
		return nil, rowErr
	}

	// --- Numeric fields ---
	entry, rowErr := r.Float(cols.openPrice, columns.OpenPrice, "open price")
	if rowErr != nil {
		return nil, rowErr
	}
	exit, rowErr := r.Float(cols.closePrice, columns.ClosePrice, "close price")
	if rowErr != nil {
		return nil, rowErr
	}
	size, rowErr := r.Float(cols.size, columns.Size, "size")
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
		ExitTime:     utils.ExtractTime(r.Cell(cols.closeTime)),
		Commission:   common.OptionalNumber(r.Cell(cols.commission)),
		Swap:         common.OptionalNumber(r.Cell(cols.swap)),
		Ticket:       r.Cell(cols.ticket),
	}, nil
}
