package services

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/security/validation"
	"github.com/username/tradejournal/src/utils"
)

type tradeCSVRow struct {
	TradeDate    string `csv:"trade_date"`
	EntryTime    string `csv:"entry_time"`
	ExitTime     string `csv:"exit_time"`
	Instrument   string `csv:"instrument"`
	Direction    string `csv:"direction"`
	EntryPrice   string `csv:"entry_price"`
	ExitPrice    string `csv:"exit_price"`
	StopLoss     string `csv:"stop_loss"`
	TakeProfit   string `csv:"take_profit"`
	PositionSize string `csv:"position_size"`
	PnL          string `csv:"pnl"`
	Outcome      string `csv:"outcome"`
	Commission   string `csv:"commission"`
	Swap         string `csv:"swap"`
	Timeframe    string `csv:"timeframe"`
	Ticket       string `csv:"ticket"`
	Format       string `csv:"format"`
	ImportID     string `csv:"import_id"`
	SourceRow    string `csv:"source_row"`
}

// WriteTradesCSV writes stored trades as CSV with a header row. Free-text
// cells are neutralised against spreadsheet formula injection.
func WriteTradesCSV(w io.Writer, trades []models.StoredTrade) error {
	rows := make([]*tradeCSVRow, 0, len(trades))
	for _, tr := range trades {
		rows = append(rows, &tradeCSVRow{
			TradeDate:    tr.TradeDate,
			EntryTime:    text(tr.EntryTime),
			ExitTime:     text(tr.ExitTime),
			Instrument:   validation.SanitizeForFormulaInjection(tr.Instrument),
			Direction:    string(tr.Direction),
			EntryPrice:   utils.FormatNumber(tr.EntryPrice),
			ExitPrice:    utils.FormatNumber(tr.ExitPrice),
			StopLoss:     number(tr.StopLoss),
			TakeProfit:   number(tr.TakeProfit),
			PositionSize: utils.FormatNumber(tr.PositionSize),
			PnL:          utils.FormatNumber(tr.PnL),
			Outcome:      string(tr.Outcome),
			Commission:   number(tr.Commission),
			Swap:         number(tr.Swap),
			Timeframe:    validation.SanitizeForFormulaInjection(text(tr.Timeframe)),
			Ticket:       validation.SanitizeForFormulaInjection(tr.Ticket),
			Format:       string(tr.Format),
			ImportID:     tr.ImportID,
			SourceRow:    strconv.Itoa(tr.SourceRow),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("error writing trades csv: %w", err)
	}
	return nil
}

func text(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func number(v *float64) string {
	if v == nil {
		return ""
	}
	return utils.FormatNumber(*v)
}
