// src/models/canonical.go
package models

// Direction of a trade.
type Direction string

const (
	DirectionLong  Direction = "Long"
	DirectionShort Direction = "Short"
)

// Outcome is derived from the sign of a trade's P&L and never read from input.
type Outcome string

const (
	OutcomeWin       Outcome = "Win"
	OutcomeLoss      Outcome = "Loss"
	OutcomeBreakeven Outcome = "Breakeven"
)

// OutcomeFromPnL classifies a P&L value.
func OutcomeFromPnL(pnl float64) Outcome {
	switch {
	case pnl > 0:
		return OutcomeWin
	case pnl < 0:
		return OutcomeLoss
	default:
		return OutcomeBreakeven
	}
}

// FormatKind identifies the export format a file was produced by.
type FormatKind string

const (
	FormatMT4     FormatKind = "MT4"
	FormatMT5     FormatKind = "MT5"
	FormatGeneric FormatKind = "Generic"
)

// CanonicalTrade is the unified representation every format extractor produces.
type CanonicalTrade struct {
	// --- Required ---
	Instrument   string    `json:"instrument"`
	Direction    Direction `json:"direction"`
	EntryPrice   float64   `json:"entry_price"`
	ExitPrice    float64   `json:"exit_price"`
	PositionSize float64   `json:"position_size"` // always > 0
	Outcome      Outcome   `json:"outcome"`
	PnL          float64   `json:"pnl"`
	TradeDate    string    `json:"trade_date"` // YYYY-MM-DD

	// --- Optional ---
	StopLoss   *float64 `json:"stop_loss,omitempty"`   // only set when > 0
	TakeProfit *float64 `json:"take_profit,omitempty"` // only set when > 0
	EntryTime  *string  `json:"entry_time,omitempty"`  // HH:MM
	ExitTime   *string  `json:"exit_time,omitempty"`   // HH:MM
	Timeframe  *string  `json:"timeframe,omitempty"`
	Commission *float64 `json:"commission,omitempty"`
	Swap       *float64 `json:"swap,omitempty"`
	Ticket     string   `json:"ticket,omitempty"` // platform ticket, position or trade id

	SourceRow int `json:"source_row"` // 1-based, header = row 1
}

func (t CanonicalTrade) clone() CanonicalTrade {
	t.StopLoss = cloneFloat(t.StopLoss)
	t.TakeProfit = cloneFloat(t.TakeProfit)
	t.Commission = cloneFloat(t.Commission)
	t.Swap = cloneFloat(t.Swap)
	t.EntryTime = cloneString(t.EntryTime)
	t.ExitTime = cloneString(t.ExitTime)
	t.Timeframe = cloneString(t.Timeframe)
	return t
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
