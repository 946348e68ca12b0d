// Package columns maps logical trade fields to physical header positions using
// ranked synonym lists shared by every export format.
package columns

import "strings"

// Field is a logical column a format extractor may look up.
type Field string

const (
	Ticket     Field = "ticket"
	Position   Field = "position"
	Instrument Field = "instrument"
	Direction  Field = "direction"
	Size       Field = "position_size"
	OpenPrice  Field = "entry_price"
	ClosePrice Field = "exit_price"
	Price      Field = "price"
	StopLoss   Field = "stop_loss"
	TakeProfit Field = "take_profit"
	Profit     Field = "pnl"
	OpenTime   Field = "open_time"
	CloseTime  Field = "close_time"
	Date       Field = "trade_date"
	EntryTime  Field = "entry_time"
	ExitTime   Field = "exit_time"
	Timeframe  Field = "timeframe"
	Commission Field = "commission"
	Swap       Field = "swap"
)

// synonyms holds lower-case header names per field, best match first.
var synonyms = map[Field][]string{
	Ticket:     {"ticket", "order", "deal", "trade id", "trade #", "id", "#"},
	Position:   {"position", "position id", "ticket", "deal", "order"},
	Instrument: {"symbol", "item", "instrument", "pair", "currency pair", "asset", "market", "ticker"},
	Direction:  {"type", "direction", "side", "action", "order type", "trade type", "buy/sell", "long/short"},
	Size:       {"size", "volume", "lots", "lot size", "lot", "position size", "quantity", "qty", "units", "contracts"},
	OpenPrice:  {"open price", "entry price", "price open", "open", "entry"},
	ClosePrice: {"close price", "exit price", "price close", "close", "exit"},
	Price:      {"price"},
	StopLoss:   {"s/l", "s / l", "sl", "stop loss", "stop-loss", "stoploss"},
	TakeProfit: {"t/p", "t / p", "tp", "take profit", "take-profit", "takeprofit", "target"},
	Profit:     {"profit", "p&l", "pnl", "p/l", "profit/loss", "net profit", "net p&l", "realized p&l", "gain/loss"},
	OpenTime:   {"open time", "time", "open date", "entry time"},
	CloseTime:  {"close time", "close date", "exit time"},
	Date:       {"date", "trade date", "open date", "entry date", "datetime", "date/time", "open time", "time"},
	EntryTime:  {"entry time", "open time", "time"},
	ExitTime:   {"exit time", "close time"},
	Timeframe:  {"timeframe", "time frame", "tf", "period", "interval"},
	Commission: {"commission", "commissions", "fee", "fees"},
	Swap:       {"swap", "swaps", "rollover"},
}

// Synonyms returns a copy of the ranked header names accepted for field.
func Synonyms(field Field) []string {
	return append([]string(nil), synonyms[field]...)
}

// Index is a resolved column position. Absent means the field is not in the header.
type Index int

const Absent Index = -1

// Ok reports whether the column was found.
func (i Index) Ok() bool {
	return i >= 0
}

// Resolve finds the column for field by trying each synonym in rank order with a
// case-insensitive exact match against the header. The first synonym present wins;
// among duplicate headers the leftmost column is used.
func Resolve(header []string, field Field) Index {
	normalized := normalizeHeader(header)
	for _, name := range synonyms[field] {
		for i, h := range normalized {
			if h == name {
				return Index(i)
			}
		}
	}
	return Absent
}

// Occurrences returns every column whose name equals name, case-insensitively.
func Occurrences(header []string, name string) []Index {
	name = strings.ToLower(strings.TrimSpace(name))
	var found []Index
	for i, h := range normalizeHeader(header) {
		if h == name {
			found = append(found, Index(i))
		}
	}
	return found
}

// HeaderContains reports whether any header cell contains token as a
// case-insensitive substring. Format detection is built on it.
func HeaderContains(header []string, token string) bool {
	token = strings.ToLower(token)
	for _, h := range header {
		if strings.Contains(strings.ToLower(h), token) {
			return true
		}
	}
	return false
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}
