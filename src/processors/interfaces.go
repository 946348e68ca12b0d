package processors

import (
	"github.com/username/tradejournal/src/models"
)

// Processor turns parsed trades into records ready for a trade sink.
type Processor interface {
	Process(trades []models.CanonicalTrade, ctx ImportContext) []models.StoredTrade
}

var _ Processor = (*TradeProcessor)(nil)
