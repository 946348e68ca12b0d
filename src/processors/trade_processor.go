// src/processors/trade_processor.go
package processors

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/utils"
)

// ImportContext carries the caller-owned fields attached to every stored trade.
type ImportContext struct {
	AccountID string
	ImportID  string
	Format    models.FormatKind
}

type TradeProcessor struct {
	now func() time.Time
}

func NewTradeProcessor() *TradeProcessor { return &TradeProcessor{now: time.Now} }

// Process enriches parsed trades with ownership, import context and a content
// hash. Order is preserved.
func (p *TradeProcessor) Process(trades []models.CanonicalTrade, ctx ImportContext) []models.StoredTrade {
	createdAt := p.now().UTC()
	stored := make([]models.StoredTrade, 0, len(trades))
	for _, tr := range trades {
		stored = append(stored, models.StoredTrade{
			AccountID:      ctx.AccountID,
			ImportID:       ctx.ImportID,
			Format:         ctx.Format,
			HashID:         generateHash(ctx, tr),
			CreatedAt:      createdAt,
			CanonicalTrade: tr,
		})
	}
	return stored
}

// generateHash identifies a trade within an account so re-importing the same
// export does not duplicate it. Without a platform ticket the source row keeps
// identical-looking rows of one file apart.
func generateHash(ctx ImportContext, tr models.CanonicalTrade) string {
	parts := []string{
		ctx.AccountID,
		string(ctx.Format),
		tr.Ticket,
		tr.Instrument,
		string(tr.Direction),
		utils.FormatNumber(tr.EntryPrice),
		utils.FormatNumber(tr.ExitPrice),
		utils.FormatNumber(tr.PositionSize),
		utils.FormatNumber(tr.PnL),
		tr.TradeDate,
		deref(tr.EntryTime),
		deref(tr.ExitTime),
	}
	if tr.Ticket == "" {
		parts = append(parts, fmt.Sprintf("row:%d", tr.SourceRow))
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(hash[:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
