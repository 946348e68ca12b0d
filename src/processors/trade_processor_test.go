package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradejournal/src/models"
)

func fixedProcessor() *TradeProcessor {
	return &TradeProcessor{now: func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }}
}

func TestProcessAttachesContext(t *testing.T) {
	trades := []models.CanonicalTrade{
		{Instrument: "EURUSD", Direction: models.DirectionLong, EntryPrice: 1.1, ExitPrice: 1.2, PositionSize: 1, PnL: 0.1, TradeDate: "2024-01-01", SourceRow: 2},
		{Instrument: "GBPUSD", Direction: models.DirectionShort, EntryPrice: 1.3, ExitPrice: 1.2, PositionSize: 1, PnL: 0.1, TradeDate: "2024-01-02", SourceRow: 3},
	}
	ctx := ImportContext{AccountID: "acc-1", ImportID: "imp-1", Format: models.FormatGeneric}

	stored := fixedProcessor().Process(trades, ctx)
	require.Len(t, stored, 2)
	assert.Equal(t, "EURUSD", stored[0].Instrument)
	assert.Equal(t, "GBPUSD", stored[1].Instrument)
	for _, s := range stored {
		assert.Equal(t, "acc-1", s.AccountID)
		assert.Equal(t, "imp-1", s.ImportID)
		assert.Equal(t, models.FormatGeneric, s.Format)
		assert.Len(t, s.HashID, 64)
		assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), s.CreatedAt)
	}
	assert.NotEqual(t, stored[0].HashID, stored[1].HashID)
}

func TestHashStableAcrossImports(t *testing.T) {
	tr := models.CanonicalTrade{Instrument: "EURUSD", Ticket: "1001", PnL: 50, SourceRow: 2}

	first := generateHash(ImportContext{AccountID: "a", ImportID: "one", Format: models.FormatMT4}, tr)
	second := generateHash(ImportContext{AccountID: "a", ImportID: "two", Format: models.FormatMT4}, tr)
	assert.Equal(t, first, second, "import id is not part of the identity")

	tr.SourceRow = 9
	assert.Equal(t, first, generateHash(ImportContext{AccountID: "a", Format: models.FormatMT4}, tr), "ticket makes row position irrelevant")

	other := generateHash(ImportContext{AccountID: "b", Format: models.FormatMT4}, tr)
	assert.NotEqual(t, first, other)
}

func TestHashUsesRowWithoutTicket(t *testing.T) {
	ctx := ImportContext{AccountID: "a", Format: models.FormatGeneric}
	tr := models.CanonicalTrade{Instrument: "EURUSD", PnL: 1, SourceRow: 2}
	dup := tr
	dup.SourceRow = 3
	assert.NotEqual(t, generateHash(ctx, tr), generateHash(ctx, dup))
}
