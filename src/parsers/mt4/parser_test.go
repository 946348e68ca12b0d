package mt4

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/utils"
)

var now = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

const header = "Ticket,Open Time,Type,Size,Item,Open Price,Close Time,Close Price,S/L,T/P,Profit"

func extract(t *testing.T, lines ...string) ([]models.CanonicalTrade, []models.ImportError) {
	t.Helper()
	h := utils.SplitLine(header)
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, utils.SplitLine(l))
	}
	return NewParser().Extract(h, rows, now)
}

func TestDetect(t *testing.T) {
	assert.True(t, Detect(utils.SplitLine(header)))
	assert.True(t, Detect(utils.SplitLine("TICKET;OPEN TIME;TYPE;SIZE;ITEM;OPEN PRICE;CLOSE TIME;CLOSE PRICE;PROFIT")))
	assert.False(t, Detect(utils.SplitLine("Ticket,Open Time,Type,Size,Item,Open Price,Close Time,Close Price")))
}

func TestExtractClosedTrade(t *testing.T) {
	trades, errs := extract(t, "1001,2024.01.15 08:00,buy,0.10,EURUSD,1.0850,2024.01.15 10:00,1.0900,1.0800,1.0950,50.00")
	require.Empty(t, errs)
	require.Len(t, trades, 1)

	tr := trades[0]
	assert.Equal(t, "EURUSD", tr.Instrument)
	assert.Equal(t, models.DirectionLong, tr.Direction)
	assert.Equal(t, 1.085, tr.EntryPrice)
	assert.Equal(t, 1.09, tr.ExitPrice)
	assert.Equal(t, 0.1, tr.PositionSize)
	assert.Equal(t, 50.0, tr.PnL)
	assert.Equal(t, models.OutcomeWin, tr.Outcome)
	assert.Equal(t, "2024-01-15", tr.TradeDate)
	require.NotNil(t, tr.EntryTime)
	assert.Equal(t, "08:00", *tr.EntryTime)
	require.NotNil(t, tr.ExitTime)
	assert.Equal(t, "10:00", *tr.ExitTime)
	require.NotNil(t, tr.StopLoss)
	assert.Equal(t, 1.08, *tr.StopLoss)
	require.NotNil(t, tr.TakeProfit)
	assert.Equal(t, 1.095, *tr.TakeProfit)
	assert.Equal(t, "1001", tr.Ticket)
	assert.Equal(t, 2, tr.SourceRow)
}

func TestExtractSkipsLedgerAndUnknownTypes(t *testing.T) {
	trades, errs := extract(t,
		"1,2024.01.02 00:00,balance,,,,,,,,1000.00",
		"2,2024.01.02 00:00,credit,,,,,,,,50.00",
		"3,2024.01.02 00:00,cancelled,0.1,EURUSD,1.1,,,,,0",
	)
	assert.Empty(t, trades)
	assert.Empty(t, errs)
}

func TestExtractRowErrors(t *testing.T) {
	trades, errs := extract(t,
		"1,2024.01.15 08:00,sell,0.10,GBPUSD,1.2700,2024.01.15 09:00,1.2650,0,0,50.00",
		"2,2024.01.15 08:00,buy,0.10,EURUSD,abc,2024.01.15 10:00,1.0900,0,0,5.00",
		"3,2024.01.15 08:00,buy,0.10,,1.0850,2024.01.15 10:00,1.0900,0,0,5.00",
		"4,2024.01.15 08:00,buy,0,EURUSD,1.0850,2024.01.15 10:00,1.0900,0,0,5.00",
		"5,2024.01.15 08:00,sell limit,1,USDJPY,150.10,2024.01.15 10:00,150.40,0,0,-30.00",
	)

	require.Len(t, trades, 2)
	assert.Equal(t, models.DirectionShort, trades[0].Direction)
	assert.Nil(t, trades[0].StopLoss, "zero stop loss means not set")
	assert.Nil(t, trades[0].TakeProfit)
	assert.Equal(t, models.OutcomeLoss, trades[1].Outcome)
	assert.Equal(t, 6, trades[1].SourceRow)

	require.Len(t, errs, 3)
	assert.Equal(t, 3, errs[0].RowNumber)
	assert.Equal(t, models.ReasonInvalidNumber, errs[0].Reason)
	assert.Equal(t, "entry_price", errs[0].Field)
	assert.Equal(t, 4, errs[1].RowNumber)
	assert.Equal(t, "instrument", errs[1].Field)
	assert.Equal(t, 5, errs[2].RowNumber)
	assert.Equal(t, models.ReasonNonPositive, errs[2].Reason)
}

func TestExtractDetailedStatementPriceColumns(t *testing.T) {
	h := utils.SplitLine("Ticket,Open Time,Type,Size,Item,Price,S / L,T / P,Close Time,Price,Commission,Taxes,Swap,Profit")
	rows := [][]string{utils.SplitLine("7,2024.03.01 09:30:00,sell,1.00,xauusd,2050.10,0.00,0.00,2024.03.01 11:00:00,2040.10,-7.00,0.00,-1.25,1000.00")}

	trades, errs := NewParser().Extract(h, rows, now)
	require.Empty(t, errs)
	require.Len(t, trades, 1)
	assert.Equal(t, 2050.1, trades[0].EntryPrice)
	assert.Equal(t, 2040.1, trades[0].ExitPrice)
	require.NotNil(t, trades[0].Commission)
	assert.Equal(t, -7.0, *trades[0].Commission)
	require.NotNil(t, trades[0].Swap)
	assert.Equal(t, -1.25, *trades[0].Swap)
}
