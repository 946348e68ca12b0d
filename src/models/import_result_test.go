package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportResultCloneIsDeep(t *testing.T) {
	sl := 1.08
	tf := "H1"
	orig := ImportResult{
		Trades: []CanonicalTrade{{Instrument: "EURUSD", StopLoss: &sl, Timeframe: &tf}},
		Errors: []ImportError{NewRowError(3, "entry_price", ReasonInvalidNumber, "invalid entry price %q", "abc")},
		Format: FormatGeneric,
	}

	c := orig.Clone()
	*c.Trades[0].StopLoss = 2
	*c.Trades[0].Timeframe = "D1"
	c.Errors[0].RowNumber = 9

	assert.Equal(t, 1.08, *orig.Trades[0].StopLoss)
	assert.Equal(t, "H1", *orig.Trades[0].Timeframe)
	assert.Equal(t, 3, orig.Errors[0].RowNumber)
	assert.Equal(t, FormatGeneric, c.Format)
	assert.Nil(t, c.Trades[0].TakeProfit)

	empty := ImportResult{}.Clone()
	assert.NotNil(t, empty.Trades)
	assert.NotNil(t, empty.Errors)
}
