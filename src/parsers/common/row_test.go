package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/parsers/columns"
)

func TestDirectionVocabulary(t *testing.T) {
	tests := map[string]models.Direction{
		"buy":        models.DirectionLong,
		"LONG":       models.DirectionLong,
		"Buy Limit":  models.DirectionLong,
		" buy  stop": models.DirectionLong,
		"sell":       models.DirectionShort,
		"Short":      models.DirectionShort,
		"sell limit": models.DirectionShort,
		"SELL STOP":  models.DirectionShort,
	}
	for text, want := range tests {
		t.Run(text, func(t *testing.T) {
			got, ok := ResolveDirection(text)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}

	for _, text := range []string{"", "balance", "buy stop limit", "close"} {
		_, ok := ResolveDirection(text)
		assert.False(t, ok, text)
	}
}

func TestIsNonTrade(t *testing.T) {
	assert.True(t, IsNonTrade("balance"))
	assert.True(t, IsNonTrade(" Credit "))
	assert.False(t, IsNonTrade("buy"))
}

func TestOptionalPositive(t *testing.T) {
	require.NotNil(t, OptionalPositive("1.0800"))
	assert.Equal(t, 1.08, *OptionalPositive("1.0800"))
	assert.Nil(t, OptionalPositive("0"))
	assert.Nil(t, OptionalPositive("0.00"))
	assert.Nil(t, OptionalPositive("-1"))
	assert.Nil(t, OptionalPositive(""))
	assert.Nil(t, OptionalPositive("n/a"))
}

func TestComputePnL(t *testing.T) {
	assert.Equal(t, 0.0005, ComputePnL(models.DirectionLong, 1.085, 1.09, 0.1))
	assert.Equal(t, -0.0005, ComputePnL(models.DirectionShort, 1.085, 1.09, 0.1))
	assert.Equal(t, 0.0, ComputePnL(models.DirectionLong, 2, 2, 1))
}

func TestRowFloatParsing(t *testing.T) {
	row := Row{Number: 4, Cells: []string{"1,5", "abc", ""}}

	v, rowErr := row.Float(0, columns.OpenPrice, "entry price")
	require.Nil(t, rowErr)
	assert.Equal(t, 1.5, v)

	_, rowErr = row.Float(1, columns.OpenPrice, "entry price")
	require.NotNil(t, rowErr)
	assert.Equal(t, 4, rowErr.RowNumber)
	assert.Equal(t, models.ReasonInvalidNumber, rowErr.Reason)
	assert.Equal(t, "entry_price", rowErr.Field)
	assert.Equal(t, `row 4: invalid entry price "abc"`, rowErr.Message)

	_, rowErr = row.Float(2, columns.ClosePrice, "exit price")
	require.NotNil(t, rowErr)
	assert.Equal(t, models.ReasonMissingValue, rowErr.Reason)

	v, rowErr = row.FloatOr(columns.Absent, columns.Size, "position size", 0.01)
	require.Nil(t, rowErr)
	assert.Equal(t, 0.01, v)

	assert.NotNil(t, row.CheckPositiveSize(0))
	assert.Nil(t, row.CheckPositiveSize(0.1))
}

func TestRunIsolatesRows(t *testing.T) {
	rows := [][]string{{"ok"}, {"skip"}, {"bad"}, {"panic"}, {"ok"}}

	trades, errs := Run(rows, func(r Row) (*models.CanonicalTrade, *models.ImportError) {
		switch r.Cells[0] {
		case "skip":
			return nil, nil
		case "bad":
			e := models.NewRowError(r.Number, "instrument", models.ReasonMissingValue, "missing instrument")
			return nil, &e
		case "panic":
			var m map[string]int
			m["boom"]++
			return nil, nil
		}
		return &models.CanonicalTrade{Instrument: "EURUSD", PnL: -1}, nil
	})

	require.Len(t, trades, 2)
	assert.Equal(t, 2, trades[0].SourceRow)
	assert.Equal(t, 6, trades[1].SourceRow)
	assert.Equal(t, models.OutcomeLoss, trades[0].Outcome)

	require.Len(t, errs, 2)
	assert.Equal(t, 4, errs[0].RowNumber)
	assert.Equal(t, 5, errs[1].RowNumber)
	assert.Equal(t, models.ReasonInternal, errs[1].Reason)
	assert.Contains(t, errs[1].Message, "unexpected error")
}
