package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"comma", "a,b,c", []string{"a", "b", "c"}},
		{"mixed delimiters", "a;b\tc,d", []string{"a", "b", "c", "d"}},
		{"trims fields", "  a , b  ,c ", []string{"a", "b", "c"}},
		{"quoted delimiter", `"1,234.56",EURUSD`, []string{"1,234.56", "EURUSD"}},
		{"escaped quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"unterminated quote", `"abc,def`, []string{"abc,def"}},
		{"empty trailing field", "a,b,", []string{"a", "b", ""}},
		{"empty line", "", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("h1,h2\r\n\r\na,b\rc,d\n   \n")
	assert.Equal(t, []string{"h1,h2", "a,b", "c,d"}, lines)
	assert.Empty(t, SplitLines(" \n\r\n"))
}

func TestCellAt(t *testing.T) {
	row := []string{" a ", "b"}
	assert.Equal(t, "a", CellAt(row, 0))
	assert.Equal(t, "", CellAt(row, 5))
	assert.Equal(t, "", CellAt(row, -1))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1,234.56", 1234.56},
		{"1234,56", 1234.56},
		{"1,234,567", 1234567},
		{"  42.0 ", 42.0},
		{"-12.5", -12.5},
		{"1 234,5", 1234.5},
		{"0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseNumber(tt.raw)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	for _, bad := range []string{"", "   ", "abc", "1.2.3x", "NaN", "Inf", "12abc"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, ok := ParseNumber(bad)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-01-15", "2024-01-15"},
		{"2024-01-15T08:00:00Z", "2024-01-15"},
		{"2024.01.15", "2024-01-15"},
		{"2024.01.15 08:00", "2024-01-15"},
		{"01/15/2024", "2024-01-15"},
		{"1/5/2024 10:00", "2024-01-05"},
		{"15/01/2024", "2024-01-15"},
		{"15.01.2024", "2024-01-15"},
		{"Jan 15, 2024", "2024-01-15"},
		{"20240115", "2024-01-15"},
		// days up to 12 are read US-first
		{"03/04/2024", "2024-03-04"},
		{"not a date", "2030-06-01"},
		{"", "2030-06-01"},
		{"2024-02-30", "2030-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.raw, now))
		})
	}
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024.01.15 08:00", "08:00"},
		{"2024-01-15T8:05:30Z", "08:05"},
		{"14:30:59", "14:30"},
		{"at 25:00 or 09:15", "09:15"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ExtractTime(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	assert.Nil(t, ExtractTime("2024-01-15"))
	assert.Nil(t, ExtractTime(""))
}

func TestMinInt(t *testing.T) {
	assert.Equal(t, 2, MinInt(2, 5))
	assert.Equal(t, 5, MinInt(7, 5))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1.085", FormatNumber(1.085))
	assert.Equal(t, "-3", FormatNumber(-3))
	assert.Equal(t, "0", FormatNumber(0))
}
