package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	trade := sampleTrade()
	trade.ID = "trade-12345678-abcd"

	result := FormatTradeOrg(trade)

	assert.Contains(t, result, "** Trade: EURUSD SHORT (trade-12)")

	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":TRADE_ID: trade-12345678-abcd")
	assert.Contains(t, result, ":DATE: 2024-01-02")
	assert.Contains(t, result, ":ENTRY_TIME: 09:45")
	assert.Contains(t, result, ":ENTRY_PRICE: 1.23457")
	assert.Contains(t, result, ":PNL: -12.50")
	assert.Contains(t, result, ":OUTCOME: loss")
	assert.Contains(t, result, ":SETUP: London Breakout")
	assert.Contains(t, result, ":STRATEGY: s1")
	assert.Contains(t, result, ":END:")

	assert.Contains(t, result, "- Levels :: pdh, pdl")
	assert.Contains(t, result, "- Psychology :: fomo")
	assert.NotContains(t, result, "- Phase ::")

	assert.Contains(t, result, "- [X] r1")
	assert.Contains(t, result, "chased the entry")
}

func TestFormatTradeOrgMinimal(t *testing.T) {
	t.Parallel()

	trade := TradeRecord{ID: "short", Symbol: "NQ", Direction: Long, Date: time.Now()}

	result := FormatTradeOrg(trade)
	assert.Contains(t, result, "** Trade: NQ LONG (short)")
	assert.NotContains(t, result, ":SETUP:")
	assert.NotContains(t, result, ":ENTRY_TIME:")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	trades := []TradeRecord{
		{ID: "trade-001", Symbol: "ES", Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "trade-002", Symbol: "NQ", Date: time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)},
	}

	result := FormatTradesOrg(trades)
	assert.Equal(t, 2, strings.Count(result, "** Trade:"))
	assert.Contains(t, result, "\n\n\n** Trade: NQ")
	assert.Empty(t, FormatTradesOrg(nil))
}

func TestShortID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"long id truncated", "01HQXYZABCDEFGH", "01HQXYZA"},
		{"exactly 8 characters", "12345678", "12345678"},
		{"short id kept", "abc", "abc"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shortID(tt.input))
		})
	}
}

func TestFormatTradeOrgStructure(t *testing.T) {
	t.Parallel()

	lines := strings.Split(FormatTradeOrg(sampleTrade()), "\n")
	require.Greater(t, len(lines), 10)
	assert.True(t, strings.HasPrefix(lines[0], "** Trade:"))

	index := func(prefix string) int {
		for i, line := range lines {
			if strings.HasPrefix(line, prefix) {
				return i
			}
		}
		return -1
	}

	end := index(":END:")
	thesis := index("*** Thesis")
	execution := index("*** Execution")
	review := index("*** Review")

	assert.Greater(t, end, index(":PROPERTIES:"))
	assert.Greater(t, thesis, end)
	assert.Greater(t, execution, thesis)
	assert.Greater(t, review, execution)
}
