package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/journal"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// series returns one trade per pnl on consecutive days.
func series(pnls ...float64) []journal.TradeRecord {
	out := make([]journal.TradeRecord, len(pnls))
	for i, p := range pnls {
		out[i] = journal.TradeRecord{
			ID:        fmt.Sprintf("t%02d", i),
			Date:      day0.AddDate(0, 0, i),
			Symbol:    "ES",
			Direction: journal.Long,
			PnL:       p,
		}
	}
	return out
}

func TestSummarizeWinLoss(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		{PnL: 100, Outcome: journal.Win},
		{PnL: -50, Outcome: journal.Loss},
	}
	s := Summarize(trades)
	assert.Equal(t, 2, s.Trades)
	assert.InDelta(t, 50, s.TotalPnL, 1e-12)
	assert.InDelta(t, 50, s.WinRate, 1e-12)
	assert.Equal(t, 1, s.WinCount)
	assert.Equal(t, 1, s.LossCount)
}

func TestSummarizeClassifiesByPnL(t *testing.T) {
	t.Parallel()

	s := Summarize([]journal.TradeRecord{
		{PnL: -5, Outcome: journal.Win},
		{PnL: 5, Outcome: journal.Loss},
		{PnL: 0, Outcome: journal.Win},
	})
	assert.Equal(t, 1, s.WinCount)
	assert.Equal(t, 1, s.LossCount)
	assert.Equal(t, 1, s.BreakevenCount)
	assert.InDelta(t, 100.0/3, s.WinRate, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Summary{}, Summarize(nil))

	curve := EquityCurve(nil)
	assert.NotNil(t, curve)
	assert.Empty(t, curve)
}

func TestEquityCurveSortsByDate(t *testing.T) {
	t.Parallel()

	d := func(n int) time.Time { return day0.AddDate(0, 0, n) }
	trades := []journal.TradeRecord{
		{ID: "c", Date: d(2), PnL: 30},
		{ID: "b", Date: d(1), PnL: -20},
		{ID: "a2", Date: d(0), PnL: 5},
		{ID: "a1", Date: d(0), PnL: 10},
	}

	curve := EquityCurve(trades)
	require.Len(t, curve, 4)

	ids := []string{}
	for _, p := range curve {
		ids = append(ids, p.TradeID)
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, ids)
	assert.InDelta(t, 10, curve[0].CumulativePnL, 1e-12)
	assert.InDelta(t, 15, curve[1].CumulativePnL, 1e-12)
	assert.InDelta(t, -5, curve[2].CumulativePnL, 1e-12)
	assert.InDelta(t, 25, curve[3].CumulativePnL, 1e-12)

	// input is untouched
	assert.Equal(t, "c", trades[0].ID)
}

func TestEquityCurveEndsAtTotal(t *testing.T) {
	t.Parallel()

	for _, pnls := range [][]float64{
		{1},
		{0.1, 0.2, 0.3},
		{100, -250.5, 33.3, 12, -0.01},
		{-1, -1, -1, -1},
	} {
		trades := series(pnls...)
		curve := EquityCurve(trades)
		require.Len(t, curve, len(pnls))
		assert.InDelta(t, Summarize(trades).TotalPnL, curve[len(curve)-1].CumulativePnL, 1e-9)
	}
}

func TestBreakdownBy(t *testing.T) {
	t.Parallel()

	trades := []journal.TradeRecord{
		{Symbol: "NQ", Direction: journal.Short, PnL: 40},
		{Symbol: "ES", Direction: journal.Long, PnL: -10},
		{Symbol: "ES", Direction: journal.Long, PnL: 30},
		{Direction: journal.Long, PnL: 5},
	}

	b := BreakdownBy(trades)
	require.Len(t, b.BySymbol, 3)
	assert.Equal(t, BreakdownRow{Key: "(none)", Trades: 1, Wins: 1, WinRate: 100, TotalPnL: 5}, b.BySymbol[0])
	assert.Equal(t, BreakdownRow{Key: "ES", Trades: 2, Wins: 1, WinRate: 50, TotalPnL: 20}, b.BySymbol[1])
	assert.Equal(t, "NQ", b.BySymbol[2].Key)

	require.Len(t, b.ByDirection, 2)
	assert.Equal(t, "long", b.ByDirection[0].Key)
	assert.Equal(t, 3, b.ByDirection[0].Trades)
	assert.Equal(t, "short", b.ByDirection[1].Key)

	empty := BreakdownBy(nil)
	assert.NotNil(t, empty.BySymbol)
	assert.Empty(t, empty.BySymbol)
}
