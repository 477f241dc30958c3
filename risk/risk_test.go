package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/journal"
)

func pnlTrades(pnls ...float64) []journal.TradeRecord {
	out := make([]journal.TradeRecord, len(pnls))
	for i, p := range pnls {
		out[i] = journal.TradeRecord{PnL: p}
	}
	return out
}

func TestComputeStatsWinLoss(t *testing.T) {
	t.Parallel()

	s := ComputeStats(pnlTrades(100, -50))
	assert.Equal(t, 2, s.Trades)
	assert.InDelta(t, 0.5, s.WinRate, 1e-12)
	assert.InDelta(t, 100, s.AvgWin, 1e-12)
	assert.InDelta(t, 50, s.AvgLoss, 1e-12)
	assert.InDelta(t, 2, float64(s.ProfitFactor), 1e-12)
	assert.InDelta(t, 25, s.Expectancy, 1e-12)
}

func TestProfitFactorGuards(t *testing.T) {
	t.Parallel()

	assert.True(t, math.IsInf(ProfitFactor(10, 0), 1))
	assert.Equal(t, 1.0, ProfitFactor(0, 0))
	assert.Equal(t, 0.0, ProfitFactor(0, 5))
	assert.Equal(t, 3.0, ProfitFactor(30, 10))
}

func TestKellyInsufficientData(t *testing.T) {
	t.Parallel()

	for name, trades := range map[string][]journal.TradeRecord{
		"empty":      nil,
		"all wins":   pnlTrades(10, 20, 30),
		"all losses": pnlTrades(-10, -20),
		"flat":       pnlTrades(0, 0),
	} {
		k := Kelly(ComputeStats(trades), nil)
		assert.Equal(t, 0.0, k.KellyPercent, name)
		assert.Equal(t, 1.0, k.RecommendedRiskPercent, name)
		assert.Equal(t, 0.5, k.HalfKellyPercent, name)
		assert.Equal(t, InsufficientDataAdvice, k.Advice, name)
		assert.True(t, k.Insufficient, name)
		assert.Empty(t, k.PositionSizeGuide, name)
	}
}

func TestKellyAllWinsTakesGuardedBranch(t *testing.T) {
	t.Parallel()

	s := ComputeStats(pnlTrades(40, 60))
	assert.True(t, s.ProfitFactor.IsInf())

	k := Kelly(s, nil)
	assert.True(t, k.Insufficient)
	assert.Equal(t, 0.0, k.Raw)
}

func TestKellyFormula(t *testing.T) {
	t.Parallel()

	// b = 2, kelly = (0.5*2 - 0.5)/2 = 0.25
	k := Kelly(ComputeStats(pnlTrades(100, -50)), nil)
	require.False(t, k.Insufficient)
	assert.InDelta(t, 0.25, k.Raw, 1e-12)
	assert.InDelta(t, 25, k.KellyPercent, 1e-9)
	assert.InDelta(t, 12.5, k.HalfKellyPercent, 1e-9)
	assert.InDelta(t, 5, k.RecommendedRiskPercent, 1e-9)
	assert.Contains(t, k.Advice, "1:2.0")

	require.Len(t, k.PositionSizeGuide, len(DefaultAccountSizes))
	first := k.PositionSizeGuide[0]
	assert.Equal(t, 1000.0, first.AccountSize)
	assert.InDelta(t, 50, first.RiskAmount, 1e-9)
	assert.InDelta(t, 100, first.SuggestedPositionSize, 1e-9)
}

func TestKellyClipsAndAdvice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		stats       Stats
		kellyPct    float64
		recommended float64
		advice      string
	}{
		{
			name:        "low win rate",
			stats:       Stats{WinRate: 0.3, AvgWin: 300, AvgLoss: 100},
			kellyPct:    (0.3*3 - 0.7) / 3 * 100,
			recommended: (0.3*3 - 0.7) / 3 / 2 * 100,
			advice:      "Win rate of 30.0%",
		},
		{
			name:        "huge edge is clipped",
			stats:       Stats{WinRate: 0.8, AvgWin: 400, AvgLoss: 100},
			kellyPct:    25,
			recommended: 5,
			advice:      "half-Kelly",
		},
		{
			name:        "negative edge floors",
			stats:       Stats{WinRate: 0.45, AvgWin: 50, AvgLoss: 100},
			kellyPct:    0,
			recommended: 0.5,
			advice:      "Risk 0.5% per trade",
		},
		{
			name:        "custom ladder",
			stats:       Stats{WinRate: 0.5, AvgWin: 150, AvgLoss: 100},
			kellyPct:    (0.5*1.5 - 0.5) / 1.5 * 100,
			recommended: 5,
			advice:      "1:1.5",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			k := Kelly(tt.stats, []float64{2000})
			assert.InDelta(t, tt.kellyPct, k.KellyPercent, 1e-9)
			assert.InDelta(t, tt.recommended, k.RecommendedRiskPercent, 1e-9)
			assert.GreaterOrEqual(t, k.RecommendedRiskPercent, 0.5)
			assert.LessOrEqual(t, k.RecommendedRiskPercent, 5.0)
			assert.LessOrEqual(t, k.KellyPercent, 25.0)
			assert.Contains(t, k.Advice, tt.advice)
			require.Len(t, k.PositionSizeGuide, 1)
			assert.Equal(t, 2000.0, k.PositionSizeGuide[0].AccountSize)
		})
	}
}

func TestDrawdownWalksInGivenOrder(t *testing.T) {
	t.Parallel()

	// peak 200, trough 50 => 75%
	m := Drawdown(pnlTrades(100, 100, -150, 50))
	assert.InDelta(t, 75, m.MaxDrawdownPercent, 1e-9)
	assert.InDelta(t, 50, m.CurrentDrawdownPercent, 1e-9)
	assert.Equal(t, 2, m.RecoveryTrades)
	assert.InDelta(t, 200, m.Peak, 1e-9)
	assert.InDelta(t, 100, m.Running, 1e-9)

	// same trades in reverse land on a different max
	r := Drawdown(pnlTrades(50, -150, 100, 100))
	assert.NotEqual(t, m.MaxDrawdownPercent, r.MaxDrawdownPercent)
}

func TestDrawdownNewPeakResetsRecovery(t *testing.T) {
	t.Parallel()

	m := Drawdown(pnlTrades(100, -10, -10, 50))
	assert.Equal(t, 0, m.RecoveryTrades)
	assert.Equal(t, 0.0, m.CurrentDrawdownPercent)
	assert.InDelta(t, 20, m.MaxDrawdownPercent, 1e-9)
}

func TestDrawdownSmallPeakUsesUnitDenominator(t *testing.T) {
	t.Parallel()

	m := Drawdown(pnlTrades(-5))
	assert.InDelta(t, 500, m.MaxDrawdownPercent, 1e-9)
	assert.Equal(t, 1, m.RecoveryTrades)

	assert.Equal(t, DrawdownMetrics{}, Drawdown(nil))
}

func TestAnalyzeEmpty(t *testing.T) {
	t.Parallel()

	a := Analyze(nil, nil)
	assert.Equal(t, 0, a.Trades)
	assert.Equal(t, 1.0, float64(a.ProfitFactor))
	assert.True(t, a.Kelly.Insufficient)
	assert.NotNil(t, a.Recommendations)
	assert.Empty(t, a.Recommendations)
}

func TestAnalyzeRecommendations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pnls  []float64
		codes []string
	}{
		{
			name:  "losing and in drawdown",
			pnls:  []float64{100, -90, -90, -90, -10},
			codes: []string{"LOW_WIN_RATE", "LOW_PROFIT_FACTOR", "DEEP_DRAWDOWN"},
		},
		{
			name:  "strong run",
			pnls:  []float64{-100, 400, 300, 500},
			codes: []string{"HIGH_WIN_RATE", "HIGH_PROFIT_FACTOR"},
		},
		{
			name:  "all wins",
			pnls:  []float64{10, 20},
			codes: []string{"HIGH_WIN_RATE", "HIGH_PROFIT_FACTOR"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := Analyze(pnlTrades(tt.pnls...), nil)
			assert.Equal(t, tt.codes, a.Codes())
		})
	}
}

func TestAnalyzeLongRecovery(t *testing.T) {
	t.Parallel()

	pnls := []float64{1000}
	for i := 0; i < 21; i++ {
		pnls = append(pnls, -1)
	}
	a := Analyze(pnlTrades(pnls...), nil)
	assert.Equal(t, 21, a.Drawdown.RecoveryTrades)
	assert.Contains(t, a.Codes(), "LONG_RECOVERY")
}

func TestPlannedRRAndRMultiple(t *testing.T) {
	t.Parallel()

	tr := journal.TradeRecord{EntryPrice: 100, StopLoss: 98, TakeProfit: 106, Size: 10, PnL: 40}
	rr, ok := PlannedRR(tr)
	require.True(t, ok)
	assert.InDelta(t, 3, rr, 1e-12)

	r, ok := RMultiple(tr)
	require.True(t, ok)
	assert.InDelta(t, 2, r, 1e-12)

	_, ok = PlannedRR(journal.TradeRecord{EntryPrice: 100})
	assert.False(t, ok)
	_, ok = RMultiple(journal.TradeRecord{EntryPrice: 100, StopLoss: 99})
	assert.False(t, ok)

	assert.Equal(t, 0.0, RR(1, 1, 2))
	assert.InDelta(t, 20, PlannedRisk(-10, 100, 98), 1e-12)
	assert.True(t, math.IsInf(RiskPct(10, 0), 1))
	assert.InDelta(t, 0.01, RiskPct(10, 1000), 1e-12)
}
