package risk

import (
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// DrawdownMetrics are percentages of the running peak. Peak and Running are
// cumulative pnl at the end of the walk.
type DrawdownMetrics struct {
	MaxDrawdownPercent     float64 `json:"max_drawdown_percent" yaml:"max_drawdown_percent"`
	CurrentDrawdownPercent float64 `json:"current_drawdown_percent" yaml:"current_drawdown_percent"`
	RecoveryTrades         int     `json:"recovery_trades" yaml:"recovery_trades"`
	Peak                   float64 `json:"peak" yaml:"peak"`
	Running                float64 `json:"running" yaml:"running"`
}

// Drawdown walks trades in the order given. Callers that need chronological
// semantics sort first.
func Drawdown(trades []journal.TradeRecord) DrawdownMetrics {
	var m DrawdownMetrics
	for _, t := range trades {
		m.Running += t.PnL
		switch {
		case m.Running > m.Peak:
			m.Peak = m.Running
			m.RecoveryTrades = 0
		case m.Running < m.Peak:
			m.RecoveryTrades++
		}

		dd := (m.Peak - m.Running) / math.Max(1, m.Peak) * 100
		if dd > m.MaxDrawdownPercent {
			m.MaxDrawdownPercent = dd
		}
		m.CurrentDrawdownPercent = dd
	}
	return m
}
