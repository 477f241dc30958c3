package risk

import (
	"math"

	"github.com/rustyeddy/tradejournal/internal/stats"
	"github.com/rustyeddy/tradejournal/journal"
)

// Stats are the payoff statistics Kelly sizing is derived from. WinRate is a
// fraction in [0, 1]; AvgLoss is a positive magnitude.
type Stats struct {
	Trades       int         `json:"trades" yaml:"trades"`
	Wins         int         `json:"wins" yaml:"wins"`
	Losses       int         `json:"losses" yaml:"losses"`
	WinRate      float64     `json:"win_rate" yaml:"win_rate"`
	AvgWin       float64     `json:"avg_win" yaml:"avg_win"`
	AvgLoss      float64     `json:"avg_loss" yaml:"avg_loss"`
	ProfitFactor stats.Float `json:"profit_factor" yaml:"profit_factor"`
	Expectancy   float64     `json:"expectancy" yaml:"expectancy"`
}

// ComputeStats classifies trades by the sign of pnl.
func ComputeStats(trades []journal.TradeRecord) Stats {
	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.PnL
	}
	return StatsFromPnL(pnls)
}

// StatsFromPnL is ComputeStats over a bare pnl series.
func StatsFromPnL(pnls []float64) Stats {
	wins, losses := stats.Split(pnls)
	s := Stats{
		Trades:  len(pnls),
		Wins:    len(wins),
		Losses:  len(losses),
		WinRate: stats.Ratio(float64(len(wins)), float64(len(pnls)), 0),
		AvgWin:  stats.Mean(wins),
		AvgLoss: stats.AbsMean(losses),
	}
	s.ProfitFactor = stats.Float(ProfitFactor(s.AvgWin, s.AvgLoss))
	s.Expectancy = s.WinRate*s.AvgWin - (1-s.WinRate)*s.AvgLoss
	return s
}

// ProfitFactor is avgWin/avgLoss. Without losses it is +Inf when there were
// wins and 1 when there were none.
func ProfitFactor(avgWin, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgWin > 0 {
			return math.Inf(1)
		}
		return 1
	}
	return avgWin / avgLoss
}
