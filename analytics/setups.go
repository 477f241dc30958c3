package analytics

import (
	"fmt"
	"slices"
	"sort"

	"github.com/rustyeddy/tradejournal/internal/advice"
	"github.com/rustyeddy/tradejournal/internal/stats"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/risk"
)

const UnnamedSetup = "Unnamed Setup"

const (
	rankSize       = 3
	minSetupTrades = 3
)

// SetupPerformance is the record of one named setup. WinRate is a fraction.
type SetupPerformance struct {
	Name            string      `json:"name" yaml:"name"`
	Trades          int         `json:"trades" yaml:"trades"`
	Wins            int         `json:"wins" yaml:"wins"`
	Losses          int         `json:"losses" yaml:"losses"`
	Breakeven       int         `json:"breakeven" yaml:"breakeven"`
	WinRate         float64     `json:"win_rate" yaml:"win_rate"`
	AvgPnL          float64     `json:"avg_pnl" yaml:"avg_pnl"`
	TotalPnL        float64     `json:"total_pnl" yaml:"total_pnl"`
	AvgWin          float64     `json:"avg_win" yaml:"avg_win"`
	AvgLoss         float64     `json:"avg_loss" yaml:"avg_loss"`
	ProfitFactor    stats.Float `json:"profit_factor" yaml:"profit_factor"`
	RiskRewardRatio float64     `json:"risk_reward_ratio" yaml:"risk_reward_ratio"`
	OptimalRRR      float64     `json:"optimal_rrr" yaml:"optimal_rrr"`
	Consistency     float64     `json:"consistency" yaml:"consistency"`

	// Mean planned reward:risk over trades that recorded a full bracket.
	AvgPlannedRR    float64 `json:"avg_planned_rr" yaml:"avg_planned_rr"`
	PlannedRRTrades int     `json:"planned_rr_trades" yaml:"planned_rr_trades"`
}

type SetupAnalysis struct {
	Setups          []SetupPerformance `json:"setups" yaml:"setups"`
	Top             []SetupPerformance `json:"top" yaml:"top"`
	Bottom          []SetupPerformance `json:"bottom" yaml:"bottom"`
	PersonalEdge    *SetupPerformance  `json:"personal_edge,omitempty" yaml:"personal_edge,omitempty"`
	Recommendations []string           `json:"recommendations" yaml:"recommendations"`
}

var setupAdvice = advice.Table[SetupPerformance]{
	{
		Code: "AVOID",
		When: func(s SetupPerformance) bool { return s.Trades >= minSetupTrades && s.WinRate < 0.4 },
		Message: func(s SetupPerformance) string {
			return fmt.Sprintf("Consider avoiding %q: %.0f%% win rate over %d trades.", s.Name, s.WinRate*100, s.Trades)
		},
	},
	{
		Code: "MORE_DATA",
		When: func(s SetupPerformance) bool { return s.Trades < minSetupTrades },
		Message: func(s SetupPerformance) string {
			return fmt.Sprintf("Collect more data on %q: only %d trade(s) logged.", s.Name, s.Trades)
		},
	},
}

// Setups groups trades by setup name and ranks the groups.
func Setups(trades []journal.TradeRecord) SetupAnalysis {
	groups := map[string][]journal.TradeRecord{}
	for _, t := range trades {
		name := t.SetupName
		if name == "" {
			name = UnnamedSetup
		}
		groups[name] = append(groups[name], t)
	}

	perf := make([]SetupPerformance, 0, len(groups))
	for name, group := range groups {
		perf = append(perf, setupPerformance(name, group))
	}
	sort.Slice(perf, func(i, j int) bool { return perf[i].Name < perf[j].Name })

	top := slices.Clone(perf)
	sort.SliceStable(top, func(i, j int) bool { return betterSetup(top[i], top[j]) })
	bottom := slices.Clone(perf)
	sort.SliceStable(bottom, func(i, j int) bool { return worseSetup(bottom[i], bottom[j]) })

	a := SetupAnalysis{
		Setups:          perf,
		Top:             top[:min(rankSize, len(top))],
		Bottom:          bottom[:min(rankSize, len(bottom))],
		Recommendations: []string{},
	}
	if len(a.Top) > 0 {
		edge := a.Top[0]
		a.PersonalEdge = &edge
		a.Recommendations = append(a.Recommendations, fmt.Sprintf(
			"Your edge is %q: %.0f%% win rate, profit factor %.2f. Target an R:R of %.1f.",
			edge.Name, edge.WinRate*100, float64(edge.ProfitFactor), edge.OptimalRRR))
	}
	for _, s := range perf {
		a.Recommendations = append(a.Recommendations, setupAdvice.All(s)...)
	}
	return a
}

func setupPerformance(name string, trades []journal.TradeRecord) SetupPerformance {
	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.PnL
	}
	s := risk.StatsFromPnL(pnls)

	p := SetupPerformance{
		Name:            name,
		Trades:          len(trades),
		Wins:            s.Wins,
		Losses:          s.Losses,
		Breakeven:       len(trades) - s.Wins - s.Losses,
		WinRate:         s.WinRate,
		AvgPnL:          stats.Mean(pnls),
		TotalPnL:        stats.Sum(pnls),
		AvgWin:          s.AvgWin,
		AvgLoss:         s.AvgLoss,
		ProfitFactor:    s.ProfitFactor,
		RiskRewardRatio: stats.Ratio(s.AvgWin, s.AvgLoss, 1),
		OptimalRRR:      optimalRRR(s.WinRate, s.AvgWin, s.AvgLoss),
		Consistency:     stats.Consistency(pnls, 100),
	}

	var planned []float64
	for _, t := range trades {
		if rr, ok := risk.PlannedRR(t); ok {
			planned = append(planned, rr)
		}
	}
	p.AvgPlannedRR = stats.Mean(planned)
	p.PlannedRRTrades = len(planned)
	return p
}

// optimalRRR compares expected gain to expected loss per trade, clipped to
// [1, 10] and rounded to one decimal. 2 when either side is unknown.
func optimalRRR(winRate, avgWin, avgLoss float64) float64 {
	if avgLoss == 0 || winRate == 0 {
		return 2
	}
	// winRate < 1 whenever avgLoss > 0, so the denominator is positive
	v := winRate * avgWin / ((1 - winRate) * avgLoss)
	return stats.Round(stats.Clip(v, 1, 10), 1)
}

func betterSetup(a, b SetupPerformance) bool {
	if a.WinRate != b.WinRate {
		return a.WinRate > b.WinRate
	}
	if a.ProfitFactor != b.ProfitFactor {
		return a.ProfitFactor > b.ProfitFactor
	}
	return a.Name < b.Name
}

func worseSetup(a, b SetupPerformance) bool {
	if a.WinRate != b.WinRate {
		return a.WinRate < b.WinRate
	}
	if a.ProfitFactor != b.ProfitFactor {
		return a.ProfitFactor < b.ProfitFactor
	}
	return a.Name < b.Name
}
