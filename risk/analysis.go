package risk

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/internal/advice"
	"github.com/rustyeddy/tradejournal/journal"
)

// Recommendation is a coded piece of risk coaching.
type Recommendation struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Analysis is the risk and position-sizing view of a trade list.
type Analysis struct {
	Stats           `yaml:",inline"`
	Kelly           KellyResult      `json:"kelly" yaml:"kelly"`
	Drawdown        DrawdownMetrics  `json:"drawdown" yaml:"drawdown"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
}

func (a *Analysis) add(code, msg string) {
	a.Recommendations = append(a.Recommendations, Recommendation{Code: code, Message: msg})
}

var riskAdvice = advice.Table[Analysis]{
	{
		Code:    "LOW_WIN_RATE",
		When:    func(a Analysis) bool { return a.WinRate < 0.4 },
		Message: func(Analysis) string { return "Win rate is below 40%: improve setup selection before adding size." },
	},
	{
		Code:    "HIGH_WIN_RATE",
		When:    func(a Analysis) bool { return a.WinRate > 0.6 },
		Message: func(Analysis) string { return "Win rate is above 60%: Kelly sizing can be used safely." },
	},
	{
		Code: "LOW_PROFIT_FACTOR",
		When: func(a Analysis) bool { return a.ProfitFactor < 1.5 },
		Message: func(a Analysis) string {
			return fmt.Sprintf("Profit factor %.2f is below 1.5: tighten stops and improve entries.", a.ProfitFactor)
		},
	},
	{
		Code:    "HIGH_PROFIT_FACTOR",
		When:    func(a Analysis) bool { return a.ProfitFactor > 3 },
		Message: func(Analysis) string { return "Profit factor is above 3: avoid over-leveraging a strong run." },
	},
	{
		Code: "DEEP_DRAWDOWN",
		When: func(a Analysis) bool {
			return a.Drawdown.CurrentDrawdownPercent > 0.8*a.Drawdown.MaxDrawdownPercent
		},
		Message: func(a Analysis) string {
			return fmt.Sprintf("Current drawdown of %.1f%% is close to your max of %.1f%%: reduce size temporarily.",
				a.Drawdown.CurrentDrawdownPercent, a.Drawdown.MaxDrawdownPercent)
		},
	},
	{
		Code: "LONG_RECOVERY",
		When: func(a Analysis) bool { return a.Drawdown.RecoveryTrades > 20 },
		Message: func(a Analysis) string {
			return fmt.Sprintf("%d trades into recovery is normal: stick to the plan and avoid revenge trading.",
				a.Drawdown.RecoveryTrades)
		},
	},
}

// Analyze computes payoff statistics, Kelly sizing, drawdown and
// recommendations. An empty trade list yields the insufficient-data Kelly
// result and no recommendations.
func Analyze(trades []journal.TradeRecord, accountSizes []float64) Analysis {
	a := Analysis{
		Stats:           ComputeStats(trades),
		Drawdown:        Drawdown(trades),
		Recommendations: []Recommendation{},
	}
	a.Kelly = Kelly(a.Stats, accountSizes)
	if len(trades) == 0 {
		return a
	}

	for _, r := range riskAdvice {
		if r.When(a) {
			a.add(r.Code, r.Message(a))
		}
	}
	return a
}

// Codes lists the recommendation codes in evaluation order.
func (a Analysis) Codes() []string {
	out := make([]string, len(a.Recommendations))
	for i, r := range a.Recommendations {
		out[i] = r.Code
	}
	return out
}
