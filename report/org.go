package report

import (
	"fmt"
	"io"
	"math"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/internal/stats"
)

var orgFuncs = template.FuncMap{
	// money renders currency with exactly two decimals
	"money": func(x float64) string {
		return decimal.NewFromFloat(x).StringFixed(2)
	},
	// pct renders a 0..1 fraction as a percentage
	"pct": func(x float64) string {
		return decimal.NewFromFloat(x*100).StringFixed(1) + "%"
	},
	// pctv renders a value that is already in percent
	"pctv": func(x float64) string {
		return decimal.NewFromFloat(x).StringFixed(1) + "%"
	},
	"num": func(x float64) string {
		return decimal.NewFromFloat(x).StringFixed(2)
	},
	"factor": func(f stats.Float) string {
		v := float64(f)
		switch {
		case math.IsInf(v, 1):
			return "inf"
		case math.IsNaN(v):
			return "n/a"
		}
		return decimal.NewFromFloat(v).StringFixed(2)
	},
	"day": func(t time.Time) string {
		if t.IsZero() {
			return "(date?)"
		}
		return t.Format("2006-01-02")
	},
	"stamp": func(t time.Time) string {
		return t.Format("2006-01-02 Mon 15:04")
	},
}

var orgTemplate = template.Must(template.New("report").Funcs(orgFuncs).Parse(OrgTemplate))

// WriteOrg renders r as an Org-mode document.
func WriteOrg(w io.Writer, r *analytics.Report) error {
	if err := orgTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("render org report: %w", err)
	}
	return nil
}

const OrgTemplate = `* REPORT: Trading Journal {{day .GeneratedAt}}
:PROPERTIES:
:TRADES:      {{.Summary.Trades}}
:NET_PL:      {{money .Summary.TotalPnL}}
:WIN_RATE:    {{pctv .Summary.WinRate}}
:PROFIT_FAC:  {{factor .Risk.ProfitFactor}}
:EXPECTANCY:  {{money .Risk.Expectancy}}
:MAX_DD:      {{money .Advanced.MaxDrawdown}}
:RISK_PCT:    {{pctv .Risk.Kelly.RecommendedRiskPercent}}
:GENERATED:   [{{stamp .GeneratedAt}}]
:END:

** Performance Summary
- Net P/L:          *{{money .Summary.TotalPnL}}*
- Win Rate:         *{{pctv .Summary.WinRate}}*
- Wins / Losses:    {{.Summary.WinCount}} / {{.Summary.LossCount}} ({{.Summary.BreakevenCount}} breakeven)
- Avg Win:          {{money .Risk.AvgWin}}
- Avg Loss:         {{money .Risk.AvgLoss}}
- Profit Factor:    *{{factor .Risk.ProfitFactor}}*

** Periods
| Period | Trades | P/L | Win Rate |
|--------+--------+-----+----------|
{{- with .Periods}}
| Today  | {{.Today.Trades}} | {{money .Today.PnL}} | {{pctv .Today.WinRate}} |
| Week   | {{.Week.Trades}} | {{money .Week.PnL}} | {{pctv .Week.WinRate}} |
| Month  | {{.Month.Trades}} | {{money .Month.PnL}} | {{pctv .Month.WinRate}} |
| Year   | {{.Year.Trades}} | {{money .Year.PnL}} | {{pctv .Year.WinRate}} |
{{- end}}

** Equity Curve
{{- if .EquityCurve}}
| Date | Trade | P/L | Cumulative |
|------+-------+-----+------------|
{{- range .EquityCurve}}
| {{day .Date}} | {{.TradeID}} | {{money .PnL}} | {{money .CumulativePnL}} |
{{- end}}
{{- else}}
# no trades yet
{{- end}}

** Breakdown
| Symbol | Trades | Win Rate | P/L |
|--------+--------+----------+-----|
{{- range .Breakdown.BySymbol}}
| {{.Key}} | {{.Trades}} | {{pctv .WinRate}} | {{money .TotalPnL}} |
{{- end}}

| Direction | Trades | Win Rate | P/L |
|-----------+--------+----------+-----|
{{- range .Breakdown.ByDirection}}
| {{.Key}} | {{.Trades}} | {{pctv .WinRate}} | {{money .TotalPnL}} |
{{- end}}

** Advanced Metrics
{{- with .Advanced}}
| Metric                 | Value |
|------------------------+-------|
| Confluence score       | {{num .ConfluenceScore}} |
| Consistency index      | {{num .ConsistencyIndex}} |
| Risk-adjusted return   | {{num .RiskAdjustedReturn}} |
| Sharpe                 | {{num .SharpeRatio}} |
| Sortino                | {{num .SortinoRatio}} |
| Calmar                 | {{num .CalmarRatio}} |
| Max drawdown           | {{money .MaxDrawdown}} |
| Max consecutive wins   | {{.MaxConsecutiveWins}} |
| Max consecutive losses | {{.MaxConsecutiveLosses}} |
| Avg win duration (min) | {{num .AvgWinDuration}} |
| Avg loss duration (min)| {{num .AvgLossDuration}} |

*** By Hour
{{- if .ByHour}}
| Hour | Trades | Avg P/L |
|------+--------+---------|
{{- range .ByHour}}
| {{printf "%02d:00" .Hour}} | {{.Trades}} | {{money .AvgPnL}} |
{{- end}}
{{- else}}
# no entry times recorded
{{- end}}

*** By Quarter
| Quarter | Trades | Avg P/L |
|---------+--------+---------|
{{- range .ByQuarter}}
| {{.Quarter}} | {{.Trades}} | {{money .AvgPnL}} |
{{- end}}
{{- end}}

** Risk & Position Sizing
{{- with .Risk}}
- Kelly:            {{pctv .Kelly.KellyPercent}}
- Half Kelly:       {{pctv .Kelly.HalfKellyPercent}}
- Recommended risk: *{{pctv .Kelly.RecommendedRiskPercent}}* per trade
- Max drawdown:     {{pctv .Drawdown.MaxDrawdownPercent}} (current {{pctv .Drawdown.CurrentDrawdownPercent}})

{{.Kelly.Advice}}
{{- if .Kelly.PositionSizeGuide}}

| Account | Risk Amount | Suggested Size |
|---------+-------------+----------------|
{{- range .Kelly.PositionSizeGuide}}
| {{money .AccountSize}} | {{money .RiskAmount}} | {{num .SuggestedPositionSize}} |
{{- end}}
{{- end}}
{{- if .Recommendations}}

*** Recommendations
{{- range .Recommendations}}
- [ ] {{.Message}}
{{- end}}
{{- end}}
{{- end}}

** Setups
{{- with .Setups}}
{{- if .Setups}}
| Setup | Trades | Win Rate | P/L | Profit Factor | Optimal R:R | Consistency |
|-------+--------+----------+-----+---------------+-------------+-------------|
{{- range .Setups}}
| {{.Name}} | {{.Trades}} | {{pct .WinRate}} | {{money .TotalPnL}} | {{factor .ProfitFactor}} | {{printf "%.1f" .OptimalRRR}} | {{num .Consistency}} |
{{- end}}
{{- else}}
# no setups recorded
{{- end}}
{{- with .PersonalEdge}}

Personal edge: *{{.Name}}*
{{- end}}
{{- if .Recommendations}}
{{range .Recommendations}}
- {{.}}
{{- end}}
{{- end}}
{{- end}}

** Psychology
{{- with .Psychology}}
- Tagged trades:    {{.TaggedTrades}} ({{pct .TaggedWinRate}} win rate)
- Untagged trades:  {{.UntaggedTrades}} ({{pct .UntaggedWinRate}} win rate)
{{- if .TopPositive}}

*** Helping
{{- range .TopPositive}}
- {{.Tag}} :: {{pct .WinRate}} over {{.Trades}} trades, {{money .TotalPnL}}
{{- end}}
{{- end}}
{{- if .TopNegative}}

*** Hurting
{{- range .TopNegative}}
- {{.Tag}} :: {{pct .WinRate}} over {{.Trades}} trades, {{money .TotalPnL}}
{{- end}}
{{- end}}

{{.Recommendation}}
{{- end}}

** Rule Compliance
{{- with .Compliance}}
- Scored trades:    {{len .TradeScores}}
- Overall score:    {{pct .OverallScore}}

| Compliance | Trades | Win Rate | Avg P/L |
|------------+--------+----------+---------|
| High       | {{.HighCompliance.Trades}} | {{pct .HighCompliance.WinRate}} | {{money .HighCompliance.AvgPnL}} |
| Low        | {{.LowCompliance.Trades}} | {{pct .LowCompliance.WinRate}} | {{money .LowCompliance.AvgPnL}} |
{{- if .MostMissed}}

*** Most Missed Rules
{{- range .MostMissed}}
- {{.Text}} :: missed {{.MissCount}}/{{.TotalTrades}} ({{pct .MissRate}})
{{- end}}
{{- end}}

{{.Recommendation}}
{{- end}}
{{- if .Skipped}}

** Skipped Records
{{- range .Skipped}}
- {{.}}
{{- end}}
{{- end}}
`
