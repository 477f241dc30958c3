package analytics

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/tradejournal/internal/stats"
	"github.com/rustyeddy/tradejournal/journal"
)

// HourBucket averages pnl over trades entered during one clock hour.
type HourBucket struct {
	Hour   int     `json:"hour" yaml:"hour"`
	Trades int     `json:"trades" yaml:"trades"`
	AvgPnL float64 `json:"avg_pnl" yaml:"avg_pnl"`
}

// QuarterBucket averages pnl over one calendar quarter, across years.
type QuarterBucket struct {
	Quarter string  `json:"quarter" yaml:"quarter"`
	Trades  int     `json:"trades" yaml:"trades"`
	AvgPnL  float64 `json:"avg_pnl" yaml:"avg_pnl"`
}

// AdvancedResult holds the dispersion ratios, streaks and time buckets.
// MaxDrawdown is in pnl units, not percent.
type AdvancedResult struct {
	ConfluenceScore    float64 `json:"confluence_score" yaml:"confluence_score"`
	ConsistencyIndex   float64 `json:"consistency_index" yaml:"consistency_index"`
	RiskAdjustedReturn float64 `json:"risk_adjusted_return" yaml:"risk_adjusted_return"`
	SharpeRatio        float64 `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	MaxDrawdown        float64 `json:"max_drawdown" yaml:"max_drawdown"`
	CalmarRatio        float64 `json:"calmar_ratio" yaml:"calmar_ratio"`
	SortinoRatio       float64 `json:"sortino_ratio" yaml:"sortino_ratio"`

	MaxConsecutiveWins   int `json:"max_consecutive_wins" yaml:"max_consecutive_wins"`
	MaxConsecutiveLosses int `json:"max_consecutive_losses" yaml:"max_consecutive_losses"`

	AvgWinDuration  float64 `json:"avg_win_duration" yaml:"avg_win_duration"`
	AvgLossDuration float64 `json:"avg_loss_duration" yaml:"avg_loss_duration"`

	ByHour    []HourBucket    `json:"by_hour" yaml:"by_hour"`
	ByQuarter []QuarterBucket `json:"by_quarter" yaml:"by_quarter"`
}

// Advanced computes the dispersion-based metrics over the pnl sequence in the
// order the trades are given.
func Advanced(trades []journal.TradeRecord, opts Options) AdvancedResult {
	opts = opts.withDefaults()

	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.PnL
	}
	mean := stats.Mean(pnls)
	sd := stats.StdDev(pnls, mean)

	res := AdvancedResult{
		ConfluenceScore:  confluence(trades),
		ConsistencyIndex: stats.Consistency(pnls, 0),
		MaxDrawdown:      maxDrawdown(pnls),
		ByHour:           byHour(trades),
		ByQuarter:        byQuarter(trades),
	}

	if sd > 0 {
		res.RiskAdjustedReturn = mean / sd
		res.SharpeRatio = (mean - opts.RiskFreeRate/opts.TradingDays) / sd
	}
	res.CalmarRatio = stats.Ratio(mean*opts.TradingDays, res.MaxDrawdown, 0)

	_, losses := stats.Split(pnls)
	res.SortinoRatio = stats.Ratio(mean, stats.RMS(losses), 0)

	res.MaxConsecutiveWins, res.MaxConsecutiveLosses = streaks(pnls)
	res.AvgWinDuration, res.AvgLossDuration = durations(trades)
	return res
}

func confluence(trades []journal.TradeRecord) float64 {
	if len(trades) == 0 {
		return 0
	}
	total := 0
	for _, t := range trades {
		total += t.ConceptCount()
	}
	return float64(total) / float64(len(trades))
}

// maxDrawdown walks the running sum from a peak of 0 and returns the largest
// peak-to-trough decline.
func maxDrawdown(pnls []float64) float64 {
	peak, running, maxDD := 0.0, 0.0, 0.0
	for _, p := range pnls {
		running += p
		if running > peak {
			peak = running
		}
		if dd := peak - running; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// streaks returns the longest runs of winning and losing trades. A flat trade
// breaks both.
func streaks(pnls []float64) (maxWins, maxLosses int) {
	wins, losses := 0, 0
	for _, p := range pnls {
		switch {
		case p > 0:
			wins++
			losses = 0
		case p < 0:
			losses++
			wins = 0
		default:
			wins, losses = 0, 0
		}
		maxWins = max(maxWins, wins)
		maxLosses = max(maxLosses, losses)
	}
	return maxWins, maxLosses
}

func durations(trades []journal.TradeRecord) (win, loss float64) {
	var w, l []float64
	for _, t := range trades {
		switch {
		case t.IsWin():
			w = append(w, t.DurationMinutes)
		case t.IsLoss():
			l = append(l, t.DurationMinutes)
		}
	}
	return stats.Mean(w), stats.Mean(l)
}

// byHour skips trades whose entry time has no readable hour.
func byHour(trades []journal.TradeRecord) []HourBucket {
	sums := map[int][]float64{}
	for _, t := range trades {
		h, ok := t.Hour()
		if !ok {
			continue
		}
		sums[h] = append(sums[h], t.PnL)
	}

	out := make([]HourBucket, 0, len(sums))
	for h, pnls := range sums {
		out = append(out, HourBucket{Hour: h, Trades: len(pnls), AvgPnL: stats.Mean(pnls)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// byQuarter always returns Q1 through Q4.
func byQuarter(trades []journal.TradeRecord) []QuarterBucket {
	var sums [4][]float64
	for _, t := range trades {
		q := (int(t.Date.Month()) - 1) / 3
		sums[q] = append(sums[q], t.PnL)
	}

	out := make([]QuarterBucket, 4)
	for i, pnls := range sums {
		out[i] = QuarterBucket{
			Quarter: fmt.Sprintf("Q%d", i+1),
			Trades:  len(pnls),
			AvgPnL:  stats.Mean(pnls),
		}
	}
	return out
}
