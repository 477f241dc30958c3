package analytics

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/tradejournal/internal/advice"
	"github.com/rustyeddy/tradejournal/internal/stats"
	"github.com/rustyeddy/tradejournal/journal"
)

const (
	mostMissedSize  = 5
	minScoredTrades = 10
)

// TradeComplianceScore is the fraction of a strategy's rules a trade executed.
type TradeComplianceScore struct {
	TradeID      string   `json:"trade_id" yaml:"trade_id"`
	StrategyID   string   `json:"strategy_id" yaml:"strategy_id"`
	StrategyName string   `json:"strategy_name" yaml:"strategy_name"`
	Score        float64  `json:"score" yaml:"score"`
	Executed     int      `json:"executed" yaml:"executed"`
	TotalRules   int      `json:"total_rules" yaml:"total_rules"`
	MissedRules  []string `json:"missed_rules" yaml:"missed_rules"`
	PnL          float64  `json:"pnl" yaml:"pnl"`
}

// RuleMissStat counts how often one rule was skipped across scored trades.
type RuleMissStat struct {
	StrategyID  string  `json:"strategy_id" yaml:"strategy_id"`
	RuleID      string  `json:"rule_id" yaml:"rule_id"`
	Text        string  `json:"text" yaml:"text"`
	MissCount   int     `json:"miss_count" yaml:"miss_count"`
	TotalTrades int     `json:"total_trades" yaml:"total_trades"`
	MissRate    float64 `json:"miss_rate" yaml:"miss_rate"`
}

// ComplianceBucket summarizes one side of the compliance threshold.
// WinRate is a fraction.
type ComplianceBucket struct {
	Trades  int     `json:"trades" yaml:"trades"`
	WinRate float64 `json:"win_rate" yaml:"win_rate"`
	AvgPnL  float64 `json:"avg_pnl" yaml:"avg_pnl"`
}

// ComplianceAnalysis aggregates per-trade scores. OverallScore is 0 both when
// nothing was scorable and when every trade scored 0; TradeScores tells the
// two apart.
type ComplianceAnalysis struct {
	Threshold      float64                `json:"threshold" yaml:"threshold"`
	TradeScores    []TradeComplianceScore `json:"trade_scores" yaml:"trade_scores"`
	OverallScore   float64                `json:"overall_score" yaml:"overall_score"`
	HighCompliance ComplianceBucket       `json:"high_compliance" yaml:"high_compliance"`
	LowCompliance  ComplianceBucket       `json:"low_compliance" yaml:"low_compliance"`
	RuleStats      []RuleMissStat         `json:"rule_stats" yaml:"rule_stats"`
	MostMissed     []RuleMissStat         `json:"most_missed" yaml:"most_missed"`
	Recommendation string                 `json:"recommendation" yaml:"recommendation"`
}

var complianceAdvice = advice.Table[ComplianceAnalysis]{
	{
		Code: "LINK_MORE",
		When: func(a ComplianceAnalysis) bool { return len(a.TradeScores) < minScoredTrades },
		Message: func(a ComplianceAnalysis) string {
			return fmt.Sprintf("Only %d trade(s) are linked to a strategy with checked rules. Link and check at least %d to measure how discipline affects results.",
				len(a.TradeScores), minScoredTrades)
		},
	},
	{
		Code: "DISCIPLINE_PAYS",
		When: func(a ComplianceAnalysis) bool {
			return a.HighCompliance.Trades > 0 && a.HighCompliance.WinRate > a.LowCompliance.WinRate
		},
		Message: func(a ComplianceAnalysis) string {
			return fmt.Sprintf("Discipline pays: %.0f%% win rate when following at least %.0f%% of your rules vs %.0f%% otherwise.",
				a.HighCompliance.WinRate*100, a.Threshold*100, a.LowCompliance.WinRate*100)
		},
	},
	{
		Code: "NO_CORRELATION",
		When: advice.Otherwise[ComplianceAnalysis],
		Message: func(a ComplianceAnalysis) string {
			return fmt.Sprintf("No clear link between rule compliance and win rate yet (%.0f%% vs %.0f%%). Review whether your rules still fit how you trade.",
				a.HighCompliance.WinRate*100, a.LowCompliance.WinRate*100)
		},
	},
}

type ruleKey struct{ strategy, rule string }

// Compliance scores every trade that references a known strategy with at
// least one rule. threshold splits high from low compliance; 0 means 0.7.
func Compliance(trades []journal.TradeRecord, strategies []journal.Strategy, threshold float64) ComplianceAnalysis {
	if threshold <= 0 {
		threshold = 0.7
	}

	catalog := make(map[string]journal.Strategy, len(strategies))
	for _, s := range strategies {
		catalog[s.ID] = s
	}

	a := ComplianceAnalysis{
		Threshold:   threshold,
		TradeScores: []TradeComplianceScore{},
		RuleStats:   []RuleMissStat{},
	}
	ruleIdx := map[ruleKey]int{}
	var high, low []float64

	for _, t := range trades {
		s, ok := catalog[t.StrategyID]
		if t.StrategyID == "" || !ok || len(s.Rules) == 0 {
			continue
		}

		executed := make(map[string]bool, len(t.ExecutedRules))
		for _, id := range t.ExecutedRules {
			executed[id] = true
		}

		score := TradeComplianceScore{
			TradeID:      t.ID,
			StrategyID:   s.ID,
			StrategyName: s.Name,
			TotalRules:   len(s.Rules),
			MissedRules:  []string{},
			PnL:          t.PnL,
		}
		for _, r := range s.Rules {
			k := ruleKey{s.ID, r.ID}
			i, seen := ruleIdx[k]
			if !seen {
				i = len(a.RuleStats)
				ruleIdx[k] = i
				a.RuleStats = append(a.RuleStats, RuleMissStat{StrategyID: s.ID, RuleID: r.ID, Text: r.Text})
			}
			a.RuleStats[i].TotalTrades++

			if executed[r.ID] {
				score.Executed++
				continue
			}
			score.MissedRules = append(score.MissedRules, r.Text)
			a.RuleStats[i].MissCount++
		}
		score.Score = float64(score.Executed) / float64(score.TotalRules)
		a.TradeScores = append(a.TradeScores, score)

		if score.Score >= threshold {
			high = append(high, t.PnL)
		} else {
			low = append(low, t.PnL)
		}
	}

	scores := make([]float64, len(a.TradeScores))
	for i, s := range a.TradeScores {
		scores[i] = s.Score
	}
	a.OverallScore = stats.Mean(scores)
	a.HighCompliance = bucket(high)
	a.LowCompliance = bucket(low)

	for i := range a.RuleStats {
		r := &a.RuleStats[i]
		r.MissRate = stats.Ratio(float64(r.MissCount), float64(r.TotalTrades), 0)
	}
	a.MostMissed = mostMissed(a.RuleStats)

	a.Recommendation, _ = complianceAdvice.First(a)
	return a
}

func bucket(pnls []float64) ComplianceBucket {
	wins, _ := stats.Split(pnls)
	return ComplianceBucket{
		Trades:  len(pnls),
		WinRate: stats.Ratio(float64(len(wins)), float64(len(pnls)), 0),
		AvgPnL:  stats.Mean(pnls),
	}
}

// mostMissed ranks rules that were skipped at least once.
func mostMissed(all []RuleMissStat) []RuleMissStat {
	out := []RuleMissStat{}
	for _, r := range all {
		if r.MissCount > 0 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.MissRate != b.MissRate:
			return a.MissRate > b.MissRate
		case a.MissCount != b.MissCount:
			return a.MissCount > b.MissCount
		case a.RuleID != b.RuleID:
			return a.RuleID < b.RuleID
		}
		return a.StrategyID < b.StrategyID
	})
	return out[:min(mostMissedSize, len(out))]
}
