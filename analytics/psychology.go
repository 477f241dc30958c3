package analytics

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/tradejournal/internal/advice"
	"github.com/rustyeddy/tradejournal/internal/stats"
	"github.com/rustyeddy/tradejournal/journal"
)

const (
	topFactors      = 5
	minTaggedTrades = 5
)

// FactorStat is the outcome record of one behavior tag. WinRate is
// wins/(wins+losses), so flat trades do not dilute it.
type FactorStat struct {
	Tag      string     `json:"tag" yaml:"tag"`
	Kind     FactorKind `json:"kind" yaml:"kind"`
	Trades   int        `json:"trades" yaml:"trades"`
	Wins     int        `json:"wins" yaml:"wins"`
	Losses   int        `json:"losses" yaml:"losses"`
	WinRate  float64    `json:"win_rate" yaml:"win_rate"`
	AvgPnL   float64    `json:"avg_pnl" yaml:"avg_pnl"`
	TotalPnL float64    `json:"total_pnl" yaml:"total_pnl"`
}

// PsychologyAnalysis correlates psychology factors and habits with outcome.
// Win rates are fractions.
type PsychologyAnalysis struct {
	Factors         []FactorStat `json:"factors" yaml:"factors"`
	TopPositive     []FactorStat `json:"top_positive" yaml:"top_positive"`
	TopNegative     []FactorStat `json:"top_negative" yaml:"top_negative"`
	TaggedTrades    int          `json:"tagged_trades" yaml:"tagged_trades"`
	UntaggedTrades  int          `json:"untagged_trades" yaml:"untagged_trades"`
	TaggedWinRate   float64      `json:"tagged_win_rate" yaml:"tagged_win_rate"`
	UntaggedWinRate float64      `json:"untagged_win_rate" yaml:"untagged_win_rate"`
	Recommendation  string       `json:"recommendation" yaml:"recommendation"`
}

var psychologyAdvice = advice.Table[PsychologyAnalysis]{
	{
		Code: "TAG_MORE",
		When: func(a PsychologyAnalysis) bool { return a.TaggedTrades < minTaggedTrades },
		Message: func(a PsychologyAnalysis) string {
			return fmt.Sprintf("Tag psychology factors and habits on at least %d trades to see how they affect results (%d tagged so far).",
				minTaggedTrades, a.TaggedTrades)
		},
	},
	{
		Code: "BOTH",
		When: func(a PsychologyAnalysis) bool { return len(a.TopPositive) > 0 && len(a.TopNegative) > 0 },
		Message: func(a PsychologyAnalysis) string {
			pos, neg := a.TopPositive[0], a.TopNegative[0]
			return fmt.Sprintf("%q lifts your win rate to %.0f%% while %q drags it down to %.0f%%. Build on the first and guard against the second.",
				pos.Tag, pos.WinRate*100, neg.Tag, neg.WinRate*100)
		},
	},
	{
		Code: "POSITIVE",
		When: func(a PsychologyAnalysis) bool { return len(a.TopPositive) > 0 },
		Message: func(a PsychologyAnalysis) string {
			pos := a.TopPositive[0]
			return fmt.Sprintf("%q is your strongest habit with a %.0f%% win rate.", pos.Tag, pos.WinRate*100)
		},
	},
	{
		Code: "NEGATIVE",
		When: func(a PsychologyAnalysis) bool { return len(a.TopNegative) > 0 },
		Message: func(a PsychologyAnalysis) string {
			neg := a.TopNegative[0]
			return fmt.Sprintf("%q hurts the most with a %.0f%% win rate. Watch for it before entering.", neg.Tag, neg.WinRate*100)
		},
	},
	{
		Code:    "KEEP_TAGGING",
		When:    advice.Otherwise[PsychologyAnalysis],
		Message: func(PsychologyAnalysis) string { return "Keep tagging trades to uncover behavioral patterns." },
	},
}

type factorAcc struct {
	wins, losses int
	pnls         []float64
}

// Psychology merges each trade's psychology factors and good habits and
// correlates every tag with outcome. Tags are classified with habits.
func Psychology(trades []journal.TradeRecord, habits HabitCatalog) PsychologyAnalysis {
	acc := map[string]*factorAcc{}
	var taggedWins, untaggedWins int
	a := PsychologyAnalysis{}

	for _, t := range trades {
		tags := t.BehaviorTags()
		if len(tags) == 0 {
			a.UntaggedTrades++
			if t.IsWin() {
				untaggedWins++
			}
			continue
		}

		a.TaggedTrades++
		if t.IsWin() {
			taggedWins++
		}
		for _, tag := range tags {
			f, ok := acc[tag]
			if !ok {
				f = &factorAcc{}
				acc[tag] = f
			}
			f.pnls = append(f.pnls, t.PnL)
			switch {
			case t.IsWin():
				f.wins++
			case t.IsLoss():
				f.losses++
			}
		}
	}

	a.TaggedWinRate = stats.Ratio(float64(taggedWins), float64(a.TaggedTrades), 0)
	a.UntaggedWinRate = stats.Ratio(float64(untaggedWins), float64(a.UntaggedTrades), 0)

	a.Factors = make([]FactorStat, 0, len(acc))
	for tag, f := range acc {
		a.Factors = append(a.Factors, FactorStat{
			Tag:      tag,
			Kind:     habits.Kind(tag),
			Trades:   len(f.pnls),
			Wins:     f.wins,
			Losses:   f.losses,
			WinRate:  stats.Ratio(float64(f.wins), float64(f.wins+f.losses), 0),
			AvgPnL:   stats.Mean(f.pnls),
			TotalPnL: stats.Sum(f.pnls),
		})
	}
	sort.Slice(a.Factors, func(i, j int) bool { return a.Factors[i].Tag < a.Factors[j].Tag })

	a.TopPositive = rankFactors(a.Factors, KindGood, func(x, y FactorStat) bool {
		if x.WinRate != y.WinRate {
			return x.WinRate > y.WinRate
		}
		if x.TotalPnL != y.TotalPnL {
			return x.TotalPnL > y.TotalPnL
		}
		return x.Tag < y.Tag
	})
	a.TopNegative = rankFactors(a.Factors, KindBad, func(x, y FactorStat) bool {
		if x.WinRate != y.WinRate {
			return x.WinRate < y.WinRate
		}
		if x.TotalPnL != y.TotalPnL {
			return x.TotalPnL < y.TotalPnL
		}
		return x.Tag < y.Tag
	})

	a.Recommendation, _ = psychologyAdvice.First(a)
	return a
}

func rankFactors(all []FactorStat, kind FactorKind, less func(x, y FactorStat) bool) []FactorStat {
	out := []FactorStat{}
	for _, f := range all {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out[:min(topFactors, len(out))]
}
