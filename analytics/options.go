// Package analytics turns a list of journal trades into the performance
// statistics used to coach a trader: totals and equity curve, dispersion
// ratios and streaks, per-setup edges, psychology correlation and playbook
// compliance. Every function is a pure transformation of its arguments.
package analytics

import (
	"slices"

	"github.com/rustyeddy/tradejournal/risk"
)

// FactorKind classifies a behavior tag.
type FactorKind string

const (
	KindGood    FactorKind = "good"
	KindBad     FactorKind = "bad"
	KindUnknown FactorKind = "unknown"
)

// HabitCatalog names which behavior tags are good habits and which are bad
// ones. Tags in neither list are unknown.
type HabitCatalog struct {
	Good []string `yaml:"good" json:"good"`
	Bad  []string `yaml:"bad" json:"bad"`
}

// Kind looks tag up in the catalog. A tag listed as both good and bad is good.
func (c HabitCatalog) Kind(tag string) FactorKind {
	switch {
	case slices.Contains(c.Good, tag):
		return KindGood
	case slices.Contains(c.Bad, tag):
		return KindBad
	}
	return KindUnknown
}

// DefaultHabits is the catalog used when no habits are configured.
func DefaultHabits() HabitCatalog {
	return HabitCatalog{
		Good: []string{
			"patience",
			"followed-plan",
			"waited-for-confirmation",
			"proper-risk",
			"cut-losses-early",
			"journaled",
			"calm",
		},
		Bad: []string{
			"fomo",
			"revenge",
			"overtrading",
			"tilt",
			"greed",
			"fear",
			"moved-stop",
			"impatience",
		},
	}
}

// Options tunes the analytics. The zero value is usable: zero fields fall back
// to the values in DefaultOptions, except RiskFreeRate which may be 0.
type Options struct {
	// Annual risk-free rate, divided by TradingDays for Sharpe.
	RiskFreeRate float64
	TradingDays  float64

	// Account ladder for the Kelly position-size guide.
	AccountSizes []float64

	// Score at or above which a trade counts as high compliance.
	ComplianceThreshold float64

	// Sort a copy of the trades by date before Engine.Build evaluates them.
	SortChronological bool

	Habits HabitCatalog
}

func DefaultOptions() Options {
	return Options{
		RiskFreeRate:        0.02,
		TradingDays:         252,
		AccountSizes:        slices.Clone(risk.DefaultAccountSizes),
		ComplianceThreshold: 0.7,
		SortChronological:   true,
		Habits:              DefaultHabits(),
	}
}

func (o Options) withDefaults() Options {
	if o.TradingDays <= 0 {
		o.TradingDays = 252
	}
	if len(o.AccountSizes) == 0 {
		o.AccountSizes = risk.DefaultAccountSizes
	}
	if o.ComplianceThreshold <= 0 {
		o.ComplianceThreshold = 0.7
	}
	return o
}
