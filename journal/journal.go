// Package journal holds the trade journal: the normalized trade record the
// analytics engine consumes, the playbook strategies trades are checked
// against, ingestion of loosely-typed trade files and the SQLite store.
package journal

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrTradeNotFound    = errors.New("trade not found")
	ErrStrategyNotFound = errors.New("strategy not found")
)

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Outcome is the outcome label a trade source attached to a trade. Statistics
// never use it; they classify by the sign of PnL. See TradeRecord.IsWin.
type Outcome string

const (
	Win       Outcome = "win"
	Loss      Outcome = "loss"
	Breakeven Outcome = "breakeven"
)

// TradeRecord is a normalized journal trade. Every slice field is non-nil
// after Normalize.
type TradeRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Date       time.Time `json:"date" yaml:"date"`
	EntryTime  string    `json:"entry_time,omitempty" yaml:"entry_time,omitempty"`
	Symbol     string    `json:"symbol" yaml:"symbol"`
	Direction  Direction `json:"direction" yaml:"direction"`
	EntryPrice float64   `json:"entry_price" yaml:"entry_price"`
	ExitPrice  float64   `json:"exit_price" yaml:"exit_price"`
	StopLoss   float64   `json:"stop_loss" yaml:"stop_loss"`
	TakeProfit float64   `json:"take_profit" yaml:"take_profit"`
	Size       float64   `json:"size" yaml:"size"`
	PnL        float64   `json:"pnl" yaml:"pnl"`
	Outcome    Outcome   `json:"outcome" yaml:"outcome"`

	DurationMinutes float64 `json:"duration_minutes" yaml:"duration_minutes"`
	SetupName       string  `json:"setup_name,omitempty" yaml:"setup_name,omitempty"`

	// Concept tags
	StructureTags   []string `json:"structure_tags" yaml:"structure_tags"`
	MarketShiftTags []string `json:"market_shift_tags" yaml:"market_shift_tags"`
	PhaseTags       []string `json:"phase_tags" yaml:"phase_tags"`
	LevelTags       []string `json:"level_tags" yaml:"level_tags"`

	PsychologyFactors []string `json:"psychology_factors" yaml:"psychology_factors"`
	GoodHabits        []string `json:"good_habits" yaml:"good_habits"`

	ExecutedRules []string `json:"executed_rules" yaml:"executed_rules"`
	StrategyID    string   `json:"strategy_id,omitempty" yaml:"strategy_id,omitempty"`

	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// IsWin reports whether the trade made money.
func (t TradeRecord) IsWin() bool { return t.PnL > 0 }

// IsLoss reports whether the trade lost money.
func (t TradeRecord) IsLoss() bool { return t.PnL < 0 }

// ConceptCount is the number of analytical concepts tagged on the trade:
// structure, market shift, phase, support/resistance and psychology tags.
func (t TradeRecord) ConceptCount() int {
	return len(t.StructureTags) + len(t.MarketShiftTags) + len(t.PhaseTags) +
		len(t.LevelTags) + len(t.PsychologyFactors)
}

// BehaviorTags merges psychology factors and good habits, dropping repeats.
func (t TradeRecord) BehaviorTags() []string {
	out := make([]string, 0, len(t.PsychologyFactors)+len(t.GoodHabits))
	seen := make(map[string]bool, cap(out))
	for _, list := range [][]string{t.PsychologyFactors, t.GoodHabits} {
		for _, tag := range list {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

var entryTimeLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04PM",
	"3:04 PM",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// Hour returns the hour of day the trade started, parsed from EntryTime.
func (t TradeRecord) Hour() (int, bool) {
	s := strings.TrimSpace(t.EntryTime)
	if s == "" {
		return 0, false
	}
	for _, layout := range entryTimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Hour(), true
		}
	}
	return 0, false
}

// Before orders trades chronologically: by date, then entry time, then ID.
func (t TradeRecord) Before(o TradeRecord) bool {
	if !t.Date.Equal(o.Date) {
		return t.Date.Before(o.Date)
	}
	if t.EntryTime != o.EntryTime {
		return t.EntryTime < o.EntryTime
	}
	return t.ID < o.ID
}

type StrategyRule struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	Phase    string `json:"phase" yaml:"phase"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Required bool   `json:"required" yaml:"required"`
}

// Strategy is a playbook entry: a named, ordered checklist of rules.
type Strategy struct {
	ID    string         `json:"id" yaml:"id"`
	Name  string         `json:"name" yaml:"name"`
	Rules []StrategyRule `json:"rules" yaml:"rules"`
}

// Journal stores trades and playbook strategies.
type Journal interface {
	RecordTrade(ctx context.Context, t TradeRecord) error
	RecordStrategy(ctx context.Context, s Strategy) error
	ListTrades(ctx context.Context) ([]TradeRecord, error)
	ListStrategies(ctx context.Context) ([]Strategy, error)
	Close() error
}
