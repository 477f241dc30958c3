package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RawTrade is a trade as it arrives from an import file or an upstream
// source: every field optional, numbers possibly quoted, tag fields either a
// list or a single string. Normalize turns it into a TradeRecord.
type RawTrade struct {
	ID         string `json:"id" yaml:"id"`
	Date       string `json:"date" yaml:"date"`
	EntryTime  string `json:"entry_time" yaml:"entry_time"`
	Symbol     string `json:"symbol" yaml:"symbol"`
	Direction  string `json:"direction" yaml:"direction"`
	EntryPrice Number `json:"entry_price" yaml:"entry_price"`
	ExitPrice  Number `json:"exit_price" yaml:"exit_price"`
	StopLoss   Number `json:"stop_loss" yaml:"stop_loss"`
	TakeProfit Number `json:"take_profit" yaml:"take_profit"`
	Size       Number `json:"size" yaml:"size"`
	PnL        Number `json:"pnl" yaml:"pnl"`
	Outcome    string `json:"outcome" yaml:"outcome"`

	DurationMinutes Number `json:"duration_minutes" yaml:"duration_minutes"`
	SetupName       string `json:"setup_name" yaml:"setup_name"`

	StructureTags   StringList `json:"structure_tags" yaml:"structure_tags"`
	MarketShiftTags StringList `json:"market_shift_tags" yaml:"market_shift_tags"`
	PhaseTags       StringList `json:"phase_tags" yaml:"phase_tags"`
	LevelTags       StringList `json:"level_tags" yaml:"level_tags"`

	PsychologyFactors StringList `json:"psychology_factors" yaml:"psychology_factors"`
	GoodHabits        StringList `json:"good_habits" yaml:"good_habits"`
	ExecutedRules     StringList `json:"executed_rules" yaml:"executed_rules"`
	StrategyID        string     `json:"strategy_id" yaml:"strategy_id"`

	Notes string `json:"notes" yaml:"notes"`

	// position in the source file plus one; zero when unknown
	pos int
}

// at records that r was item i of its source file.
func (r *RawTrade) at(i int) { r.pos = i + 1 }

// Number is an optional numeric field. It accepts a JSON/YAML number, a
// numeric string, or null/empty for "missing".
type Number struct {
	Value float64
	Set   bool
}

// Num returns a set Number.
func Num(v float64) Number { return Number{Value: v, Set: true} }

// Float returns the value, or 0 when missing.
func (n Number) Float() float64 {
	if !n.Set {
		return 0
	}
	return n.Value
}

func (n *Number) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = Number{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*n = Num(v)
	return nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return n.parse(s)
	}
	return n.parse(string(b))
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	if value.Tag == "!!null" {
		*n = Number{}
		return nil
	}
	return n.parse(value.Value)
}

// StringList is a list of tag ids. A single scalar decodes as a one-element
// list; null decodes as an empty list.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*l = StringList{}
	case []any:
		out := make(StringList, 0, len(x))
		for _, e := range x {
			switch e.(type) {
			case nil:
				continue
			case map[string]any, []any:
				return fmt.Errorf("tag list entries must be scalars")
			}
			out = append(out, scalarString(e))
		}
		*l = out
	case map[string]any:
		return fmt.Errorf("expected a tag or list of tags, got an object")
	default:
		*l = StringList{scalarString(x)}
	}
	return nil
}

func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = StringList{}
			return nil
		}
		*l = StringList{value.Value}
	case yaml.SequenceNode:
		out := make(StringList, 0, len(value.Content))
		for _, e := range value.Content {
			if e.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: tag list entries must be scalars", e.Line)
			}
			if e.Tag == "!!null" {
				continue
			}
			out = append(out, e.Value)
		}
		*l = out
	default:
		return fmt.Errorf("line %d: expected a tag or list of tags", value.Line)
	}
	return nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
