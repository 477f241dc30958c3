package journal

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/tradejournal/pkg/id"
)

// Skipped describes an input record that was dropped during ingestion.
type Skipped struct {
	Index  int    `json:"index" yaml:"index"`
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Reason string `json:"reason" yaml:"reason"`
}

func (s Skipped) String() string {
	if s.ID != "" {
		return fmt.Sprintf("record %d (%s): %s", s.Index, s.ID, s.Reason)
	}
	return fmt.Sprintf("record %d: %s", s.Index, s.Reason)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate parses the date formats accepted on import. hasClock reports
// whether the input carried a time of day.
func ParseDate(s string) (t time.Time, hasClock bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, strings.Contains(layout, "15"), nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unparseable date %q", s)
}

// Normalize validates raw trades and fills every optional field with its
// default. Records that cannot be normalized are skipped and reported; the
// rest of the batch is still returned. Both results are non-nil.
//
// Skipped indexes refer to the source file when the raws came from one of
// the decoders, otherwise to raws. A trade without an ID gets one derived
// from its date and contents, so normalizing the same batch twice yields the
// same IDs.
func Normalize(raws []RawTrade) ([]TradeRecord, []Skipped) {
	recs := make([]TradeRecord, 0, len(raws))
	skipped := []Skipped{}
	seen := map[string]int{}

	for i, raw := range raws {
		idx := i
		if raw.pos > 0 {
			idx = raw.pos - 1
		}
		rec, err := normalizeOne(raw)
		if err != nil {
			skipped = append(skipped, Skipped{Index: idx, ID: strings.TrimSpace(raw.ID), Reason: err.Error()})
			continue
		}
		if rec.ID == "" {
			key := fingerprint(rec)
			// identical rows stay distinct
			n := seen[key]
			seen[key]++
			rec.ID = id.Derive(rec.Date, fmt.Sprintf("%s#%d", key, n))
		}
		recs = append(recs, rec)
	}
	return recs, skipped
}

// fingerprint is the content used to derive an ID for a trade that has none.
func fingerprint(t TradeRecord) string {
	return strings.Join([]string{
		t.Date.Format(time.RFC3339Nano), t.EntryTime, t.Symbol, string(t.Direction),
		fmt.Sprint(t.EntryPrice, t.ExitPrice, t.StopLoss, t.TakeProfit, t.Size, t.PnL, t.DurationMinutes),
		t.SetupName, t.StrategyID, t.Notes,
		strings.Join(t.StructureTags, ","), strings.Join(t.MarketShiftTags, ","),
		strings.Join(t.PhaseTags, ","), strings.Join(t.LevelTags, ","),
		strings.Join(t.PsychologyFactors, ","), strings.Join(t.GoodHabits, ","),
		strings.Join(t.ExecutedRules, ","),
	}, "|")
}

func normalizeOne(raw RawTrade) (TradeRecord, error) {
	date, hasClock, err := ParseDate(raw.Date)
	if err != nil {
		return TradeRecord{}, err
	}
	pnl := raw.PnL.Float()
	if math.IsNaN(pnl) || math.IsInf(pnl, 0) {
		return TradeRecord{}, fmt.Errorf("pnl is not finite")
	}

	rec := TradeRecord{
		ID:         strings.TrimSpace(raw.ID),
		Date:       date,
		EntryTime:  strings.TrimSpace(raw.EntryTime),
		Symbol:     strings.ToUpper(strings.TrimSpace(raw.Symbol)),
		Direction:  normalizeDirection(raw.Direction),
		EntryPrice: finite(raw.EntryPrice),
		ExitPrice:  finite(raw.ExitPrice),
		StopLoss:   finite(raw.StopLoss),
		TakeProfit: finite(raw.TakeProfit),
		Size:       finite(raw.Size),
		PnL:        pnl,

		DurationMinutes: finite(raw.DurationMinutes),
		SetupName:       strings.TrimSpace(raw.SetupName),

		StructureTags:     cleanTags(raw.StructureTags),
		MarketShiftTags:   cleanTags(raw.MarketShiftTags),
		PhaseTags:         cleanTags(raw.PhaseTags),
		LevelTags:         cleanTags(raw.LevelTags),
		PsychologyFactors: cleanTags(raw.PsychologyFactors),
		GoodHabits:        cleanTags(raw.GoodHabits),
		ExecutedRules:     cleanTags(raw.ExecutedRules),
		StrategyID:        strings.TrimSpace(raw.StrategyID),
		Notes:             strings.TrimSpace(raw.Notes),
	}
	rec.Outcome = normalizeOutcome(raw.Outcome, pnl)

	if rec.EntryTime == "" && hasClock {
		rec.EntryTime = date.Format("15:04")
	}
	return rec, nil
}

func normalizeDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "sell", "s":
		return Short
	default:
		return Long
	}
}

// normalizeOutcome keeps a recognized outcome label even when it disagrees
// with the pnl sign, and derives one from pnl otherwise.
func normalizeOutcome(s string, pnl float64) Outcome {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win", "won", "w":
		return Win
	case "loss", "lose", "lost", "l":
		return Loss
	case "breakeven", "break-even", "be":
		return Breakeven
	}
	switch {
	case pnl > 0:
		return Win
	case pnl < 0:
		return Loss
	default:
		return Breakeven
	}
}

func finite(n Number) float64 {
	v := n.Float()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func cleanTags(in StringList) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, tag := range in {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
