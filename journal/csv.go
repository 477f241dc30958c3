package journal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVColumns is the column order written by CSVJournal and understood by
// ReadTradesCSV. Tag columns hold ';'-separated ids.
var CSVColumns = []string{
	"id", "date", "entry_time", "symbol", "direction",
	"entry_price", "exit_price", "stop_loss", "take_profit", "size", "pnl", "outcome",
	"duration_minutes", "setup_name",
	"structure_tags", "market_shift_tags", "phase_tags", "level_tags",
	"psychology_factors", "good_habits", "executed_rules", "strategy_id", "notes",
}

const tagSep = ";"

// CSVJournal writes normalized trades to a CSV file.
type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(CSVColumns); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}
	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordTrade(_ context.Context, t TradeRecord) error {
	if err := j.w.Write(tradeRow(t)); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

func tradeRow(t TradeRecord) []string {
	return []string{
		t.ID,
		t.Date.Format(time.RFC3339),
		t.EntryTime,
		t.Symbol,
		string(t.Direction),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.StopLoss),
		f(t.TakeProfit),
		f(t.Size),
		f(t.PnL),
		string(t.Outcome),
		f(t.DurationMinutes),
		t.SetupName,
		strings.Join(t.StructureTags, tagSep),
		strings.Join(t.MarketShiftTags, tagSep),
		strings.Join(t.PhaseTags, tagSep),
		strings.Join(t.LevelTags, tagSep),
		strings.Join(t.PsychologyFactors, tagSep),
		strings.Join(t.GoodHabits, tagSep),
		strings.Join(t.ExecutedRules, tagSep),
		t.StrategyID,
		t.Notes,
	}
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// ReadTradesCSV reads raw trades from CSV with a header row. Columns are
// matched by name, unknown columns are ignored and missing ones stay unset.
// A row that is not valid CSV or whose numeric cell does not parse is
// skipped.
func ReadTradesCSV(r io.Reader) ([]RawTrade, []Skipped, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []RawTrade{}, []Skipped{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["date"]; !ok {
		return nil, nil, fmt.Errorf("csv header has no date column")
	}

	raws := []RawTrade{}
	skipped := []Skipped{}
	for idx := 0; ; idx++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			// the reader resumes at the next record
			skipped = append(skipped, Skipped{Index: idx, Reason: err.Error()})
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		raw, err := rawFromRow(col, row)
		if err != nil {
			skipped = append(skipped, Skipped{Index: idx, ID: raw.ID, Reason: err.Error()})
			continue
		}
		raw.at(idx)
		raws = append(raws, raw)
	}
	return raws, skipped, nil
}

func rawFromRow(col map[string]int, row []string) (RawTrade, error) {
	cell := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	tags := func(name string) StringList {
		v := cell(name)
		if v == "" {
			return StringList{}
		}
		return StringList(strings.Split(v, tagSep))
	}

	raw := RawTrade{
		ID:                cell("id"),
		Date:              cell("date"),
		EntryTime:         cell("entry_time"),
		Symbol:            cell("symbol"),
		Direction:         cell("direction"),
		Outcome:           cell("outcome"),
		SetupName:         cell("setup_name"),
		StructureTags:     tags("structure_tags"),
		MarketShiftTags:   tags("market_shift_tags"),
		PhaseTags:         tags("phase_tags"),
		LevelTags:         tags("level_tags"),
		PsychologyFactors: tags("psychology_factors"),
		GoodHabits:        tags("good_habits"),
		ExecutedRules:     tags("executed_rules"),
		StrategyID:        cell("strategy_id"),
		Notes:             cell("notes"),
	}

	numbers := []struct {
		name string
		dst  *Number
	}{
		{"entry_price", &raw.EntryPrice},
		{"exit_price", &raw.ExitPrice},
		{"stop_loss", &raw.StopLoss},
		{"take_profit", &raw.TakeProfit},
		{"size", &raw.Size},
		{"pnl", &raw.PnL},
		{"duration_minutes", &raw.DurationMinutes},
	}
	for _, n := range numbers {
		if err := n.dst.parse(cell(n.name)); err != nil {
			return raw, fmt.Errorf("%s: %w", n.name, err)
		}
	}
	return raw, nil
}
