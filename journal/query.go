package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (TradeRecord, error) {
	var (
		rec       TradeRecord
		direction string
		outcome   string
		tags      [7]string
	)
	err := row.Scan(
		&rec.ID, &rec.Date, &rec.EntryTime, &rec.Symbol, &direction,
		&rec.EntryPrice, &rec.ExitPrice, &rec.StopLoss, &rec.TakeProfit, &rec.Size, &rec.PnL, &outcome,
		&rec.DurationMinutes, &rec.SetupName,
		&tags[0], &tags[1], &tags[2], &tags[3],
		&tags[4], &tags[5], &tags[6], &rec.StrategyID, &rec.Notes,
	)
	if err != nil {
		return TradeRecord{}, err
	}
	rec.Direction = Direction(direction)
	rec.Outcome = Outcome(outcome)

	dst := []*[]string{
		&rec.StructureTags, &rec.MarketShiftTags, &rec.PhaseTags, &rec.LevelTags,
		&rec.PsychologyFactors, &rec.GoodHabits, &rec.ExecutedRules,
	}
	for i, d := range dst {
		list, err := decodeTags(tags[i])
		if err != nil {
			return TradeRecord{}, fmt.Errorf("trade %s: bad tag column: %w", rec.ID, err)
		}
		*d = list
	}
	return rec, nil
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, tradeID)
	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q: %w", tradeID, ErrTradeNotFound)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTrades returns every stored trade in chronological order.
func (j *SQLite) ListTrades(ctx context.Context) ([]TradeRecord, error) {
	return j.queryTrades(ctx, `SELECT `+tradeColumns+` FROM trades ORDER BY date ASC, entry_time ASC, id ASC`)
}

// ListTradesBetween returns trades dated within [start, end) in chronological order.
func (j *SQLite) ListTradesBetween(ctx context.Context, start, end time.Time) ([]TradeRecord, error) {
	recs, err := j.ListTrades(ctx)
	if err != nil {
		return nil, err
	}
	out := recs[:0]
	for _, r := range recs {
		if !r.Date.Before(start) && r.Date.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (j *SQLite) queryTrades(ctx context.Context, query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TradeRecord{}
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// stored offsets may differ, so order by instant rather than text
	sort.SliceStable(out, func(a, b int) bool { return out[a].Before(out[b]) })
	return out, nil
}

// GetStrategy returns a strategy with its rules in playbook order.
func (j *SQLite) GetStrategy(ctx context.Context, strategyID string) (Strategy, error) {
	var s Strategy
	err := j.db.QueryRowContext(ctx, `SELECT id, name FROM strategies WHERE id = ?`, strategyID).Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Strategy{}, fmt.Errorf("strategy %q: %w", strategyID, ErrStrategyNotFound)
		}
		return Strategy{}, err
	}
	rules, err := j.rules(ctx, s.ID)
	if err != nil {
		return Strategy{}, err
	}
	s.Rules = rules
	return s, nil
}

// ListStrategies returns every strategy ordered by ID.
func (j *SQLite) ListStrategies(ctx context.Context) ([]Strategy, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT id, name FROM strategies ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	out := []Strategy{}
	for rows.Next() {
		var s Strategy
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		rules, err := j.rules(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Rules = rules
	}
	return out, nil
}

func (j *SQLite) rules(ctx context.Context, strategyID string) ([]StrategyRule, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, text, phase, category, required
		FROM strategy_rules
		WHERE strategy_id = ?
		ORDER BY position ASC`, strategyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StrategyRule{}
	for rows.Next() {
		var r StrategyRule
		if err := rows.Scan(&r.ID, &r.Text, &r.Phase, &r.Category, &r.Required); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
