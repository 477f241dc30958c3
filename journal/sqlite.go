package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const tradeColumns = `id, date, entry_time, symbol, direction,
	entry_price, exit_price, stop_loss, take_profit, size, pnl, outcome,
	duration_minutes, setup_name,
	structure_tags, market_shift_tags, phase_tags, level_tags,
	psychology_factors, good_habits, executed_rules, strategy_id, notes`

// SQLite is a Journal backed by a single SQLite file.
type SQLite struct {
	db *sql.DB
}

var _ Journal = (*SQLite)(nil)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RecordTrade inserts t, replacing any stored trade with the same ID.
func (j *SQLite) RecordTrade(ctx context.Context, t TradeRecord) error {
	return insertTrade(ctx, j.db, t)
}

// RecordTrades stores a batch of trades in one transaction.
func (j *SQLite) RecordTrades(ctx context.Context, trades []TradeRecord) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, t := range trades {
		if err := insertTrade(ctx, tx, t); err != nil {
			tx.Rollback()
			return fmt.Errorf("trade %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func insertTrade(ctx context.Context, db execer, t TradeRecord) error {
	tags, err := encodeTags(t.StructureTags, t.MarketShiftTags, t.PhaseTags, t.LevelTags,
		t.PsychologyFactors, t.GoodHabits, t.ExecutedRules)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Date, t.EntryTime, t.Symbol, string(t.Direction),
		t.EntryPrice, t.ExitPrice, t.StopLoss, t.TakeProfit, t.Size, t.PnL, string(t.Outcome),
		t.DurationMinutes, t.SetupName,
		tags[0], tags[1], tags[2], tags[3],
		tags[4], tags[5], tags[6], t.StrategyID, t.Notes,
	)
	return err
}

// RecordStrategy stores s and replaces its rule list.
func (j *SQLite) RecordStrategy(ctx context.Context, s Strategy) error {
	if err := s.normalize(); err != nil {
		return err
	}
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO strategies (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`, s.ID, s.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM strategy_rules WHERE strategy_id = ?`, s.ID); err != nil {
		return err
	}
	for i, r := range s.Rules {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO strategy_rules (strategy_id, position, id, text, phase, category, required)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, i, r.ID, r.Text, r.Phase, r.Category, r.Required); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func encodeTags(lists ...[]string) ([]string, error) {
	out := make([]string, len(lists))
	for i, l := range lists {
		if l == nil {
			l = []string{}
		}
		b, err := json.Marshal(l)
		if err != nil {
			return nil, err
		}
		out[i] = string(b)
	}
	return out, nil
}

func decodeTags(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
