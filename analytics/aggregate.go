package analytics

import (
	"sort"
	"time"

	"github.com/rustyeddy/tradejournal/internal/stats"
	"github.com/rustyeddy/tradejournal/journal"
)

// Summary totals a trade list. WinRate is a percentage in 0..100.
type Summary struct {
	Trades         int     `json:"trades" yaml:"trades"`
	TotalPnL       float64 `json:"total_pnl" yaml:"total_pnl"`
	WinCount       int     `json:"win_count" yaml:"win_count"`
	LossCount      int     `json:"loss_count" yaml:"loss_count"`
	BreakevenCount int     `json:"breakeven_count" yaml:"breakeven_count"`
	WinRate        float64 `json:"win_rate" yaml:"win_rate"`
}

// Summarize counts wins and losses by the sign of pnl; the Outcome label is
// ignored.
func Summarize(trades []journal.TradeRecord) Summary {
	s := Summary{Trades: len(trades)}
	for _, t := range trades {
		s.TotalPnL += t.PnL
		switch {
		case t.IsWin():
			s.WinCount++
		case t.IsLoss():
			s.LossCount++
		default:
			s.BreakevenCount++
		}
	}
	s.WinRate = stats.Ratio(float64(s.WinCount), float64(s.Trades), 0) * 100
	return s
}

type EquityPoint struct {
	Date          time.Time `json:"date" yaml:"date"`
	TradeID       string    `json:"trade_id" yaml:"trade_id"`
	PnL           float64   `json:"pnl" yaml:"pnl"`
	CumulativePnL float64   `json:"cumulative_pnl" yaml:"cumulative_pnl"`
}

// EquityCurve sorts a copy of trades by date, ties broken by ID, and emits the
// running pnl after each trade. The result is never nil.
func EquityCurve(trades []journal.TradeRecord) []EquityPoint {
	sorted := make([]journal.TradeRecord, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})

	curve := make([]EquityPoint, 0, len(sorted))
	running := 0.0
	for _, t := range sorted {
		running += t.PnL
		curve = append(curve, EquityPoint{
			Date:          t.Date,
			TradeID:       t.ID,
			PnL:           t.PnL,
			CumulativePnL: running,
		})
	}
	return curve
}

// BreakdownRow is one symbol or direction. WinRate is a percentage.
type BreakdownRow struct {
	Key      string  `json:"key" yaml:"key"`
	Trades   int     `json:"trades" yaml:"trades"`
	Wins     int     `json:"wins" yaml:"wins"`
	WinRate  float64 `json:"win_rate" yaml:"win_rate"`
	TotalPnL float64 `json:"total_pnl" yaml:"total_pnl"`
}

type Breakdown struct {
	BySymbol    []BreakdownRow `json:"by_symbol" yaml:"by_symbol"`
	ByDirection []BreakdownRow `json:"by_direction" yaml:"by_direction"`
}

const noSymbol = "(none)"

// BreakdownBy groups trades by symbol and by direction. Rows are sorted by key.
func BreakdownBy(trades []journal.TradeRecord) Breakdown {
	return Breakdown{
		BySymbol: groupRows(trades, func(t journal.TradeRecord) string {
			if t.Symbol == "" {
				return noSymbol
			}
			return t.Symbol
		}),
		ByDirection: groupRows(trades, func(t journal.TradeRecord) string {
			return string(t.Direction)
		}),
	}
}

func groupRows(trades []journal.TradeRecord, key func(journal.TradeRecord) string) []BreakdownRow {
	idx := map[string]int{}
	rows := []BreakdownRow{}
	for _, t := range trades {
		k := key(t)
		i, ok := idx[k]
		if !ok {
			i = len(rows)
			idx[k] = i
			rows = append(rows, BreakdownRow{Key: k})
		}
		rows[i].Trades++
		rows[i].TotalPnL += t.PnL
		if t.IsWin() {
			rows[i].Wins++
		}
	}
	for i := range rows {
		rows[i].WinRate = stats.Ratio(float64(rows[i].Wins), float64(rows[i].Trades), 0) * 100
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}
