package risk

import (
	"math"

	"github.com/rustyeddy/tradejournal/journal"
)

// PlannedRisk computes the currency risked if the stop is hit: size times the
// entry-to-stop distance.
func PlannedRisk(size, entry, stop float64) float64 {
	return math.Abs(size) * math.Abs(entry-stop)
}

// RR is the planned reward:risk multiple of a bracket. 0 when entry == stop.
func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// RiskPct is planned risk as a fraction of equity.
func RiskPct(plannedRisk, equity float64) float64 {
	if equity <= 0 {
		return math.Inf(1)
	}
	return plannedRisk / equity
}

// PlannedRR returns the planned reward:risk of a journal trade. ok is false
// when entry, stop or target was not recorded.
func PlannedRR(t journal.TradeRecord) (float64, bool) {
	if t.EntryPrice == 0 || t.StopLoss == 0 || t.TakeProfit == 0 || t.EntryPrice == t.StopLoss {
		return 0, false
	}
	return RR(t.EntryPrice, t.StopLoss, t.TakeProfit), true
}

// RMultiple is realized pnl expressed in units of planned risk.
func RMultiple(t journal.TradeRecord) (float64, bool) {
	if t.StopLoss == 0 {
		return 0, false
	}
	risk := PlannedRisk(t.Size, t.EntryPrice, t.StopLoss)
	if risk == 0 {
		return 0, false
	}
	return t.PnL / risk, true
}
