package analytics

import (
	"time"

	"github.com/rustyeddy/tradejournal/internal/stats"
	"github.com/rustyeddy/tradejournal/journal"
)

// PeriodSummary covers trades dated in [Start, End). WinRate is a percentage.
type PeriodSummary struct {
	Label   string    `json:"label" yaml:"label"`
	Start   time.Time `json:"start" yaml:"start"`
	End     time.Time `json:"end" yaml:"end"`
	Trades  int       `json:"trades" yaml:"trades"`
	PnL     float64   `json:"pnl" yaml:"pnl"`
	WinRate float64   `json:"win_rate" yaml:"win_rate"`
}

type PeriodReport struct {
	Today PeriodSummary `json:"today" yaml:"today"`
	Week  PeriodSummary `json:"week" yaml:"week"`
	Month PeriodSummary `json:"month" yaml:"month"`
	Year  PeriodSummary `json:"year" yaml:"year"`
}

// Periods buckets trades into the day, week, month and year containing now.
// Weeks start on Monday. Bucket bounds are in now's location, and a trade's
// date is read as a wall-clock date in that location, the same way it was
// written in the journal.
func Periods(trades []journal.TradeRecord, now time.Time) PeriodReport {
	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekday := (int(day.Weekday()) + 6) % 7
	week := day.AddDate(0, 0, -weekday)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	year := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)

	return PeriodReport{
		Today: period("today", day, day.AddDate(0, 0, 1), trades),
		Week:  period("week", week, week.AddDate(0, 0, 7), trades),
		Month: period("month", month, month.AddDate(0, 1, 0), trades),
		Year:  period("year", year, year.AddDate(1, 0, 0), trades),
	}
}

func period(label string, start, end time.Time, trades []journal.TradeRecord) PeriodSummary {
	p := PeriodSummary{Label: label, Start: start, End: end}
	wins := 0
	for _, t := range trades {
		d := wallClock(t.Date, start.Location())
		if d.Before(start) || !d.Before(end) {
			continue
		}
		p.Trades++
		p.PnL += t.PnL
		if t.IsWin() {
			wins++
		}
	}
	p.WinRate = stats.Ratio(float64(wins), float64(p.Trades), 0) * 100
	return p
}

// wallClock keeps t's calendar date and clock reading but places them in loc.
func wallClock(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
