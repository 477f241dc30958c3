package journal

import (
	"fmt"
	"strings"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block suitable for pasting into a journal.
// Structured facts live in a PROPERTIES drawer; the headings below it are left
// for the trader's own notes.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Symbol, strings.ToUpper(string(t.Direction)), shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":DATE: %s\n", t.Date.Format("2006-01-02")))
	if t.EntryTime != "" {
		b.WriteString(fmt.Sprintf(":ENTRY_TIME: %s\n", t.EntryTime))
	}
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":DIRECTION: %s\n", t.Direction))
	b.WriteString(fmt.Sprintf(":SIZE: %g\n", t.Size))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.5f\n", t.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.5f\n", t.ExitPrice))
	b.WriteString(fmt.Sprintf(":STOP_LOSS: %.5f\n", t.StopLoss))
	b.WriteString(fmt.Sprintf(":TAKE_PROFIT: %.5f\n", t.TakeProfit))
	b.WriteString(fmt.Sprintf(":PNL: %.2f\n", t.PnL))
	b.WriteString(fmt.Sprintf(":OUTCOME: %s\n", t.Outcome))
	b.WriteString(fmt.Sprintf(":DURATION_MIN: %g\n", t.DurationMinutes))
	if t.SetupName != "" {
		b.WriteString(fmt.Sprintf(":SETUP: %s\n", t.SetupName))
	}
	if t.StrategyID != "" {
		b.WriteString(fmt.Sprintf(":STRATEGY: %s\n", t.StrategyID))
	}
	b.WriteString(":END:\n")

	if tags := orgTags(t); tags != "" {
		b.WriteString("\n")
		b.WriteString(tags)
	}

	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n")
	if len(t.ExecutedRules) > 0 {
		for _, r := range t.ExecutedRules {
			b.WriteString(fmt.Sprintf("- [X] %s\n", r))
		}
	} else {
		b.WriteString("- \n")
	}
	b.WriteString("\n")
	b.WriteString("*** Review\n")
	if t.Notes != "" {
		b.WriteString(t.Notes)
		b.WriteString("\n")
	} else {
		b.WriteString("- \n")
	}

	return b.String()
}

func orgTags(t TradeRecord) string {
	groups := []struct {
		label string
		tags  []string
	}{
		{"Structure", t.StructureTags},
		{"Market shift", t.MarketShiftTags},
		{"Phase", t.PhaseTags},
		{"Levels", t.LevelTags},
		{"Psychology", t.PsychologyFactors},
		{"Good habits", t.GoodHabits},
	}
	var b strings.Builder
	for _, g := range groups {
		if len(g.tags) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("- %s :: %s\n", g.label, strings.Join(g.tags, ", ")))
	}
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
