//go:build blackbox

package blackbox

import (
	"encoding/csv"
	"os"
	"strconv"
	"testing"
	"time"
)

// writeTradesCSV writes n trades, one per day, whose pnl comes from pnl(i).
func writeTradesCSV(t *testing.T, path string, n int, pnl func(i int) float64) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"id", "date", "entry_time", "symbol", "direction", "pnl", "setup_name", "psychology_factors"})
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		setup, tags := "ORB", "patience"
		if i%3 == 0 {
			setup, tags = "Fade", "fomo;revenge"
		}
		_ = w.Write([]string{
			"t" + strconv.Itoa(i),
			start.AddDate(0, 0, i).Format("2006-01-02"),
			"09:" + strconv.Itoa(30+i%30),
			"ES",
			"long",
			strconv.FormatFloat(pnl(i), 'f', 2, 64),
			setup,
			tags,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatal(err)
	}
}
