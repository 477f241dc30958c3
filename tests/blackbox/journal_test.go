//go:build blackbox

package blackbox

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestImportThenAnalyze(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "journal.sqlite")
	tradesPath := filepath.Join(dir, "trades.csv")

	// ORB wins, Fade loses
	writeTradesCSV(t, tradesPath, 30, func(i int) float64 {
		if i%3 == 0 {
			return -80
		}
		return 120
	})

	out := run(t, "import", "--file", tradesPath, "--db", dbPath)
	if !strings.Contains(out, "Imported 30 trade(s)") {
		t.Fatalf("unexpected import output:\n%s", out)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 30 {
		t.Fatalf("expected 30 stored trades, got %d", n)
	}

	var report struct {
		Summary struct {
			Trades   int     `json:"trades"`
			TotalPnL float64 `json:"total_pnl"`
		} `json:"summary"`
		Setups struct {
			PersonalEdge *struct {
				Name string `json:"name"`
			} `json:"personal_edge"`
		} `json:"setups"`
	}
	js := run(t, "analyze", "--db", dbPath, "--format", "json")
	if err := json.Unmarshal([]byte(js), &report); err != nil {
		t.Fatalf("analyze output is not JSON: %v\n%s", err, js)
	}
	if report.Summary.Trades != 30 {
		t.Fatalf("expected 30 trades in report, got %d", report.Summary.Trades)
	}
	// 20 wins of 120, 10 losses of 80
	if report.Summary.TotalPnL != 1600 {
		t.Fatalf("expected total pnl 1600, got %v", report.Summary.TotalPnL)
	}
	if report.Setups.PersonalEdge == nil || report.Setups.PersonalEdge.Name != "ORB" {
		t.Fatalf("expected ORB as personal edge, got %+v", report.Setups.PersonalEdge)
	}

	org := run(t, "analyze", "--db", dbPath)
	for _, want := range []string{"* REPORT: Trading Journal", "** Setups", "| ORB |", "** Psychology"} {
		if !strings.Contains(org, want) {
			t.Fatalf("expected %q in org report:\n%s", want, org)
		}
	}
}

func TestJournalDay(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "journal.sqlite")
	tradesPath := filepath.Join(dir, "trades.csv")

	writeTradesCSV(t, tradesPath, 3, func(i int) float64 { return 10 })
	run(t, "import", "--file", tradesPath, "--db", dbPath)

	out := run(t, "journal", "day", "2024-01-03", "--db", dbPath)
	if strings.Count(out, ":TRADE_ID:") != 1 {
		t.Fatalf("expected one trade on 2024-01-03, got:\n%s", out)
	}
}
