package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradejournal/journal"
)

func run(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
}

func TestImportAndAnalyze(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "j.sqlite")

	trades := filepath.Join(dir, "trades.json")
	require.NoError(t, os.WriteFile(trades, []byte(`[
  {"id": "t1", "date": "2024-03-01", "symbol": "ES", "direction": "long", "pnl": 150, "setup_name": "ORB", "strategy_id": "orb", "executed_rules": ["r1"]},
  {"id": "t2", "date": "2024-03-02", "symbol": "NQ", "direction": "short", "pnl": "-60"},
  {"symbol": "ES", "pnl": 10}
]`), 0644))

	playbook := filepath.Join(dir, "playbook.yaml")
	require.NoError(t, os.WriteFile(playbook, []byte(`
strategies:
  - id: orb
    name: Opening range
    rules:
      - id: r1
        text: Wait for the range
        phase: entry
      - id: r2
        text: Stop under the range
        phase: risk
`), 0644))

	run(t, "--db", db, "--log-level", "error", "import", "--file", trades)
	run(t, "--db", db, "--log-level", "error", "strategy", "import", "--file", playbook)

	j, err := journal.NewSQLite(db)
	require.NoError(t, err)
	defer j.Close()

	stored, err := j.ListTrades(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	strategies, err := j.ListStrategies(context.Background())
	require.NoError(t, err)
	require.Len(t, strategies, 1)
	assert.Len(t, strategies[0].Rules, 2)

	out := filepath.Join(dir, "out.csv")
	run(t, "--db", db, "--log-level", "error", "export", "--output", out)
	reloaded, skipped, err := journal.LoadTradesFile(out)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Len(t, reloaded, 2)

	run(t, "--db", db, "--log-level", "error", "analyze", "--format", "json")
}

func TestSetupRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analytics:\n  trading_days: -1\n"), 0644))

	rootCmd.SetArgs([]string{"--config", path, "version"})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "trading_days")
	cfgFile = ""
}
