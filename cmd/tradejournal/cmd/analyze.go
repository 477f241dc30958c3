package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Build the performance report",
	Long: `Run every analytics module over the journal and print the report.

By default the trades and strategies come from the SQLite journal. With
--file the trades are read straight from an export instead (strategies still
come from the journal, or from --playbook when given).

Examples:
  tradejournal analyze
  tradejournal analyze --format json > report.json
  tradejournal analyze --file trades.csv --playbook playbook.yaml`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var (
	analyzeFormat   string
	analyzeFile     string
	analyzePlaybook string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "org", "output format: org, json or yaml")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "analyze a trade file instead of the journal")
	analyzeCmd.Flags().StringVarP(&analyzePlaybook, "playbook", "p", "", "read strategies from a playbook file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}

	var (
		trades     []journal.TradeRecord
		strategies []journal.Strategy
		skipped    []journal.Skipped
	)

	if analyzeFile != "" {
		trades, skipped, err = journal.LoadTradesFile(analyzeFile)
		if err != nil {
			return err
		}
		logSkipped("trade", skipped)
	}

	if analyzePlaybook != "" {
		strategies, err = journal.LoadStrategiesFile(analyzePlaybook)
		if err != nil {
			return err
		}
	}

	if analyzeFile == "" || analyzePlaybook == "" {
		j, err := openJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		if analyzeFile == "" {
			if trades, err = j.ListTrades(cmd.Context()); err != nil {
				return fmt.Errorf("query trades: %w", err)
			}
		}
		if analyzePlaybook == "" {
			if strategies, err = j.ListStrategies(cmd.Context()); err != nil {
				return fmt.Errorf("list strategies: %w", err)
			}
		}
	}

	engine := analytics.NewEngine(cfg.AnalyticsOptions(), log)
	r, err := engine.Build(cmd.Context(), trades, strategies, time.Now())
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	r.Skipped = skipped

	return report.Write(os.Stdout, r, format)
}
