package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import closed trades into the journal",
	Long: `Decode a trade export, normalize every record and store the result.

Records that cannot be normalized (missing date, bad JSON object, short CSV
row) are skipped and logged with their position in the file; the rest are
stored. Trades without an id get a ULID derived from their date and contents,
so re-importing the same file replaces those trades instead of duplicating
them.

Examples:
  tradejournal import --file trades.json
  tradejournal import --file export.csv --db ~/journal.sqlite`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var importFile string

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "trade file (.json, .yaml, .yml or .csv, optionally .xz compressed)")
	importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	trades, skipped, err := journal.LoadTradesFile(importFile)
	if err != nil {
		return err
	}
	logSkipped("trade", skipped)

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.RecordTrades(cmd.Context(), trades); err != nil {
		return fmt.Errorf("store trades: %w", err)
	}

	log.Info("trades imported",
		zap.String("file", importFile),
		zap.Int("stored", len(trades)),
		zap.Int("skipped", len(skipped)),
	)
	fmt.Printf("✓ Imported %d trade(s) from %s (%d skipped)\n", len(trades), importFile, len(skipped))
	return nil
}
