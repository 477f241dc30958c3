package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored trade to a CSV file",
	Long: `Export the journal as CSV. The file can be fed back to import.

Example:
  tradejournal export --output trades.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "trades.csv", "output CSV path")
}

func runExport(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTrades(cmd.Context())
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	out, err := journal.NewCSV(exportOutput)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	for _, t := range trades {
		if err := out.RecordTrade(cmd.Context(), t); err != nil {
			out.Close()
			return fmt.Errorf("write trade %s: %w", t.ID, err)
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}

	log.Info("trades exported", zap.String("file", exportOutput), zap.Int("trades", len(trades)))
	fmt.Printf("✓ Exported %d trade(s) to %s\n", len(trades), exportOutput)
	return nil
}
