package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/journal"
)

var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Manage playbook strategies",
	Long: `Store and list the playbook strategies that rule compliance is scored
against.

Subcommands:
  import - Store every strategy in a playbook file
  list   - List stored strategies and their rules

Examples:
  tradejournal strategy import --file playbook.yaml
  tradejournal strategy list`,
}

var strategyImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store every strategy in a playbook file",
	Args:  cobra.NoArgs,
	RunE:  runStrategyImport,
}

var strategyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored strategies and their rules",
	Args:  cobra.NoArgs,
	RunE:  runStrategyList,
}

var strategyFile string

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyImportCmd)
	strategyCmd.AddCommand(strategyListCmd)

	strategyImportCmd.Flags().StringVarP(&strategyFile, "file", "f", "", "playbook file (.json, .yaml or .yml)")
	strategyImportCmd.MarkFlagRequired("file")
}

func runStrategyImport(cmd *cobra.Command, args []string) error {
	strategies, err := journal.LoadStrategiesFile(strategyFile)
	if err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	for _, s := range strategies {
		if err := j.RecordStrategy(cmd.Context(), s); err != nil {
			return fmt.Errorf("store strategy %s: %w", s.ID, err)
		}
		log.Debug("strategy stored", zap.String("id", s.ID), zap.Int("rules", len(s.Rules)))
	}

	fmt.Printf("✓ Stored %d strateg(ies) from %s\n", len(strategies), strategyFile)
	return nil
}

func runStrategyList(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	strategies, err := j.ListStrategies(cmd.Context())
	if err != nil {
		return fmt.Errorf("list strategies: %w", err)
	}
	if len(strategies) == 0 {
		fmt.Println("# no strategies stored")
		return nil
	}

	for _, s := range strategies {
		fmt.Printf("* %s (%s)\n", s.Name, s.ID)
		for _, r := range s.Rules {
			req := ""
			if r.Required {
				req = " [required]"
			}
			fmt.Printf("  - %s [%s] %s%s\n", r.ID, r.Phase, r.Text, req)
		}
	}
	return nil
}
