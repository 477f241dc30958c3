package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/journal"
)

var (
	cfgFile  string
	dbPath   string
	logLevel string

	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "Performance analytics for a personal trading journal",
	Long: `Tradejournal stores closed trades and playbook strategies in a local
SQLite journal and turns them into a performance report.

It provides tools for:
  - Importing trades from JSON, YAML or CSV exports
  - Managing playbook strategies and their rules
  - Win rate, profit factor, expectancy and drawdown
  - Kelly based risk sizing
  - Setup, psychology and rule compliance analysis

Complete documentation is available at https://github.com/rustyeddy/tradejournal`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
}

// setup loads the config file, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	c := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
		c = loaded
	}
	if dbPath != "" {
		c.Journal.DBPath = dbPath
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	l, err := logger.New(c.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	cfg, log = c, l
	return nil
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	log.Debug("journal opened", zap.String("db", cfg.Journal.DBPath))
	return j, nil
}

func logSkipped(what string, skipped []journal.Skipped) {
	for _, s := range skipped {
		log.Warn("skipped "+what,
			zap.Int("index", s.Index),
			zap.String("id", s.ID),
			zap.String("reason", s.Reason),
		)
	}
}
