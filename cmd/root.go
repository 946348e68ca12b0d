package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/username/tradejournal/src/config"
	"github.com/username/tradejournal/src/logger"
)

type rootOptions struct {
	configFile string
	logLevel   string
	cfg        *config.AppConfig
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "tradejournal",
		Short: "Import MT4, MT5 and generic trade history exports into a trade journal",
		Long: `tradejournal normalizes broker trade history exports (MetaTrader 4, MetaTrader 5
and generic spreadsheets, as CSV or xlsx) into canonical trades and stores them
per account.

  tradejournal parse history.csv               # print trades and row errors
  tradejournal import history.csv --account a1 # store trades in the database
  tradejournal serve                           # run the HTTP API`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			// stdout belongs to command output.
			logger.InitLoggerTo(cmd.ErrOrStderr(), cfg.LogLevel)
			opts.cfg = cfg
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a YAML config file (default: $CONFIG_FILE)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default: $LOG_LEVEL)")

	root.AddCommand(
		newServeCmd(opts),
		newParseCmd(),
		newImportCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
