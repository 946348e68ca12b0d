package cmd

import (
	"errors"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"

	"github.com/username/tradejournal/src/database"
	"github.com/username/tradejournal/src/logger"
	"github.com/username/tradejournal/src/processors"
	"github.com/username/tradejournal/src/services"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a trade history export into the database",
		Long: `Import parses FILE and stores its trades for --account in batches. Trades
already stored for the account are skipped. The command exits non-zero when
nothing could be imported or a batch failed; trades of earlier batches stay
stored in that case.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if accountID == "" {
				accountID = cfg.DefaultAccountID
			}
			req, err := readImportFile(args[0], accountID)
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer db.Close()

			store := services.NewSQLiteTradeStore(db)
			svc := services.NewImportService(processors.NewTradeProcessor(), store, store,
				cache.New(cfg.ParseCacheTTL, 2*cfg.ParseCacheTTL),
				services.WithBatchSize(cfg.ImportBatchSize))

			stderr := cmd.ErrOrStderr()
			report, err := svc.Commit(cmd.Context(), req, func(p services.Progress) {
				fmt.Fprintf(stderr, "batch %d/%d: %d/%d trades committed\n", p.BatchesDone, p.BatchesTotal, p.Committed, p.Total)
			})
			if report != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "import %s (%s): %s\n", report.ImportID, report.Format, report.Status)
				fmt.Fprintf(out, "  parsed:     %d\n", report.Parsed)
				fmt.Fprintf(out, "  committed:  %d\n", report.Committed)
				fmt.Fprintf(out, "  duplicates: %d\n", report.Duplicates)
				fmt.Fprintf(out, "  row errors: %d\n", len(report.RowErrors))
				for _, e := range report.RowErrors {
					fmt.Fprintf(stderr, "%s [%s]\n", e.Message, e.Reason)
				}
			}
			if err != nil {
				if errors.Is(err, services.ErrBatchFailed) {
					logger.L.Error("Import stopped early", "account", accountID, "error", err)
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account the trades belong to (default: $DEFAULT_ACCOUNT_ID)")
	return cmd
}
