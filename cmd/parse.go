package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"

	"github.com/username/tradejournal/src/models"
	"github.com/username/tradejournal/src/processors"
	"github.com/username/tradejournal/src/services"
)

const (
	outputJSON = "json"
	outputCSV  = "csv"
)

func newParseCmd() *cobra.Command {
	var (
		output     string
		showErrors bool
	)

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a trade history export and print the result",
		Long: `Parse detects the export format and prints the import result as JSON, or the
trades as CSV with --output csv. Nothing is stored. With --errors every row
error is also listed on stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputJSON && output != outputCSV {
				return fmt.Errorf("unsupported output %q, use json or csv", output)
			}
			req, err := readImportFile(args[0], "")
			if err != nil {
				return err
			}

			// Preview never touches the store.
			svc := services.NewImportService(processors.NewTradeProcessor(), nil, nil,
				cache.New(time.Minute, time.Minute))
			result, err := svc.Preview(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case outputCSV:
				if err := services.WriteTradesCSV(out, asStored(result)); err != nil {
					return err
				}
			default:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("error encoding result: %w", err)
				}
			}

			if showErrors {
				for _, e := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s [%s]\n", e.Message, e.Reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or csv")
	cmd.Flags().BoolVar(&showErrors, "errors", false, "list row errors on stderr")
	return cmd
}

func readImportFile(path, accountID string) (services.ImportRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return services.ImportRequest{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return services.ImportRequest{AccountID: accountID, FileName: filepath.Base(path), Content: content}, nil
}

func asStored(result *models.ImportResult) []models.StoredTrade {
	stored := make([]models.StoredTrade, 0, len(result.Trades))
	for _, tr := range result.Trades {
		stored = append(stored, models.StoredTrade{Format: result.Format, CanonicalTrade: tr})
	}
	return stored
}
