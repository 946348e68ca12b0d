package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/username/tradejournal/src/parsers"
)

// Set at build time with -ldflags "-X github.com/username/tradejournal/cmd.Version=...".
var (
	Version   = "dev"
	BuildDate = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "tradejournal")
			fmt.Fprintf(out, "Version:    %s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "Formats:    %v\n", parsers.SupportedFormats())
		},
	}
}
