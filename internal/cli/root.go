// Package cli implements climatectl, an offline front end to the projection
// model.
package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs climatectl with the process arguments and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "climatectl",
		Short:        "Inspect and export climate projections",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		regionsCmd(),
		projectCmd(),
		seriesCmd(),
		exportCmd(),
		goldenCmd(),
	)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
