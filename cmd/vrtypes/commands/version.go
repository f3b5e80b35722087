package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/vrtypes/internal/chunk"
	"github.com/banshee-data/vrtypes/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.String())
			fmt.Fprintf(out, "stream format: %s v%d\n", chunk.Magic, chunk.FormatVersion)
			return nil
		},
	}
}
