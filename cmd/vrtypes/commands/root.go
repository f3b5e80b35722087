package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/banshee-data/vrtypes/internal/blueprintcfg"
	"github.com/banshee-data/vrtypes/internal/chunk"
	"github.com/banshee-data/vrtypes/internal/fsutil"
	"github.com/banshee-data/vrtypes/internal/monitoring"
	"github.com/banshee-data/vrtypes/internal/registry"
)

type env struct {
	fsys    fsutil.FileSystem
	reg     *registry.Registry
	verbose bool
	trace   bool
}

// Execute runs the CLI against the OS filesystem.
func Execute() error {
	return NewRootCmd(fsutil.OSFileSystem{}).Execute()
}

// NewRootCmd builds the command tree over fsys.
func NewRootCmd(fsys fsutil.FileSystem) *cobra.Command {
	e := &env{fsys: fsys}
	root := &cobra.Command{
		Use:          "vrtypes",
		Short:        "Inspect typed components and encode blueprint streams",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			stderr := cmd.ErrOrStderr()
			monitoring.SetOutput(stderr, "[vrtypes] ")
			var diag, trace io.Writer
			if e.verbose || e.trace {
				diag = stderr
			}
			if e.trace {
				trace = stderr
			}
			chunk.SetLogWriters(stderr, diag, trace)
			blueprintcfg.SetLogWriters(stderr, diag, trace)

			reg, err := registry.Default()
			if err != nil {
				return err
			}
			e.reg = reg
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "log load and stream summaries to stderr")
	root.PersistentFlags().BoolVar(&e.trace, "trace", false, "log per-row and per-frame detail to stderr")

	root.AddCommand(listCmd(e), describeCmd(e), encodeBlueprintCmd(e), inspectCmd(e), versionCmd())
	return root
}
