package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banshee-data/vrtypes/internal/registry"
)

func listCmd(e *env) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered datatypes and components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var k registry.Kind
			if kind != "" {
				var err error
				if k, err = registry.ParseKind(kind); err != nil {
					return err
				}
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tARROW")
			for _, d := range e.reg.List(k) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Kind, d.ArrowDatatype)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list one kind: datatype, component or blueprint")
	return cmd
}

func describeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name>",
		Short: "Show the Arrow datatype and doc of one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := e.reg.Lookup(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:  %s\n", d.Name)
			fmt.Fprintf(out, "kind:  %s\n", d.Kind)
			fmt.Fprintf(out, "arrow: %s\n", d.ArrowDatatype)
			if d.Doc != "" {
				fmt.Fprintf(out, "doc:   %s\n", d.Doc)
			}
			return nil
		},
	}
}
