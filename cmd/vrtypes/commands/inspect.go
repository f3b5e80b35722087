package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/spf13/cobra"

	"github.com/banshee-data/vrtypes/internal/chunk"
	"github.com/banshee-data/vrtypes/internal/registry"
)

func inspectCmd(e *env) *cobra.Command {
	var headersOnly bool
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the chunks of a " + chunk.FileExtension + " stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := e.fsys.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open stream: %w", err)
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			dec := chunk.NewDecoder(f, nil)
			n := 0
			for {
				c, err := dec.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				n++
				printChunk(out, e.reg, c, headersOnly)
				c.Release()
			}
			fmt.Fprintf(out, "%d chunks\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&headersOnly, "headers", false, "print only the chunk headers")
	return cmd
}

func printChunk(out io.Writer, reg *registry.Registry, c *chunk.Chunk, headersOnly bool) {
	fmt.Fprintf(out, "chunk %s %s rows=%d bytes=%d\n", c.ID(), c.EntityPath(), c.NumRows(), c.HeapSizeBytes())
	if headersOnly {
		return
	}
	for _, tc := range c.Timelines() {
		fmt.Fprintf(out, "  timeline %s (%s):", tc.Timeline.Name, tc.Timeline.Kind)
		for i := 0; i < tc.Values.Len(); i++ {
			if tc.Values.IsNull(i) {
				fmt.Fprint(out, " null")
			} else {
				fmt.Fprintf(out, " %d", tc.Values.Value(i))
			}
		}
		fmt.Fprintln(out)
	}
	for _, name := range c.ComponentNames() {
		for row := 0; row < c.NumRows(); row++ {
			arr, err := c.ComponentArray(name, row)
			if errors.Is(err, chunk.ErrComponentAbsent) {
				continue
			}
			if err != nil {
				fmt.Fprintf(out, "  %s[%d]: %v\n", name, row, err)
				continue
			}
			fmt.Fprintf(out, "  %s[%d]: %s\n", name, row, summarize(reg, string(name), arr))
			arr.Release()
		}
	}
}

// summarize renders a cell with the registered codec, falling back to a
// value count for names the registry does not know.
func summarize(reg *registry.Registry, name string, arr arrow.Array) string {
	if strings.HasSuffix(name, "Indicator") && arr.DataType().ID() == arrow.NULL {
		return "indicator"
	}
	d, err := reg.Lookup(name)
	if err != nil {
		return fmt.Sprintf("%d values of %s", arr.Len(), arr.DataType())
	}
	vals, err := d.DecodeSummary(arr)
	if err != nil {
		return fmt.Sprintf("undecodable: %v", err)
	}
	return "[" + strings.Join(vals, ", ") + "]"
}
